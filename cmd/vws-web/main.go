package main

import (
	"context"

	"vws-web-tools/cmd/vws-web/commands"
	"vws-web-tools/lib/osutil"
)

func main() {
	// cancelling closes the browser before exiting
	ctx, stop := osutil.SignalContext(context.Background())
	defer stop()
	commands.ExecuteContext(ctx)
}

package telemetry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	recorder := &Recorder{}
	scoped := NewScopedAPI("vws", recorder)

	scoped.ReportBroken("console.log-in", errors.New("boom"))
	scoped.ReportWarning("console.dismiss-cookie-banner")
	scoped.ReportDebug("console.table-lookup.reload", "name", "db")
	scoped.ReportCount("console.table-lookup.next-page", 2)

	reports := recorder.Reports()
	require.Len(t, reports, 4)
	require.Equal(t, Report{Kind: "count", ID: "vws: console.table-lookup.next-page", Params: []any{int64(2)}}, reports[3])
	require.Equal(t, "vws: console.log-in", reports[0].ID)

	require.True(t, recorder.Has("broken", "console.log-in"))
	require.True(t, recorder.Has("warning", "console.dismiss-cookie-banner"))
	require.False(t, recorder.Has("broken", "console.dismiss-cookie-banner"))
	require.Equal(t, 4, strings.Count(recorder.String(), "\n"))
}

func TestNewHandlerLevels(t *testing.T) {
	var out bytes.Buffer

	quiet := slog.New(newHandler(&out, false))
	quiet.Debug("hidden")
	quiet.Info("shown")
	require.NotContains(t, out.String(), "hidden")
	require.Contains(t, out.String(), "shown")

	out.Reset()
	verbose := slog.New(newHandler(&out, true))
	verbose.Debug("debug line")
	require.Contains(t, out.String(), "debug line")
}

func TestSetupWithoutEndpointsIsNoop(t *testing.T) {
	tracing, err := Setup(context.Background(), "vws-web", Config{})
	require.NoError(t, err)
	require.Nil(t, tracing.TracerProvider)
	require.NoError(t, tracing.Shutdown(context.Background()))
}

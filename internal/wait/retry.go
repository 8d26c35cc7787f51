package wait

import (
	"context"
	"errors"
	"fmt"

	"vws-web-tools/internal/components/telemetry"
)

const report_retry = "wait.retry"

// Retry runs fn up to `attempts` times. It retries only when the returned error
// matches `on` (errors.Is), every other error is returned right away.
// When tel is nil retries are not reported.
func Retry(ctx context.Context, tel telemetry.API, attempts int, on error, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		return fmt.Errorf("wait: attempts must be at least 1, got %d", attempts)
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return errors.Join(err, ctxErr)
			}
			return ctxErr
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, on) {
			return err
		}
		if tel != nil && attempt < attempts {
			tel.ReportWarning(report_retry, attempt, attempts, err)
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}

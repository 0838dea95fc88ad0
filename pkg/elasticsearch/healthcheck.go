package elasticsearch

import (
	"context"
	"errors"
	"fmt"
)

// Healthcheck returns a function suitable for liveness/readiness probes.
// The returned function verifies cluster connectivity with a root info call
// and is safe for concurrent use in HTTP health endpoints.
func Healthcheck(client *Client) func(context.Context) error {
	return func(ctx context.Context) error {
		res, err := client.os.Info(
			client.os.Info.WithContext(ctx),
			client.os.Info.WithErrorTrace(),
		)
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return errors.Join(ErrHealthcheckFailed, fmt.Errorf("unexpected status %s", res.Status()))
		}
		return nil
	}
}

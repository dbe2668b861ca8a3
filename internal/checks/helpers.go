package checks

import (
	"context"

	"github.com/pkg/errors"
)

func contextOrBackground(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func defaultHTTPStatusExpectation(status int) bool {
	return status >= 200 && status < 300
}

func nilComponentError(name, component string) error {
	return errors.Errorf("%s probe: %s is nil", name, component)
}

// probeFailed wraps err with the probe kind and a stack trace
func probeFailed(name string, err error) error {
	return errors.Wrapf(err, "%s probe failed", name)
}

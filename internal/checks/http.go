package checks

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/aryankumar/probectl/internal/probe"
	"github.com/aryankumar/probectl/pkg/version"
)

// HTTPDoer represents the subset of *http.Client required by the HTTP check
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTP checks that a request to target answers with an expected status
// The default expectation is any 2xx status. An empty method means GET
func HTTP(method, target string, opts ...HTTPOption) probe.Operation {
	cfg := buildHTTPConfig(opts...)
	verb := strings.ToUpper(strings.TrimSpace(method))
	if verb == "" {
		verb = http.MethodGet
	}
	trimmedTarget := strings.TrimSpace(target)

	return func(ctx context.Context) error {
		if trimmedTarget == "" {
			return errors.New("http probe: target URL is required")
		}
		ctx = contextOrBackground(ctx)

		req, err := http.NewRequestWithContext(ctx, verb, trimmedTarget, nil)
		if err != nil {
			return errors.Wrap(err, "http probe: failed to build request")
		}

		req.Header.Set("User-Agent", version.UserAgent())
		if err := cfg.applyMutators(req); err != nil {
			return errors.Wrap(err, "http probe: request mutation failed")
		}

		resp, err := cfg.client.Do(req)
		if err != nil {
			return probeFailed("http", err)
		}
		defer resp.Body.Close()

		if err := cfg.validateResponse(resp); err != nil {
			return errors.Wrapf(err, "http probe: %s %s", verb, trimmedTarget)
		}

		if cfg.drainResponse {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				return errors.Wrap(err, "http probe: failed to drain response body")
			}
		}
		return nil
	}
}

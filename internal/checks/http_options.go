package checks

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPStatusExpectation determines whether a given HTTP status code is acceptable
type HTTPStatusExpectation func(status int) bool

// HTTPRequestMutator edits the outbound request before it is sent
type HTTPRequestMutator func(req *http.Request) error

// HTTPResponseValidator inspects the received response and can veto the probe
type HTTPResponseValidator func(resp *http.Response) error

// HTTPOption configures HTTP
type HTTPOption func(*httpConfig)

// maxBodyCheck bounds how much of a response body WithHTTPBodyContains reads
const maxBodyCheck = 1 << 20

type httpConfig struct {
	client             HTTPDoer
	expect             HTTPStatusExpectation
	requestMutators    []HTTPRequestMutator
	responseValidators []HTTPResponseValidator
	drainResponse      bool
}

func buildHTTPConfig(opts ...HTTPOption) *httpConfig {
	cfg := &httpConfig{
		expect:        defaultHTTPStatusExpectation,
		drainResponse: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}
	if cfg.expect == nil {
		cfg.expect = defaultHTTPStatusExpectation
	}
	return cfg
}

func (c *httpConfig) applyMutators(req *http.Request) error {
	for _, mutate := range c.requestMutators {
		if mutate == nil {
			continue
		}
		if err := mutate(req); err != nil {
			return err
		}
	}
	return nil
}

func (c *httpConfig) validateResponse(resp *http.Response) error {
	if !c.expect(resp.StatusCode) {
		return fmt.Errorf("unexpected status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	for _, validator := range c.responseValidators {
		if validator == nil {
			continue
		}
		if err := validator(resp); err != nil {
			return err
		}
	}
	return nil
}

// WithHTTPClient overrides the HTTP client used for the probe
func WithHTTPClient(client HTTPDoer) HTTPOption {
	return func(cfg *httpConfig) {
		cfg.client = client
	}
}

// WithHTTPAllowedStatuses restricts the probe to succeed only for the provided status codes
// With no codes the default 2xx expectation applies
func WithHTTPAllowedStatuses(statuses ...int) HTTPOption {
	allowed := make(map[int]struct{}, len(statuses))
	for _, status := range statuses {
		allowed[status] = struct{}{}
	}
	return func(cfg *httpConfig) {
		cfg.expect = func(status int) bool {
			if len(allowed) == 0 {
				return defaultHTTPStatusExpectation(status)
			}
			_, ok := allowed[status]
			return ok
		}
	}
}

// WithHTTPHeader sets a request header
func WithHTTPHeader(key, value string) HTTPOption {
	return WithHTTPRequestMutator(func(req *http.Request) error {
		req.Header.Set(key, value)
		return nil
	})
}

// WithHTTPBodyContains fails the probe unless the response body contains substr
func WithHTTPBodyContains(substr string) HTTPOption {
	return WithHTTPResponseValidator(func(resp *http.Response) error {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyCheck))
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		if !strings.Contains(string(body), substr) {
			return fmt.Errorf("response body does not contain %q", substr)
		}
		return nil
	})
}

// WithHTTPRequestMutator registers a mutator that runs before the request is dispatched
func WithHTTPRequestMutator(mutator HTTPRequestMutator) HTTPOption {
	return func(cfg *httpConfig) {
		cfg.requestMutators = append(cfg.requestMutators, mutator)
	}
}

// WithHTTPResponseValidator registers a validator that runs after a response is received
func WithHTTPResponseValidator(validator HTTPResponseValidator) HTTPOption {
	return func(cfg *httpConfig) {
		cfg.responseValidators = append(cfg.responseValidators, validator)
	}
}

// WithHTTPDrainResponseBody toggles draining of the response body after validation
func WithHTTPDrainResponseBody(enabled bool) HTTPOption {
	return func(cfg *httpConfig) {
		cfg.drainResponse = enabled
	}
}

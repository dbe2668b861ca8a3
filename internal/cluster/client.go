package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// DefaultHealthTimeout bounds a health check when the caller's context has no deadline
const DefaultHealthTimeout = 10 * time.Second

// NewClient creates a cluster client from a REST config
// No request is made until the client is used.
func NewClient(contextName string, restConfig *rest.Config, logger *slog.Logger) (*Client, error) {
	if restConfig == nil {
		return nil, fmt.Errorf("rest config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	logger.Debug("created cluster client",
		"context", contextName,
		"server", restConfig.Host)

	return &Client{
		Context:    contextName,
		Clientset:  clientset,
		RestConfig: restConfig,
	}, nil
}

// ServerVersion asks the API server for its version through the discovery API
// The discovery call does not take a context, so it runs in a goroutine and
// the wait honours ctx.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	return ServerVersion(ctx, c.Clientset)
}

// ServerVersion queries the discovery API of any clientset
func ServerVersion(ctx context.Context, clientset kubernetes.Interface) (string, error) {
	if clientset == nil {
		return "", fmt.Errorf("clientset cannot be nil")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultHealthTimeout)
		defer cancel()
	}

	type result struct {
		version string
		err     error
	}
	resultCh := make(chan result, 1)

	go func() {
		info, err := clientset.Discovery().ServerVersion()
		if err != nil {
			resultCh <- result{err: err}
			return
		}
		resultCh <- result{version: info.GitVersion}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("server version request interrupted: %w", ctx.Err())
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("failed to get server version: %w", res.err)
		}
		return res.version, nil
	}
}

// HealthCheck pings the API server and reports the outcome
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	status := &HealthStatus{Context: c.Context}

	start := time.Now()
	version, err := c.ServerVersion(ctx)
	status.Latency = time.Since(start)
	if err != nil {
		status.Error = err
		return status
	}

	status.Healthy = true
	status.ServerVersion = version
	return status
}

// String returns a string representation of the client
func (c *Client) String() string {
	host := ""
	if c.RestConfig != nil {
		host = c.RestConfig.Host
	}
	return fmt.Sprintf("Client{Context: %s, Server: %s}", c.Context, host)
}

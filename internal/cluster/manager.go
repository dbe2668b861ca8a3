package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/aryankumar/probectl/internal/config"
	"github.com/aryankumar/probectl/internal/util"
)

// ClientsetFactory builds a clientset for a REST config
type ClientsetFactory func(restConfig *rest.Config) (kubernetes.Interface, error)

// Manager hands out one cached client per kubeconfig context
// Clients are created on first use so plans without kubernetes probes never
// read the kubeconfig.
type Manager struct {
	// clients is a map of context name to client
	clients map[string]*Client

	// mu protects clients and closed
	mu sync.Mutex

	// loader handles kubeconfig loading and parsing
	loader *config.KubeconfigLoader

	// newClientset builds clientsets, replaced in tests
	newClientset ClientsetFactory

	logger *slog.Logger

	closed bool
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithClientsetFactory replaces the function that builds clientsets
func WithClientsetFactory(factory ClientsetFactory) ManagerOption {
	return func(m *Manager) {
		if factory != nil {
			m.newClientset = factory
		}
	}
}

// NewManager creates a new cluster manager
func NewManager(loader *config.KubeconfigLoader, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		clients: make(map[string]*Client),
		loader:  loader,
		logger:  logger,
		newClientset: func(restConfig *rest.Config) (kubernetes.Interface, error) {
			return kubernetes.NewForConfig(restConfig)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Client returns the client for a context, creating it on first use
// An empty context name selects the kubeconfig's current context.
func (m *Manager) Client(ctx context.Context, contextName string) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.loader == nil {
		return nil, fmt.Errorf("%w: no kubeconfig loader", util.ErrInvalidConfig)
	}

	resolved, err := m.loader.ResolveContext(contextName)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("cluster manager is closed")
	}
	if client, ok := m.clients[resolved]; ok {
		return client, nil
	}

	restConfig, err := m.loader.BuildClientConfig(resolved)
	if err != nil {
		return nil, err
	}
	clientset, err := m.newClientset(restConfig)
	if err != nil {
		return nil, fmt.Errorf("context %s: failed to create clientset: %w", resolved, err)
	}

	client := &Client{
		Context:    resolved,
		Clientset:  clientset,
		RestConfig: restConfig,
	}
	m.clients[resolved] = client

	m.logger.Debug("connected cluster client",
		"context", resolved,
		"server", restConfig.Host)

	return client, nil
}

// Clientset is a shortcut for Client(ctx, contextName).Clientset
func (m *Manager) Clientset(ctx context.Context, contextName string) (kubernetes.Interface, error) {
	client, err := m.Client(ctx, contextName)
	if err != nil {
		return nil, err
	}
	return client.Clientset, nil
}

// Contexts returns the names of the clients created so far, sorted
func (m *Manager) Contexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HealthCheck checks the given contexts concurrently
// Contexts that cannot be connected are reported unhealthy with the connect error.
func (m *Manager) HealthCheck(ctx context.Context, contexts []string) map[string]*HealthStatus {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]*HealthStatus, len(contexts))
	)

	// Semaphore to limit concurrent checks
	sem := make(chan struct{}, 10)

	for _, name := range contexts {
		wg.Add(1)
		go func(contextName string) {
			defer wg.Done()

			var status *HealthStatus
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
				client, err := m.Client(ctx, contextName)
				if err != nil {
					status = &HealthStatus{Context: contextName, Error: err}
				} else {
					status = client.HealthCheck(ctx)
				}
			case <-ctx.Done():
				status = &HealthStatus{Context: contextName, Error: ctx.Err()}
			}

			if !status.Healthy {
				m.logger.Warn("cluster health check failed",
					"context", contextName,
					"error", status.Error)
			}

			mu.Lock()
			results[contextName] = status
			mu.Unlock()
		}(name)
	}

	wg.Wait()
	return results
}

// Close drops every cached client; later calls to Client fail
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.clients = make(map[string]*Client)

	m.logger.Debug("cluster manager closed")
	return nil
}

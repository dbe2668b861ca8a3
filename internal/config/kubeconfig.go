package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

// KubeconfigLoader resolves kubeconfig files and builds REST configs for
// kubernetes probes
type KubeconfigLoader struct {
	paths []string

	once   sync.Once
	loaded *api.Config
	err    error
}

// NewKubeconfigLoader creates a new kubeconfig loader
// It checks sources in the following order:
// 1. Explicit path (--kubeconfig flag or the kubeconfig config key)
// 2. KUBECONFIG environment variable (multiple paths separated by the OS list separator)
// 3. Default ~/.kube/config
func NewKubeconfigLoader(explicitPath string) *KubeconfigLoader {
	loader := &KubeconfigLoader{}

	if explicitPath != "" {
		if expanded, err := expandPath(explicitPath); err == nil {
			loader.paths = append(loader.paths, expanded)
		}
		return loader
	}

	if env := os.Getenv("KUBECONFIG"); env != "" {
		for _, path := range filepath.SplitList(env) {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			if expanded, err := expandPath(path); err == nil {
				loader.paths = append(loader.paths, expanded)
			}
		}
	}

	if len(loader.paths) == 0 {
		if home, err := os.UserHomeDir(); err == nil {
			loader.paths = append(loader.paths, filepath.Join(home, ".kube", "config"))
		}
	}

	return loader
}

// Load returns the merged kubeconfig from all sources
// The files are read once; later calls return the same result
func (l *KubeconfigLoader) Load() (*api.Config, error) {
	l.once.Do(func() {
		if len(l.paths) == 0 {
			l.err = fmt.Errorf("no kubeconfig paths available")
			return
		}

		rules := &clientcmd.ClientConfigLoadingRules{Precedence: l.paths}
		cfg, err := rules.Load()
		if err != nil {
			l.err = fmt.Errorf("failed to load kubeconfig: %w", err)
			return
		}
		if cfg == nil {
			l.err = fmt.Errorf("kubeconfig is empty")
			return
		}
		l.loaded = cfg
	})
	return l.loaded, l.err
}

// Contexts returns all context names, sorted
func (l *KubeconfigLoader) Contexts() ([]string, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	contexts := make([]string, 0, len(cfg.Contexts))
	for name := range cfg.Contexts {
		contexts = append(contexts, name)
	}
	sort.Strings(contexts)
	return contexts, nil
}

// CurrentContext returns the current context name
func (l *KubeconfigLoader) CurrentContext() (string, error) {
	cfg, err := l.Load()
	if err != nil {
		return "", err
	}
	return cfg.CurrentContext, nil
}

// ResolveContext maps an empty context name to the current context and
// checks that the context exists
func (l *KubeconfigLoader) ResolveContext(contextName string) (string, error) {
	cfg, err := l.Load()
	if err != nil {
		return "", err
	}

	if contextName == "" {
		contextName = cfg.CurrentContext
	}
	if contextName == "" {
		return "", fmt.Errorf("no context given and kubeconfig has no current context")
	}
	if _, ok := cfg.Contexts[contextName]; !ok {
		return "", fmt.Errorf("context %q not found in kubeconfig", contextName)
	}
	return contextName, nil
}

// BuildClientConfig creates a rest.Config for a specific context
// An empty context name selects the current context
func (l *KubeconfigLoader) BuildClientConfig(contextName string) (*rest.Config, error) {
	if len(l.paths) == 0 {
		return nil, fmt.Errorf("no kubeconfig paths available")
	}

	rules := &clientcmd.ClientConfigLoadingRules{Precedence: l.paths}
	overrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		overrides.CurrentContext = contextName
	}

	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create client config for context %q: %w", contextName, err)
	}
	return restConfig, nil
}

// Paths returns the kubeconfig paths being used
func (l *KubeconfigLoader) Paths() []string {
	return append([]string(nil), l.paths...)
}

// expandPath expands ~ to home directory and evaluates environment variables
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	return filepath.Clean(path), nil
}

package cluster

import (
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// Client is a connection to the cluster behind one kubeconfig context
type Client struct {
	Context   string
	Clientset kubernetes.Interface

	// RestConfig is nil for injected clientsets
	RestConfig *rest.Config
}

// HealthStatus is the answer of one context's API server to a version request
type HealthStatus struct {
	Context       string
	Healthy       bool
	ServerVersion string
	Latency       time.Duration
	Error         error
}

// Message returns the error text, or "" for a healthy context
func (s *HealthStatus) Message() string {
	if s == nil || s.Error == nil {
		return ""
	}
	return s.Error.Error()
}

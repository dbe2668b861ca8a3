package cluster

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/rest"
	k8stesting "k8s.io/client-go/testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name       string
		restConfig *rest.Config
		wantErr    bool
	}{
		{
			name:       "valid config",
			restConfig: &rest.Config{Host: "https://localhost:6443"},
		},
		{
			name:    "nil rest config",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient("test-context", tt.restConfig, quietLogger())
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.Context != "test-context" {
				t.Errorf("expected context test-context, got %s", client.Context)
			}
			if !strings.Contains(client.String(), "https://localhost:6443") {
				t.Errorf("String() = %q", client.String())
			}
		})
	}
}

func TestClient_HealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(fd *fakediscovery.FakeDiscovery)
		wantHealthy bool
		wantVersion string
	}{
		{
			name: "healthy",
			setup: func(fd *fakediscovery.FakeDiscovery) {
				fd.FakedServerVersion = &version.Info{Major: "1", Minor: "31", GitVersion: "v1.31.3"}
			},
			wantHealthy: true,
			wantVersion: "v1.31.3",
		},
		{
			name: "discovery fails",
			setup: func(fd *fakediscovery.FakeDiscovery) {
				fd.PrependReactor("get", "version",
					func(action k8stesting.Action) (bool, runtime.Object, error) {
						return true, nil, errors.New("connection refused")
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientset := fake.NewSimpleClientset()
			tt.setup(clientset.Discovery().(*fakediscovery.FakeDiscovery))
			client := &Client{Context: "test-context", Clientset: clientset}

			status := client.HealthCheck(context.Background())
			if status.Context != "test-context" {
				t.Errorf("status context = %q", status.Context)
			}
			if status.Healthy != tt.wantHealthy {
				t.Fatalf("Healthy = %v, want %v (err %v)", status.Healthy, tt.wantHealthy, status.Error)
			}
			if tt.wantHealthy && status.ServerVersion != tt.wantVersion {
				t.Errorf("ServerVersion = %q, want %q", status.ServerVersion, tt.wantVersion)
			}
			if !tt.wantHealthy && (status.Error == nil || !strings.Contains(status.Message(), "connection refused")) {
				t.Errorf("expected the discovery error, got %q", status.Message())
			}
			if tt.wantHealthy && status.Message() != "" {
				t.Errorf("healthy status should have no message, got %q", status.Message())
			}
		})
	}
}

func TestServerVersion_Interrupted(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	release := make(chan struct{})
	defer close(release)

	clientset.Discovery().(*fakediscovery.FakeDiscovery).PrependReactor("get", "version",
		func(action k8stesting.Action) (bool, runtime.Object, error) {
			<-release
			return true, nil, nil
		})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := ServerVersion(ctx, clientset)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestServerVersion_NilClientset(t *testing.T) {
	if _, err := ServerVersion(context.Background(), nil); err == nil {
		t.Error("expected error for nil clientset")
	}
}

package checks

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"

	"github.com/aryankumar/probectl/internal/cluster"
	"github.com/aryankumar/probectl/internal/config"
	"github.com/aryankumar/probectl/internal/plan"
	"github.com/aryankumar/probectl/internal/util"
)

func TestBuilder_Build(t *testing.T) {
	b := &Builder{Resolver: &stubResolver{addrs: []string{"10.0.0.1"}}}

	tests := []struct {
		name    string
		probe   plan.Probe
		wantErr error
	}{
		{name: "http", probe: plan.Probe{Type: plan.TypeHTTP, URL: "https://example.com"}},
		{name: "tcp", probe: plan.Probe{Type: plan.TypeTCP, Address: "db:5432"}},
		{name: "dns", probe: plan.Probe{Type: plan.TypeDNS, Host: "db", ExpectAddress: "10.0.0.1"}},
		{name: "exec", probe: plan.Probe{Type: plan.TypeExec, Command: []string{"true"}}},
		{name: "exec without command", probe: plan.Probe{Type: plan.TypeExec}, wantErr: util.ErrInvalidPlan},
		{name: "sql", probe: plan.Probe{Type: plan.TypeSQL, Driver: "postgres", DSN: "postgres://db", Query: "SELECT 1"}},
		{name: "sql bad driver", probe: plan.Probe{Type: plan.TypeSQL, Driver: "oracle"}, wantErr: util.ErrInvalidPlan},
		{name: "redis", probe: plan.Probe{Type: plan.TypeRedis, Address: "cache:6379"}},
		{name: "mongo", probe: plan.Probe{Type: plan.TypeMongo, URI: "mongodb://db"}},
		{name: "kube-api", probe: plan.Probe{Type: plan.TypeKubeAPI}},
		{name: "kube-nodes", probe: plan.Probe{Type: plan.TypeKubeNodes}},
		{name: "kube-rollout", probe: plan.Probe{Type: plan.TypeKubeRollout, Deployment: "web"}},
		{name: "unknown", probe: plan.Probe{Type: "ftp"}, wantErr: util.ErrUnknownProbeType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := b.Build(tt.probe)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || op == nil {
				t.Errorf("Build() = %v, %v", op, err)
			}
		})
	}
}

func TestBuilder_HTTPProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Probe") != "probectl" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		io.WriteString(w, "healthy")
	}))
	defer server.Close()

	b := &Builder{HTTPClient: server.Client()}
	op, err := b.Build(plan.Probe{
		Type:         plan.TypeHTTP,
		URL:          server.URL,
		Headers:      map[string]string{"X-Probe": "probectl"},
		ExpectStatus: []int{http.StatusOK},
		BodyContains: "healthy",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := op(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuilder_KubeWithoutClusters(t *testing.T) {
	op, err := (&Builder{}).Build(plan.Probe{Type: plan.TypeKubeAPI})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := op(context.Background()); !errors.Is(err, util.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestBuilder_KubeUsesClusterManager(t *testing.T) {
	cfg := api.Config{
		Clusters:       map[string]*api.Cluster{"prod": {Server: "https://prod.example.com:6443"}},
		AuthInfos:      map[string]*api.AuthInfo{"prod": {Token: "t"}},
		Contexts:       map[string]*api.Context{"prod": {Cluster: "prod", AuthInfo: "prod"}},
		CurrentContext: "prod",
	}
	path := filepath.Join(t.TempDir(), "kubeconfig")
	if err := clientcmd.WriteToFile(cfg, path); err != nil {
		t.Fatalf("failed to write kubeconfig: %v", err)
	}

	var hosts []string
	manager := cluster.NewManager(config.NewKubeconfigLoader(path), nil,
		cluster.WithClientsetFactory(func(rc *rest.Config) (kubernetes.Interface, error) {
			hosts = append(hosts, rc.Host)
			return fake.NewSimpleClientset(node("n1", "True")), nil
		}))

	b := &Builder{Clusters: manager}
	op, err := b.Build(plan.Probe{Type: plan.TypeKubeNodes, Context: "prod"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(hosts) != 0 {
		t.Error("the clientset should be created when the probe runs, not when it is built")
	}
	if err := op(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hosts) != 1 || !strings.Contains(hosts[0], "prod.example.com") {
		t.Errorf("unexpected hosts %v", hosts)
	}
}

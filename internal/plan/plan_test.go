package plan

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/aryankumar/probectl/internal/util"
)

const samplePlan = `
name: deploy-verification
defaults:
  retries: 2
  backoff: 500ms
  timeout: 10s
probes:
  - name: api
    type: http
    url: "https://${PROBECTL_TEST_API_HOST}/healthz"
    retries: 5
    backoff: 2s
sections:
  - name: network
    parallel: true
    probes:
      - {name: check-dns, type: dns, host: example.com, must: true}
      - {name: gateway, type: tcp, address: "10.0.0.1:443", optional: true}
    sections:
      - name: cluster
        probes:
          - {name: rollout, type: kube-rollout, namespace: web, deployment: frontend}
`

func intPtr(n int) *int                     { return &n }
func durPtr(d time.Duration) *time.Duration { return &d }

func TestParse(t *testing.T) {
	t.Setenv("PROBECTL_TEST_API_HOST", "api.internal")

	p, err := Parse([]byte(samplePlan))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if p.Name != "deploy-verification" {
		t.Errorf("Name = %q", p.Name)
	}
	if *p.Defaults.Retries != 2 || *p.Defaults.Backoff != 500*time.Millisecond || *p.Defaults.Timeout != 10*time.Second {
		t.Errorf("unexpected defaults %+v", p.Defaults)
	}

	api := p.Probes[0]
	if api.URL != "https://api.internal/healthz" {
		t.Errorf("URL = %q, expected the environment to be expanded", api.URL)
	}
	if *api.Retries != 5 || *api.Backoff != 2*time.Second {
		t.Errorf("unexpected api settings %+v", api)
	}

	network := p.Sections[0]
	if !network.Parallel || len(network.Probes) != 2 || !network.Probes[0].Must || !network.Probes[1].Optional {
		t.Errorf("unexpected network section %+v", network)
	}
	if p.Count() != 4 {
		t.Errorf("Count() = %d, want 4", p.Count())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
		contain string
	}{
		{
			name:    "empty document",
			doc:     "",
			wantErr: util.ErrInvalidPlan,
			contain: "empty",
		},
		{
			name:    "unknown key",
			doc:     "name: x\nprobes:\n  - {name: a, type: tcp, address: 'h:1', adress: typo}\n",
			wantErr: util.ErrInvalidPlan,
			contain: "adress",
		},
		{
			name:    "malformed yaml",
			doc:     "probes: [",
			wantErr: util.ErrInvalidPlan,
		},
		{
			name:    "bad duration",
			doc:     "defaults: {backoff: soon}\nprobes:\n  - {name: a, type: tcp, address: 'h:1'}\n",
			wantErr: util.ErrInvalidPlan,
		},
		{
			name:    "unknown type",
			doc:     "probes:\n  - {name: a, type: ftp}\n",
			wantErr: util.ErrUnknownProbeType,
			contain: "ftp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.contain != "" && !strings.Contains(err.Error(), tt.contain) {
				t.Errorf("error %q should mention %q", err, tt.contain)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	doc := "name: smoke\nprobes:\n  - {name: up, type: exec, command: [\"true\"]}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write plan: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Name != "smoke" || p.Probes[0].Command[0] != "true" {
		t.Errorf("unexpected plan %+v", p)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing plan")
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("PROBECTL_TEST_USER", "probe")
	t.Setenv("PROBECTL_TEST_EMPTY", "")

	got := string(ExpandEnv([]byte("postgres://${PROBECTL_TEST_USER}:pa$$word@db/${PROBECTL_TEST_EMPTY}app")))
	want := "postgres://probe:pa$$word@db/app"
	if got != want {
		t.Errorf("ExpandEnv() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	tcp := func(name string) Probe { return Probe{Name: name, Type: TypeTCP, Address: "db:5432"} }

	tests := []struct {
		name    string
		plan    Plan
		contain string
	}{
		{
			name: "valid",
			plan: Plan{Probes: []Probe{tcp("a")}, Sections: []Section{{Name: "s", Probes: []Probe{tcp("a")}}}},
		},
		{
			name:    "no probes",
			plan:    Plan{Name: "empty"},
			contain: "no probes",
		},
		{
			name:    "missing name",
			plan:    Plan{Probes: []Probe{tcp("")}},
			contain: "name is required",
		},
		{
			name:    "duplicate probe names",
			plan:    Plan{Sections: []Section{{Name: "s", Probes: []Probe{tcp("a"), tcp("a")}}}},
			contain: "s :: a",
		},
		{
			name:    "probe and section share a name",
			plan:    Plan{Probes: []Probe{tcp("x")}, Sections: []Section{{Name: "x", Probes: []Probe{tcp("a")}}}},
			contain: "duplicate name",
		},
		{
			name:    "separator in name",
			plan:    Plan{Probes: []Probe{tcp("a :: b")}},
			contain: "must not contain",
		},
		{
			name:    "empty section",
			plan:    Plan{Probes: []Probe{tcp("a")}, Sections: []Section{{Name: "s"}}},
			contain: "section is empty",
		},
		{
			name:    "must and optional",
			plan:    Plan{Probes: []Probe{{Name: "a", Type: TypeDNS, Host: "h", Must: true, Optional: true}}},
			contain: "both must and optional",
		},
		{
			name:    "negative retries",
			plan:    Plan{Probes: []Probe{{Name: "a", Type: TypeDNS, Host: "h", Retries: intPtr(-1)}}},
			contain: "a.retries",
		},
		{
			name:    "negative default backoff",
			plan:    Plan{Defaults: Defaults{Backoff: durPtr(-time.Second)}, Probes: []Probe{tcp("a")}},
			contain: "defaults.backoff",
		},
		{
			name:    "missing type field",
			plan:    Plan{Probes: []Probe{{Name: "a", Type: TypeSQL, Driver: "postgres"}}},
			contain: "a.dsn",
		},
		{
			name:    "missing exec command",
			plan:    Plan{Probes: []Probe{{Name: "a", Type: TypeExec}}},
			contain: "a.command",
		},
		{
			name:    "missing type",
			plan:    Plan{Probes: []Probe{{Name: "a"}}},
			contain: "a.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if tt.contain == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, util.ErrInvalidPlan) {
				t.Fatalf("expected ErrInvalidPlan, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.contain) {
				t.Errorf("error %q should mention %q", err, tt.contain)
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	p := Plan{Probes: []Probe{{Name: "a"}, {Name: "b", Type: "ftp"}}}

	err := p.Validate()
	var multi *util.MultiError
	if !errors.As(err, &multi) {
		t.Fatalf("expected MultiError, got %v", err)
	}
	if multi.Len() != 2 {
		t.Errorf("expected 2 problems, got %d: %v", multi.Len(), err)
	}
}

func TestProbe_Resolve(t *testing.T) {
	fallback := Settings{Retries: 0, Backoff: time.Second, Timeout: 30 * time.Second}
	planDefaults := Defaults{Retries: intPtr(2), Timeout: durPtr(10 * time.Second)}

	tests := []struct {
		name  string
		probe Probe
		want  Settings
	}{
		{
			name:  "plan defaults over fallback",
			probe: Probe{},
			want:  Settings{Retries: 2, Backoff: time.Second, Timeout: 10 * time.Second},
		},
		{
			name:  "probe overrides",
			probe: Probe{Retries: intPtr(5), Backoff: durPtr(2 * time.Second), Timeout: durPtr(time.Second)},
			want:  Settings{Retries: 5, Backoff: 2 * time.Second, Timeout: time.Second},
		},
		{
			name:  "must never retries",
			probe: Probe{Must: true, Retries: intPtr(5)},
			want:  Settings{Retries: 0, Backoff: time.Second, Timeout: 10 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.probe.Resolve(planDefaults, fallback); got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlan_ProbeNames(t *testing.T) {
	t.Setenv("PROBECTL_TEST_API_HOST", "api")
	p, err := Parse([]byte(samplePlan))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []string{
		"api",
		"network :: check-dns",
		"network :: gateway",
		"network :: cluster :: rollout",
	}
	if got := p.ProbeNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ProbeNames() = %v, want %v", got, want)
	}
}

package plan

import "time"

// Plan is a tree of sections and probes loaded from YAML
type Plan struct {
	// Name identifies the plan in logs and metrics; it is not part of probe names
	Name string `yaml:"name"`

	// Parallel fans the top-level probes and sections out on the worker pool
	Parallel bool `yaml:"parallel,omitempty"`

	// Defaults apply to every probe that does not override them
	Defaults Defaults `yaml:"defaults,omitempty"`

	Probes   []Probe   `yaml:"probes,omitempty"`
	Sections []Section `yaml:"sections,omitempty"`
}

// Defaults holds plan-wide probe settings; nil fields fall back to the runner's defaults
type Defaults struct {
	Retries *int           `yaml:"retries,omitempty"`
	Backoff *time.Duration `yaml:"backoff,omitempty"`
	Timeout *time.Duration `yaml:"timeout,omitempty"`
}

// Section is a named group of probes and nested sections
type Section struct {
	Name     string    `yaml:"name"`
	Parallel bool      `yaml:"parallel,omitempty"`
	Probes   []Probe   `yaml:"probes,omitempty"`
	Sections []Section `yaml:"sections,omitempty"`
}

// Probe describes one check
// Only the fields of its Type are read.
type Probe struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// Must makes any failure fatal without retrying
	Must bool `yaml:"must,omitempty"`

	// Optional reports ERROR instead of FATAL once the retries are exhausted
	Optional bool `yaml:"optional,omitempty"`

	Retries *int           `yaml:"retries,omitempty"`
	Backoff *time.Duration `yaml:"backoff,omitempty"`
	Timeout *time.Duration `yaml:"timeout,omitempty"`

	// http
	URL          string            `yaml:"url,omitempty"`
	Method       string            `yaml:"method,omitempty"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	ExpectStatus []int             `yaml:"expectStatus,omitempty"`
	BodyContains string            `yaml:"bodyContains,omitempty"`

	// tcp, redis
	Address string `yaml:"address,omitempty"`

	// dns
	Host          string `yaml:"host,omitempty"`
	ExpectAddress string `yaml:"expectAddress,omitempty"`

	// exec
	Command []string `yaml:"command,omitempty"`

	// sql
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
	Query  string `yaml:"query,omitempty"`

	// redis
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`

	// mongo
	URI string `yaml:"uri,omitempty"`

	// kube-api, kube-nodes, kube-rollout
	Context    string `yaml:"context,omitempty"`
	Namespace  string `yaml:"namespace,omitempty"`
	Deployment string `yaml:"deployment,omitempty"`
}

// Probe types understood by the default check builder
const (
	TypeHTTP        = "http"
	TypeTCP         = "tcp"
	TypeDNS         = "dns"
	TypeExec        = "exec"
	TypeSQL         = "sql"
	TypeRedis       = "redis"
	TypeMongo       = "mongo"
	TypeKubeAPI     = "kube-api"
	TypeKubeNodes   = "kube-nodes"
	TypeKubeRollout = "kube-rollout"
)

// KnownTypes lists every probe type in documentation order
var KnownTypes = []string{
	TypeHTTP, TypeTCP, TypeDNS, TypeExec, TypeSQL,
	TypeRedis, TypeMongo, TypeKubeAPI, TypeKubeNodes, TypeKubeRollout,
}

// Settings are the effective retry settings of one probe
type Settings struct {
	Retries int
	Backoff time.Duration
	Timeout time.Duration
}

// Resolve layers probe overrides over plan defaults over the fallback
func (p Probe) Resolve(planDefaults Defaults, fallback Settings) Settings {
	s := fallback
	if planDefaults.Retries != nil {
		s.Retries = *planDefaults.Retries
	}
	if planDefaults.Backoff != nil {
		s.Backoff = *planDefaults.Backoff
	}
	if planDefaults.Timeout != nil {
		s.Timeout = *planDefaults.Timeout
	}
	if p.Retries != nil {
		s.Retries = *p.Retries
	}
	if p.Backoff != nil {
		s.Backoff = *p.Backoff
	}
	if p.Timeout != nil {
		s.Timeout = *p.Timeout
	}
	if p.Must {
		s.Retries = 0
	}
	return s
}

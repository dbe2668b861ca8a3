package checks

import (
	"context"
	"fmt"
	"log/slog"

	"k8s.io/client-go/kubernetes"

	"github.com/aryankumar/probectl/internal/cluster"
	"github.com/aryankumar/probectl/internal/plan"
	"github.com/aryankumar/probectl/internal/probe"
	"github.com/aryankumar/probectl/internal/util"
)

// Builder turns plan probes into operations
type Builder struct {
	// Clusters provides clientsets for kubernetes probes; nil disables them
	Clusters *cluster.Manager

	// HTTPClient is used by http probes; nil means http.DefaultClient
	HTTPClient HTTPDoer

	// Resolver is used by dns probes; nil means net.DefaultResolver
	Resolver Resolver

	Logger *slog.Logger
}

// Build returns the operation for p
// It matches plan.BuildFunc
func (b *Builder) Build(p plan.Probe) (probe.Operation, error) {
	op, err := b.build(p)
	if err != nil {
		return nil, err
	}

	if b.Logger != nil {
		b.Logger.Debug("built probe operation", "probe", p.Name, "type", p.Type)
	}
	return op, nil
}

func (b *Builder) build(p plan.Probe) (probe.Operation, error) {
	switch p.Type {
	case plan.TypeHTTP:
		opts := []HTTPOption{WithHTTPClient(b.HTTPClient), WithHTTPAllowedStatuses(p.ExpectStatus...)}
		for key, value := range p.Headers {
			opts = append(opts, WithHTTPHeader(key, value))
		}
		if p.BodyContains != "" {
			opts = append(opts, WithHTTPBodyContains(p.BodyContains))
		}
		return HTTP(p.Method, p.URL, opts...), nil

	case plan.TypeTCP:
		return TCP(p.Address), nil

	case plan.TypeDNS:
		opts := []DNSOption{WithResolver(b.Resolver)}
		if p.ExpectAddress != "" {
			opts = append(opts, WithExpectedAddress(p.ExpectAddress))
		}
		return DNS(p.Host, opts...), nil

	case plan.TypeExec:
		if len(p.Command) == 0 {
			return nil, fmt.Errorf("%w: exec probe needs a command", util.ErrInvalidPlan)
		}
		return Command(p.Command[0], p.Command[1:]...), nil

	case plan.TypeSQL:
		if _, err := NormalizeDriver(p.Driver); err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrInvalidPlan, err)
		}
		var opts []SQLOption
		if p.Query != "" {
			opts = append(opts, WithQuery(p.Query))
		}
		return SQL(p.Driver, p.DSN, opts...), nil

	case plan.TypeRedis:
		return Redis(p.Address, p.Password, p.DB), nil

	case plan.TypeMongo:
		return Mongo(p.URI), nil

	case plan.TypeKubeAPI:
		return KubeAPI(b.clientset(p.Context)), nil

	case plan.TypeKubeNodes:
		return KubeNodesReady(b.clientset(p.Context)), nil

	case plan.TypeKubeRollout:
		return KubeRollout(b.clientset(p.Context), p.Namespace, p.Deployment), nil

	default:
		return nil, fmt.Errorf("%w: %q", util.ErrUnknownProbeType, p.Type)
	}
}

// clientset resolves the context's clientset when the probe runs
func (b *Builder) clientset(contextName string) ClientsetFunc {
	return func(ctx context.Context) (kubernetes.Interface, error) {
		if b.Clusters == nil {
			return nil, fmt.Errorf("%w: kubernetes probes need a kubeconfig", util.ErrInvalidConfig)
		}
		return b.Clusters.Clientset(ctx, contextName)
	}
}

package checks

import (
	"context"
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/aryankumar/probectl/internal/probe"
	"github.com/aryankumar/probectl/internal/util"
)

// TCP checks that address accepts connections
func TCP(address string) probe.Operation {
	return func(ctx context.Context) error {
		if strings.TrimSpace(address) == "" {
			return errors.New("tcp probe: address is required")
		}

		var dialer net.Dialer
		conn, err := dialer.DialContext(contextOrBackground(ctx), "tcp", address)
		if err != nil {
			return probeFailed("tcp", fmt.Errorf("%w: %w", util.ErrConnectionFailed, err))
		}
		return conn.Close()
	}
}

// Resolver is the subset of *net.Resolver used by DNS
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// DNSOption configures DNS
type DNSOption func(*dnsConfig)

type dnsConfig struct {
	resolver Resolver
	expect   string
}

// WithResolver overrides the resolver, net.DefaultResolver by default
func WithResolver(r Resolver) DNSOption {
	return func(cfg *dnsConfig) {
		cfg.resolver = r
	}
}

// WithExpectedAddress fails the probe unless host resolves to addr
func WithExpectedAddress(addr string) DNSOption {
	return func(cfg *dnsConfig) {
		cfg.expect = addr
	}
}

// DNS checks that host resolves to at least one address
func DNS(host string, opts ...DNSOption) probe.Operation {
	cfg := &dnsConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.resolver == nil {
		cfg.resolver = net.DefaultResolver
	}

	return func(ctx context.Context) error {
		if strings.TrimSpace(host) == "" {
			return errors.New("dns probe: host is required")
		}

		addrs, err := cfg.resolver.LookupHost(contextOrBackground(ctx), host)
		if err != nil {
			return probeFailed("dns", err)
		}
		if len(addrs) == 0 {
			return errors.Errorf("dns probe: %s has no addresses", host)
		}
		if cfg.expect != "" && !slices.Contains(addrs, cfg.expect) {
			return errors.Errorf("dns probe: %s resolved to %s, want %s", host, strings.Join(addrs, ", "), cfg.expect)
		}
		return nil
	}
}

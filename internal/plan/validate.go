package plan

import (
	"fmt"
	"strings"

	"github.com/aryankumar/probectl/internal/probe"
	"github.com/aryankumar/probectl/internal/util"
)

// Validate checks the whole plan and reports every problem it finds
func (p *Plan) Validate() error {
	var errs util.MultiError

	if p.Defaults.Retries != nil && *p.Defaults.Retries < 0 {
		errs.Add(util.NewValidationError("defaults.retries", *p.Defaults.Retries, "must not be negative"))
	}
	if p.Defaults.Backoff != nil && *p.Defaults.Backoff < 0 {
		errs.Add(util.NewValidationError("defaults.backoff", *p.Defaults.Backoff, "must not be negative"))
	}
	if p.Defaults.Timeout != nil && *p.Defaults.Timeout < 0 {
		errs.Add(util.NewValidationError("defaults.timeout", *p.Defaults.Timeout, "must not be negative"))
	}

	if len(p.Probes) == 0 && len(p.Sections) == 0 {
		errs.Add(fmt.Errorf("%w: plan has no probes", util.ErrInvalidPlan))
	}

	validateLevel(&errs, probe.Path{}, p.Probes, p.Sections)
	return errs.ErrorOrNil()
}

// validateLevel checks the probes and sections sharing one parent
func validateLevel(errs *util.MultiError, parent probe.Path, probes []Probe, sections []Section) {
	seen := make(map[string]bool, len(probes)+len(sections))
	claim := func(field, name string) bool {
		name = strings.TrimSpace(name)
		if name == "" {
			errs.Add(util.NewValidationError(field, name, "name is required"))
			return false
		}
		if strings.Contains(name, probe.Separator) {
			errs.Add(util.NewValidationError(field, name, fmt.Sprintf("name must not contain %q", probe.Separator)))
			return false
		}
		if seen[name] {
			errs.Add(util.NewValidationError(field, parent.Push(name).Name(), "duplicate name"))
			return false
		}
		seen[name] = true
		return true
	}

	for i, pr := range probes {
		field := fieldName(parent, fmt.Sprintf("probes[%d]", i))
		if claim(field, pr.Name) {
			field = parent.Push(pr.Name).Name()
		}
		validateProbe(errs, field, pr)
	}

	for i, s := range sections {
		field := fieldName(parent, fmt.Sprintf("sections[%d]", i))
		if !claim(field, s.Name) {
			continue
		}
		path := parent.Push(s.Name)
		if len(s.Probes) == 0 && len(s.Sections) == 0 {
			errs.Add(util.NewValidationError(path.Name(), s.Name, "section is empty"))
		}
		validateLevel(errs, path, s.Probes, s.Sections)
	}
}

func fieldName(parent probe.Path, item string) string {
	if parent.Depth() == 0 {
		return item
	}
	return parent.Name() + probe.Separator + item
}

// validateProbe checks the settings and the type-specific fields of one probe
func validateProbe(errs *util.MultiError, field string, p Probe) {
	if p.Must && p.Optional {
		errs.Add(util.NewValidationError(field, "must+optional", "a probe cannot be both must and optional"))
	}
	if p.Retries != nil && *p.Retries < 0 {
		errs.Add(util.NewValidationError(field+".retries", *p.Retries, "must not be negative"))
	}
	if p.Backoff != nil && *p.Backoff < 0 {
		errs.Add(util.NewValidationError(field+".backoff", *p.Backoff, "must not be negative"))
	}
	if p.Timeout != nil && *p.Timeout < 0 {
		errs.Add(util.NewValidationError(field+".timeout", *p.Timeout, "must not be negative"))
	}

	require := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			errs.Add(util.NewValidationError(field+"."+key, value, fmt.Sprintf("is required for %s probes", p.Type)))
		}
	}

	switch p.Type {
	case TypeHTTP:
		require("url", p.URL)
	case TypeTCP:
		require("address", p.Address)
	case TypeDNS:
		require("host", p.Host)
	case TypeExec:
		if len(p.Command) == 0 || strings.TrimSpace(p.Command[0]) == "" {
			errs.Add(util.NewValidationError(field+".command", p.Command, "is required for exec probes"))
		}
	case TypeSQL:
		require("driver", p.Driver)
		require("dsn", p.DSN)
	case TypeRedis:
		require("address", p.Address)
	case TypeMongo:
		require("uri", p.URI)
	case TypeKubeAPI, TypeKubeNodes:
	case TypeKubeRollout:
		require("deployment", p.Deployment)
	case "":
		errs.Add(util.NewValidationError(field+".type", p.Type, "is required"))
	default:
		errs.Add(fmt.Errorf("%w: %w: %s: %q (known: %s)", util.ErrInvalidPlan, util.ErrUnknownProbeType, field, p.Type, strings.Join(KnownTypes, ", ")))
	}
}

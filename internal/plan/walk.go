package plan

import "github.com/aryankumar/probectl/internal/probe"

// WalkFunc is called for each probe with its section path
type WalkFunc func(path probe.Path, p Probe) error

// Walk visits every probe depth-first in declaration order
// Probes of a level are visited before its subsections, the order Run starts them in.
func (p *Plan) Walk(fn WalkFunc) error {
	return walkLevel(probe.Path{}, p.Probes, p.Sections, fn)
}

func walkLevel(parent probe.Path, probes []Probe, sections []Section, fn WalkFunc) error {
	for _, pr := range probes {
		if err := fn(parent, pr); err != nil {
			return err
		}
	}
	for _, s := range sections {
		if err := walkLevel(parent.Push(s.Name), s.Probes, s.Sections, fn); err != nil {
			return err
		}
	}
	return nil
}

// ProbeNames returns the qualified name of every probe in walk order
func (p *Plan) ProbeNames() []string {
	var names []string
	_ = p.Walk(func(path probe.Path, pr Probe) error {
		names = append(names, path.Push(pr.Name).Name())
		return nil
	})
	return names
}

// Count returns the number of probes in the plan
func (p *Plan) Count() int {
	n := 0
	_ = p.Walk(func(probe.Path, Probe) error {
		n++
		return nil
	})
	return n
}

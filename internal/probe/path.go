package probe

import (
	"context"
	"strings"
)

// Separator joins section names into a qualified probe name
const Separator = " :: "

// Path is the stack of open section names of one flow of control
//
// A Path is a value: Push and Pop return a new Path and never share storage
// with the receiver, so a flow that hands its Path to a spawned flow keeps
// its own stack.
type Path struct {
	names []string
}

// NewPath builds a Path from section names, outermost first
func NewPath(names ...string) Path {
	return Path{names: append([]string(nil), names...)}
}

// Push returns the path with name opened as the innermost section
func (p Path) Push(name string) Path {
	names := make([]string, len(p.names), len(p.names)+1)
	copy(names, p.names)
	return Path{names: append(names, name)}
}

// Pop returns the path without its innermost section
// Popping an empty path returns an empty path
func (p Path) Pop() Path {
	if len(p.names) == 0 {
		return p
	}
	return Path{names: append([]string(nil), p.names[:len(p.names)-1]...)}
}

// Name returns the qualified name of the innermost section
func (p Path) Name() string {
	return strings.Join(p.names, Separator)
}

// Depth returns the number of open sections
func (p Path) Depth() int {
	return len(p.names)
}

// Names returns a copy of the open section names, outermost first
func (p Path) Names() []string {
	return append([]string(nil), p.names...)
}

// String implements fmt.Stringer
func (p Path) String() string {
	return p.Name()
}

type pathKey struct{}

// WithPath returns a context carrying p
func WithPath(ctx context.Context, p Path) context.Context {
	return context.WithValue(ctx, pathKey{}, p)
}

// PathFrom returns the path carried by ctx, or an empty path
func PathFrom(ctx context.Context) Path {
	if ctx == nil {
		return Path{}
	}
	p, _ := ctx.Value(pathKey{}).(Path)
	return p
}

// NameFrom returns the qualified probe name for ctx
func NameFrom(ctx context.Context) string {
	return PathFrom(ctx).Name()
}

// withSection opens a section on top of the path carried by ctx
func withSection(ctx context.Context, name string) context.Context {
	return WithPath(ctx, PathFrom(ctx).Push(name))
}

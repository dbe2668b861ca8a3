package probe

// Sink receives every result reported by an engine
//
// The engine never calls Publish concurrently, but implementations that are
// shared between engines or read from other goroutines must guard their state.
type Sink interface {
	// Publish consumes one result. It must not block indefinitely.
	Publish(result Result)

	// AllSuccessful returns true if every probe seen so far succeeded
	AllSuccessful() bool

	// SuccessCount returns the number of successful probes so far
	SuccessCount() int

	// TotalCount returns the number of distinct probes seen so far, retries excluded
	TotalCount() int
}

// discardSink counts nothing and drops every result
type discardSink struct{}

func (discardSink) Publish(Result)      {}
func (discardSink) AllSuccessful() bool { return true }
func (discardSink) SuccessCount() int   { return 0 }
func (discardSink) TotalCount() int     { return 0 }

// Discard is a Sink that drops every result
var Discard Sink = discardSink{}

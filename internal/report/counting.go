package report

import (
	"sync"

	"github.com/aryankumar/probectl/internal/probe"
)

// CountingSink counts distinct probe names and OK results
//
// A name is counted the first time any result mentions it, so a probe that
// only reported STARTED or RETRY still counts towards the total.
type CountingSink struct {
	mu      sync.Mutex
	names   map[string]struct{}
	success int
}

// NewCountingSink creates an empty counting sink
func NewCountingSink() *CountingSink {
	return &CountingSink{names: make(map[string]struct{})}
}

// Publish implements probe.Sink
func (s *CountingSink) Publish(result probe.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.names == nil {
		s.names = make(map[string]struct{})
	}
	s.names[result.Name] = struct{}{}
	if result.Status == probe.StatusOK {
		s.success++
	}
}

// AllSuccessful implements probe.Sink
func (s *CountingSink) AllSuccessful() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.success == len(s.names)
}

// SuccessCount implements probe.Sink
func (s *CountingSink) SuccessCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.success
}

// TotalCount implements probe.Sink
func (s *CountingSink) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}

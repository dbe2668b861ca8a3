package report

import (
	"sync"
	"time"

	"github.com/aryankumar/probectl/internal/probe"
)

// Outcome is the last known state of one probe
type Outcome struct {
	Name     string
	Status   probe.Status
	Retries  int
	Message  string
	Started  time.Time
	Finished time.Time
}

// Duration is the time between the first and the last result of the probe
func (o Outcome) Duration() time.Duration {
	if o.Started.IsZero() || o.Finished.Before(o.Started) {
		return 0
	}
	return o.Finished.Sub(o.Started)
}

// Succeeded reports whether the probe ended OK
func (o Outcome) Succeeded() bool {
	return o.Status == probe.StatusOK
}

// Recorder keeps the latest result of every probe, in first-seen order
type Recorder struct {
	CountingSink

	mu       sync.Mutex
	index    map[string]int
	outcomes []Outcome
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{
		CountingSink: CountingSink{names: make(map[string]struct{})},
		index:        make(map[string]int),
	}
}

// Publish implements probe.Sink
func (r *Recorder) Publish(result probe.Result) {
	r.CountingSink.Publish(result)

	r.mu.Lock()
	defer r.mu.Unlock()

	i, seen := r.index[result.Name]
	if !seen {
		i = len(r.outcomes)
		r.index[result.Name] = i
		r.outcomes = append(r.outcomes, Outcome{Name: result.Name, Started: result.Time})
	}

	o := &r.outcomes[i]
	o.Status = result.Status
	o.Retries = result.Retries
	o.Finished = result.Time
	if result.HasMessage() || result.Status.Terminal() {
		o.Message = result.Message
	}
}

// Outcomes returns a snapshot of every probe seen so far
func (r *Recorder) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.outcomes...)
}

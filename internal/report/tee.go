package report

import "github.com/aryankumar/probectl/internal/probe"

type tee struct {
	primary probe.Sink
	others  []probe.Sink
}

// Tee publishes every result to primary and then to each of others
// Aggregates are answered by primary.
func Tee(primary probe.Sink, others ...probe.Sink) probe.Sink {
	if primary == nil {
		primary = probe.Discard
	}
	kept := make([]probe.Sink, 0, len(others))
	for _, s := range others {
		if s != nil {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return primary
	}
	return &tee{primary: primary, others: kept}
}

func (t *tee) Publish(result probe.Result) {
	t.primary.Publish(result)
	for _, s := range t.others {
		s.Publish(result)
	}
}

func (t *tee) AllSuccessful() bool { return t.primary.AllSuccessful() }
func (t *tee) SuccessCount() int   { return t.primary.SuccessCount() }
func (t *tee) TotalCount() int     { return t.primary.TotalCount() }

package metrics

import "time"

// Filter specifies query filters.
type Filter struct {
	RequestID    string
	DocumentType string
	Provider     string
	Source       string
	After        time.Time
	Before       time.Time
	Success      *bool // nil = any, true = success only, false = errors only
}

func (f Filter) matches(m Metric) bool {
	if f.RequestID != "" && m.RequestID != f.RequestID {
		return false
	}
	if f.DocumentType != "" && m.DocumentType != f.DocumentType {
		return false
	}
	if f.Provider != "" && m.Provider != f.Provider {
		return false
	}
	if f.Source != "" && m.Source != f.Source {
		return false
	}
	if !f.After.IsZero() && !m.CreatedAt.After(f.After) {
		return false
	}
	if !f.Before.IsZero() && !m.CreatedAt.Before(f.Before) {
		return false
	}
	if f.Success != nil && m.Success != *f.Success {
		return false
	}
	return true
}

// List returns metrics matching the filter, newest first.
// A limit of 0 returns all matches.
func (r *Recorder) List(f Filter, limit int) []Metric {
	all := r.snapshot()
	var metrics []Metric
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(metrics) >= limit {
			break
		}
		if f.matches(all[i]) {
			metrics = append(metrics, all[i])
		}
	}
	return metrics
}

// Get returns the metric with the given ID.
func (r *Recorder) Get(id string) (*Metric, bool) {
	for _, m := range r.snapshot() {
		if m.ID == id {
			return &m, true
		}
	}
	return nil, false
}

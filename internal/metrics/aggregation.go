package metrics

import (
	"sort"
	"time"
)

// TotalCost returns the total cost for metrics matching the filter.
func (r *Recorder) TotalCost(f Filter) float64 {
	var total float64
	for _, m := range r.List(f, 0) {
		total += m.CostUSD
	}
	return total
}

// TotalTime returns the total execution time for metrics matching the filter.
func (r *Recorder) TotalTime(f Filter) time.Duration {
	var total float64
	for _, m := range r.List(f, 0) {
		total += m.TotalSeconds
	}
	return time.Duration(total * float64(time.Second))
}

// Summary provides a summary of metrics for a filter.
type Summary struct {
	Count          int     `json:"count"`
	SuccessCount   int     `json:"success_count"`
	ErrorCount     int     `json:"error_count"`
	TotalCostUSD   float64 `json:"total_cost_usd"`
	AvgCostUSD     float64 `json:"avg_cost_usd"`
	TotalLines     int     `json:"total_lines"`
	AvgTimeSeconds float64 `json:"avg_time_seconds"`

	// Latency percentiles (seconds)
	LatencyP50 float64 `json:"latency_p50"`
	LatencyP95 float64 `json:"latency_p95"`
	LatencyP99 float64 `json:"latency_p99"`
	LatencyMin float64 `json:"latency_min"`
	LatencyMax float64 `json:"latency_max"`
}

// Summary returns a summary of metrics matching the filter.
func (r *Recorder) Summary(f Filter) *Summary {
	return summarize(r.List(f, 0))
}

func summarize(metrics []Metric) *Summary {
	s := &Summary{Count: len(metrics)}
	if len(metrics) == 0 {
		return s
	}

	// Collect latencies for percentile calculation
	var latencies []float64
	var totalTime float64

	for _, m := range metrics {
		s.TotalCostUSD += m.CostUSD
		s.TotalLines += m.LineCount
		totalTime += m.TotalSeconds
		if m.Success {
			s.SuccessCount++
		} else {
			s.ErrorCount++
		}
		if m.TotalSeconds > 0 {
			latencies = append(latencies, m.TotalSeconds)
		}
	}

	count := float64(s.Count)
	s.AvgCostUSD = s.TotalCostUSD / count
	s.AvgTimeSeconds = totalTime / count

	if len(latencies) > 0 {
		sort.Float64s(latencies)
		s.LatencyMin = latencies[0]
		s.LatencyMax = latencies[len(latencies)-1]
		s.LatencyP50 = percentile(latencies, 50)
		s.LatencyP95 = percentile(latencies, 95)
		s.LatencyP99 = percentile(latencies, 99)
	}

	return s
}

// percentile calculates the p-th percentile from a sorted slice of values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	// Calculate the index
	n := float64(len(sorted))
	idx := (p / 100.0) * (n - 1)

	// Interpolate between floor and ceil indices
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

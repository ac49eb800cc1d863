package metrics

// ByDocumentType returns a summary per classified document type.
// Scans that failed before classification are grouped under "".
func (r *Recorder) ByDocumentType() map[string]*Summary {
	return r.groupBy(func(m Metric) string { return m.DocumentType })
}

// ByProvider returns a summary per OCR provider.
func (r *Recorder) ByProvider() map[string]*Summary {
	return r.groupBy(func(m Metric) string { return m.Provider })
}

// CostByProvider returns cost breakdown by provider.
func (r *Recorder) CostByProvider(f Filter) map[string]float64 {
	breakdown := make(map[string]float64)
	for _, m := range r.List(f, 0) {
		breakdown[m.Provider] += m.CostUSD
	}
	return breakdown
}

func (r *Recorder) groupBy(key func(Metric) string) map[string]*Summary {
	groups := make(map[string][]Metric)
	for _, m := range r.snapshot() {
		k := key(m)
		groups[k] = append(groups[k], m)
	}

	result := make(map[string]*Summary, len(groups))
	for k, ms := range groups {
		result[k] = summarize(ms)
	}
	return result
}

// Report is the full metrics summary served over HTTP.
type Report struct {
	Overall        *Summary            `json:"overall"`
	ByDocumentType map[string]*Summary `json:"by_document_type"`
	ByProvider     map[string]*Summary `json:"by_provider"`
}

// Report returns the overall summary with both breakdowns.
func (r *Recorder) Report() Report {
	return Report{
		Overall:        r.Summary(Filter{}),
		ByDocumentType: r.ByDocumentType(),
		ByProvider:     r.ByProvider(),
	}
}

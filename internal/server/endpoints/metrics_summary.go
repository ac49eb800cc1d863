package endpoints

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/spf13/cobra"

	"github.com/docread/docread/internal/api"
	"github.com/docread/docread/internal/metrics"
	"github.com/docread/docread/internal/svcctx"
)

// MetricsSummaryResponse is the response for summary queries.
type MetricsSummaryResponse struct {
	Overall        *metrics.Summary            `json:"overall"`
	ByDocumentType map[string]*metrics.Summary `json:"by_document_type"`
	ByProvider     map[string]*metrics.Summary `json:"by_provider"`
}

// MetricsSummaryEndpoint handles GET /api/metrics/summary.
type MetricsSummaryEndpoint struct{}

func (e *MetricsSummaryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics/summary", e.handler
}

func (e *MetricsSummaryEndpoint) RequiresInit() bool { return true }

func (e *MetricsSummaryEndpoint) Group() string { return "metrics" }

// handler godoc
//
//	@Summary		Metrics summary
//	@Description	Scan totals, cost and latency overall and broken down by document type and provider.
//	@Description	Filters narrow the overall summary only.
//	@Tags			metrics
//	@Produce		json
//	@Param			document_type	query		string	false	"Filter by document type"
//	@Param			provider		query		string	false	"Filter by OCR provider"
//	@Param			source			query		string	false	"Filter by source (upload, text)"
//	@Param			since			query		string	false	"Only metrics newer than this duration (e.g. 1h)"
//	@Success		200				{object}	MetricsSummaryResponse
//	@Failure		400				{object}	ErrorResponse
//	@Failure		503				{object}	ErrorResponse
//	@Router			/api/metrics/summary [get]
func (e *MetricsSummaryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	recorder := svcctx.MetricsFrom(r.Context())
	if recorder == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics not initialized")
		return
	}

	f, err := filterFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MetricsSummaryResponse{
		Overall:        recorder.Summary(f),
		ByDocumentType: recorder.ByDocumentType(),
		ByProvider:     recorder.ByProvider(),
	})
}

func (e *MetricsSummaryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Get metrics summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			path := "/api/metrics/summary"
			if q := ff.query(); len(q) > 0 {
				path += "?" + q.Encode()
			}

			var resp MetricsSummaryResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}

			if api.GetOutputFormat() == api.OutputFormatJSON {
				return api.Output(resp)
			}

			o := resp.Overall
			if o == nil {
				o = &metrics.Summary{}
			}
			fmt.Printf("Metrics Summary\n")
			fmt.Printf("===============\n")
			fmt.Printf("  Count:       %d\n", o.Count)
			fmt.Printf("  Success:     %d\n", o.SuccessCount)
			fmt.Printf("  Errors:      %d\n", o.ErrorCount)
			fmt.Println()
			fmt.Printf("  Total Cost:  $%.4f\n", o.TotalCostUSD)
			fmt.Printf("  Avg Cost:    $%.6f\n", o.AvgCostUSD)
			fmt.Println()
			fmt.Printf("  Avg Time:    %.2fs\n", o.AvgTimeSeconds)
			fmt.Printf("  P50 / P95:   %.2fs / %.2fs\n", o.LatencyP50, o.LatencyP95)

			printBreakdown("By document type", resp.ByDocumentType)
			printBreakdown("By provider", resp.ByProvider)
			return nil
		},
	}
	ff.register(cmd)
	return cmd
}

func printBreakdown(title string, groups map[string]*metrics.Summary) {
	if len(groups) == 0 {
		return
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println()
	fmt.Printf("%s\n", title)
	for _, k := range keys {
		name := k
		if name == "" {
			name = "(none)"
		}
		s := groups[k]
		fmt.Printf("  %-14s %4d scans  %4d errors  $%.4f\n", name, s.Count, s.ErrorCount, s.TotalCostUSD)
	}
}

package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/docread/docread/internal/api"
	"github.com/docread/docread/internal/metrics"
	"github.com/docread/docread/internal/svcctx"
)

// ListMetricsResponse is the response for listing metrics.
type ListMetricsResponse struct {
	Metrics []metrics.Metric `json:"metrics"`
	Count   int              `json:"count"`
}

// ListMetricsEndpoint handles GET /api/metrics.
type ListMetricsEndpoint struct{}

func (e *ListMetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics", e.handler
}

func (e *ListMetricsEndpoint) RequiresInit() bool { return true }

func (e *ListMetricsEndpoint) Group() string { return "metrics" }

// handler godoc
//
//	@Summary		List metrics
//	@Description	Recent scan metrics, newest first, with optional filtering
//	@Tags			metrics
//	@Produce		json
//	@Param			request_id		query		string	false	"Filter by request ID"
//	@Param			document_type	query		string	false	"Filter by document type"
//	@Param			provider		query		string	false	"Filter by OCR provider"
//	@Param			source			query		string	false	"Filter by source (upload, text)"
//	@Param			success			query		bool	false	"Filter by outcome"
//	@Param			since			query		string	false	"Only metrics newer than this duration (e.g. 1h)"
//	@Param			limit			query		int		false	"Maximum results (default 100)"
//	@Success		200				{object}	ListMetricsResponse
//	@Failure		400				{object}	ErrorResponse
//	@Failure		503				{object}	ErrorResponse
//	@Router			/api/metrics [get]
func (e *ListMetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
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

	// Parse limit
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	result := recorder.List(f, limit)
	if result == nil {
		result = []metrics.Metric{}
	}
	writeJSON(w, http.StatusOK, ListMetricsResponse{
		Metrics: result,
		Count:   len(result),
	})
}

// filterFromQuery builds a metrics filter from query parameters.
func filterFromQuery(q url.Values) (metrics.Filter, error) {
	f := metrics.Filter{
		RequestID:    q.Get("request_id"),
		DocumentType: q.Get("document_type"),
		Provider:     q.Get("provider"),
		Source:       q.Get("source"),
	}
	if s := q.Get("success"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return f, fmt.Errorf("invalid success value %q", s)
		}
		f.Success = &b
	}
	if s := q.Get("since"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return f, fmt.Errorf("invalid since value %q", s)
		}
		f.After = time.Now().Add(-d)
	}
	return f, nil
}

// filterFlags are the CLI flags shared by the metrics commands.
type filterFlags struct {
	documentType, provider, source, since string
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.documentType, "type", "", "Filter by document type")
	cmd.Flags().StringVar(&ff.provider, "provider", "", "Filter by OCR provider")
	cmd.Flags().StringVar(&ff.source, "source", "", "Filter by source (upload, text)")
	cmd.Flags().StringVar(&ff.since, "since", "", "Only metrics newer than this duration (e.g. 1h)")
}

func (ff *filterFlags) query() url.Values {
	q := url.Values{}
	if ff.documentType != "" {
		q.Set("document_type", ff.documentType)
	}
	if ff.provider != "" {
		q.Set("provider", ff.provider)
	}
	if ff.source != "" {
		q.Set("source", ff.source)
	}
	if ff.since != "" {
		q.Set("since", ff.since)
	}
	return q
}

func (e *ListMetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var ff filterFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent scan metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			q := ff.query()
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			path := "/api/metrics"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var resp ListMetricsResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	ff.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results")
	return cmd
}

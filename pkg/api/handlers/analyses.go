package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mercator-hq/jobscan/pkg/analysis"
	"mercator-hq/jobscan/pkg/analysis/query"
	"mercator-hq/jobscan/pkg/api"
)

// createdAtLayout renders timestamps as UTC ISO 8601 with a Z suffix.
const createdAtLayout = "2006-01-02T15:04:05.999999Z07:00"

// AnalysisItem is one entry of the GET /analyses listing.
type AnalysisItem struct {
	ID                    int64    `json:"id"`
	RiskScore             int      `json:"risk_score"`
	RiskLevel             string   `json:"risk_level"`
	Reasons               []string `json:"reasons"`
	CreatedAt             string   `json:"created_at"`
	JobDescriptionSnippet string   `json:"job_description_snippet"`
}

// AnalysesResponse is the body of GET /analyses.
type AnalysesResponse struct {
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int64          `json:"total_pages"`
	Items      []AnalysisItem `json:"items"`
}

// AnalysesHandler serves the paginated audit listing.
type AnalysesHandler struct {
	storage analysis.Storage
	limits  query.Limits
	timeout time.Duration
}

// NewAnalysesHandler creates the GET /analyses handler. A zero timeout
// leaves queries bounded only by the request context.
func NewAnalysesHandler(storage analysis.Storage, limits query.Limits, timeout time.Duration) *AnalysesHandler {
	return &AnalysesHandler{storage: storage, limits: limits, timeout: timeout}
}

// ServeHTTP implements http.Handler.
func (h *AnalysesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	params, err := h.limits.Parse(r.URL.Query())
	if err != nil {
		var queryErr *analysis.QueryError
		if errors.As(err, &queryErr) {
			api.WriteError(w, http.StatusBadRequest, queryErr.Error())
			return
		}
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	page, err := analysis.FetchPage(ctx, h.storage, params.ToQuery())
	if err != nil {
		logger().ErrorContext(r.Context(), "failed to query analyses", "error", err)
		api.WriteError(w, http.StatusInternalServerError, api.MsgInternalError)
		return
	}

	api.WriteJSON(w, http.StatusOK, NewAnalysesResponse(page, params))
}

// NewAnalysesResponse renders page as the listing body for params.
func NewAnalysesResponse(page *analysis.Page, params *query.ListParams) AnalysesResponse {
	items := make([]AnalysisItem, 0, len(page.Items))
	for _, record := range page.Items {
		reasons := record.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		items = append(items, AnalysisItem{
			ID:                    record.ID,
			RiskScore:             record.RiskScore,
			RiskLevel:             record.RiskLevel,
			Reasons:               reasons,
			CreatedAt:             record.CreatedAt.UTC().Format(createdAtLayout),
			JobDescriptionSnippet: record.Snippet(),
		})
	}

	return AnalysesResponse{
		Total:      page.Total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: page.TotalPages,
		Items:      items,
	}
}

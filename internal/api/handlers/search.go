package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lanewise/lanewise/internal/api"
	"github.com/lanewise/lanewise/internal/api/middleware"
	"github.com/lanewise/lanewise/internal/domain"
	"github.com/lanewise/lanewise/internal/search"
)

// SearchService is the company search pipeline consumed by the HTTP layer.
type SearchService interface {
	Search(ctx context.Context, raw search.RawFilter, ownerID string) (*search.Result, error)
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)
}

type SearchHandler struct {
	svc SearchService
}

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// LaneResponse is one origin→destination pair in a top-N summary.
type LaneResponse struct {
	Origin   string  `json:"origin"`
	Dest     string  `json:"dest"`
	Count    int     `json:"count"`
	SharePct float64 `json:"sharePct"`
}

type CarrierResponse struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	SharePct float64 `json:"sharePct"`
}

type HSCodeResponse struct {
	Code     string  `json:"code"`
	Count    int     `json:"count"`
	SharePct float64 `json:"sharePct"`
}

type CompanyRowResponse struct {
	CompanyKey       string            `json:"companyKey"`
	DisplayName      string            `json:"displayName"`
	Role             string            `json:"role"`
	ShipmentCount    int               `json:"shipmentCount"`
	LastActivityDate *string           `json:"lastActivityDate"`
	TopLanes         []LaneResponse    `json:"topLanes"`
	TopCarriers      []CarrierResponse `json:"topCarriers"`
	TopHsCodes       []HSCodeResponse  `json:"topHsCodes"`
	Saved            bool              `json:"saved,omitempty"`
}

type SearchResponse struct {
	Total    int                  `json:"total"`
	Rows     []CompanyRowResponse `json:"rows"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
	SearchID string               `json:"search_id"`
}

type FilterOptionsResponse struct {
	Modes    []string `json:"modes"`
	Origins  []string `json:"origins"`
	Dests    []string `json:"dests"`
	Carriers []string `json:"carriers"`
}

// Search handles POST /companies/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var raw search.RawFilter
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Search(r.Context(), raw, middleware.GetUserID(r.Context()))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, toSearchResponse(result))
}

// FilterOptions handles GET /companies/filters.
func (h *SearchHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.FilterOptions(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, FilterOptionsResponse{
		Modes:    emptyIfNil(opts.Modes),
		Origins:  emptyIfNil(opts.Origins),
		Dests:    emptyIfNil(opts.Dests),
		Carriers: emptyIfNil(opts.Carriers),
	})
}

func toSearchResponse(result *search.Result) SearchResponse {
	page := result.Page
	rows := make([]CompanyRowResponse, 0, len(page.Rows))
	for _, agg := range page.Rows {
		rows = append(rows, toCompanyRow(agg, result.SavedKeys))
	}
	return SearchResponse{
		Total:    page.Total,
		Rows:     rows,
		Limit:    page.Limit,
		Offset:   page.Offset,
		SearchID: result.SearchID,
	}
}

// toCompanyRow serializes one aggregate. Share percentages are
// computed and rounded here and nowhere earlier.
func toCompanyRow(agg domain.CompanyRoleAggregate, savedKeys map[string]bool) CompanyRowResponse {
	row := CompanyRowResponse{
		CompanyKey:    agg.CompanyKey,
		DisplayName:   agg.DisplayName,
		Role:          string(agg.Role),
		ShipmentCount: agg.ShipmentCount,
		TopLanes:      make([]LaneResponse, 0, len(agg.TopLanes)),
		TopCarriers:   make([]CarrierResponse, 0, len(agg.TopCarriers)),
		TopHsCodes:    make([]HSCodeResponse, 0, len(agg.TopHSCodes)),
		Saved:         savedKeys[agg.CompanyKey],
	}

	if !agg.LastActivity.IsZero() {
		date := agg.LastActivity.UTC().Format(time.DateOnly)
		row.LastActivityDate = &date
	}

	for _, e := range agg.TopLanes {
		row.TopLanes = append(row.TopLanes, LaneResponse{
			Origin:   e.Lane.Origin,
			Dest:     e.Lane.Dest,
			Count:    e.Count,
			SharePct: e.SharePct(agg.ShipmentCount),
		})
	}
	for _, e := range agg.TopCarriers {
		row.TopCarriers = append(row.TopCarriers, CarrierResponse{
			Name:     e.Value,
			Count:    e.Count,
			SharePct: e.SharePct(agg.ShipmentCount),
		})
	}
	for _, e := range agg.TopHSCodes {
		row.TopHsCodes = append(row.TopHsCodes, HSCodeResponse{
			Code:     e.Value,
			Count:    e.Count,
			SharePct: e.SharePct(agg.ShipmentCount),
		})
	}
	return row
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

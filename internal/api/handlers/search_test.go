package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lanewise/lanewise/internal/api"
	"github.com/lanewise/lanewise/internal/api/middleware"
	"github.com/lanewise/lanewise/internal/domain"
	"github.com/lanewise/lanewise/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, raw search.RawFilter, ownerID string) (*search.Result, error) {
	args := m.Called(ctx, raw, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.Result), args.Error(1)
}

func (m *MockSearchService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilterOptions), args.Error(1)
}

func requestWithUser(method, url string, body []byte) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, "user-1")
	return req.WithContext(ctx)
}

func newTestResult() *search.Result {
	return &search.Result{
		Page: domain.SearchResultPage{
			Total:  1,
			Limit:  25,
			Offset: 0,
			Rows: []domain.CompanyRoleAggregate{
				{
					CompanyKey:    "acme corp",
					DisplayName:   "Acme Corp",
					Role:          domain.RoleShipper,
					ShipmentCount: 4,
					LastActivity:  time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
					TopLanes: []domain.LaneEntry{
						{Lane: domain.Lane{Origin: "CN", Dest: "US"}, Count: 3},
						{Lane: domain.Lane{Origin: "VN", Dest: "US"}, Count: 1},
					},
					TopCarriers: []domain.TopNEntry{{Value: "Maersk", Count: 4}},
					TopHSCodes:  []domain.TopNEntry{{Value: "8471", Count: 2}},
				},
			},
		},
		SavedKeys: map[string]bool{"acme corp": true},
		SearchID:  "search-abc",
	}
}

func TestSearchHandler_Search_Success(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, mock.MatchedBy(func(raw search.RawFilter) bool {
		return raw.Query == "acme" && raw.Mode == "ocean"
	}), "user-1").Return(newTestResult(), nil)

	body := `{"q":"acme","mode":"ocean","limit":25}`
	req := requestWithUser(http.MethodPost, "/companies/search", []byte(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data SearchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	resp := envelope.Data
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "search-abc", resp.SearchID)
	require.Len(t, resp.Rows, 1)

	row := resp.Rows[0]
	assert.Equal(t, "acme corp", row.CompanyKey)
	assert.Equal(t, "shipper", row.Role)
	assert.True(t, row.Saved)
	require.NotNil(t, row.LastActivityDate)
	assert.Equal(t, "2026-02-14", *row.LastActivityDate)

	require.Len(t, row.TopLanes, 2)
	assert.Equal(t, "CN", row.TopLanes[0].Origin)
	assert.Equal(t, "US", row.TopLanes[0].Dest)
	assert.InDelta(t, 75.0, row.TopLanes[0].SharePct, 0.0001)
	assert.InDelta(t, 25.0, row.TopLanes[1].SharePct, 0.0001)

	require.Len(t, row.TopCarriers, 1)
	assert.InDelta(t, 100.0, row.TopCarriers[0].SharePct, 0.0001)
	require.Len(t, row.TopHsCodes, 1)
	assert.InDelta(t, 50.0, row.TopHsCodes[0].SharePct, 0.0001)

	mockSvc.AssertExpectations(t)
}

func TestToCompanyRow_HyphenatedCountryLane(t *testing.T) {
	agg := domain.CompanyRoleAggregate{
		CompanyKey:    "bissau traders",
		DisplayName:   "Bissau Traders",
		Role:          domain.RoleShipper,
		ShipmentCount: 2,
		TopLanes: []domain.LaneEntry{
			{Lane: domain.Lane{Origin: "GUINEA-BISSAU", Dest: "US"}, Count: 2},
		},
	}

	row := toCompanyRow(agg, nil)

	require.Len(t, row.TopLanes, 1)
	assert.Equal(t, "GUINEA-BISSAU", row.TopLanes[0].Origin)
	assert.Equal(t, "US", row.TopLanes[0].Dest)
}

func TestSearchHandler_Search_EmptyResult(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, mock.Anything, "user-1").
		Return(&search.Result{
			Page:     domain.SearchResultPage{Total: 0, Limit: 25, Rows: []domain.CompanyRoleAggregate{}},
			SearchID: "search-empty",
		}, nil)

	req := requestWithUser(http.MethodPost, "/companies/search", []byte(`{"q":"nothing"}`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rows":[]`)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestSearchHandler_Search_InvalidBody(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	req := requestWithUser(http.MethodPost, "/companies/search", []byte(`{not json`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchHandler_Search_InvalidFilter(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, mock.Anything, "user-1").
		Return(nil, domain.ErrLimitOutOfBounds)

	req := requestWithUser(http.MethodPost, "/companies/search", []byte(`{"limit":500}`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.ErrCodeInvalidFilter, result.Code)
}

func TestSearchHandler_Search_StoreUnavailable(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Search", mock.Anything, mock.Anything, "user-1").
		Return(nil, domain.ErrStoreUnavailable)

	req := requestWithUser(http.MethodPost, "/companies/search", []byte(`{}`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSearchHandler_FilterOptions(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("FilterOptions", mock.Anything).
		Return(&domain.FilterOptions{
			Modes:    []string{"air", "ocean"},
			Origins:  []string{"CN", "VN"},
			Carriers: []string{"Maersk"},
		}, nil)

	req := requestWithUser(http.MethodGet, "/companies/filters", nil)
	w := httptest.NewRecorder()

	handler.FilterOptions(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data FilterOptionsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, []string{"air", "ocean"}, envelope.Data.Modes)
	assert.NotNil(t, envelope.Data.Dests)
	assert.Empty(t, envelope.Data.Dests)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lanewise/lanewise/internal/api"
	"github.com/lanewise/lanewise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSavedCompanyRepo struct {
	mock.Mock
}

func (m *MockSavedCompanyRepo) Save(ctx context.Context, c *domain.SavedCompany) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockSavedCompanyRepo) GetByID(ctx context.Context, id string) (*domain.SavedCompany, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedCompany), args.Error(1)
}

func (m *MockSavedCompanyRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.SavedCompany, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SavedCompany), args.Error(1)
}

func (m *MockSavedCompanyRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCompanyHandler_Save_Success(t *testing.T) {
	repo := new(MockSavedCompanyRepo)
	handler := NewCompanyHandler(repo)

	repo.On("Save", mock.Anything, mock.MatchedBy(func(c *domain.SavedCompany) bool {
		return c.OwnerID == "user-1" && c.DisplayName == "Acme Corp" && c.ID != ""
	})).Return(nil)

	body := `{"display_name":"  Acme   Corp ","notes":"key account"}`
	req := requestWithUser(http.MethodPost, "/companies/saved", []byte(body))
	w := httptest.NewRecorder()

	handler.Save(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data SavedCompanyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Acme Corp", envelope.Data.DisplayName)
	assert.Equal(t, "acme corp", envelope.Data.CanonicalKey)
	assert.Equal(t, "key account", envelope.Data.Notes)
	repo.AssertExpectations(t)
}

func TestCompanyHandler_Save_EchoesStoredID(t *testing.T) {
	repo := new(MockSavedCompanyRepo)
	handler := NewCompanyHandler(repo)

	// The upsert's conflict path keeps the existing row's id; the
	// repository writes it back into the record before returning.
	repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.SavedCompany).ID = "existing-row-id"
	}).Return(nil)

	body := `{"display_name":"Acme Corp"}`
	req := requestWithUser(http.MethodPost, "/companies/saved", []byte(body))
	w := httptest.NewRecorder()

	handler.Save(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data SavedCompanyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "existing-row-id", envelope.Data.ID)
}

func TestCompanyHandler_Save_SourceIDBecomesCanonicalKey(t *testing.T) {
	repo := new(MockSavedCompanyRepo)
	handler := NewCompanyHandler(repo)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	body := `{"source_id":"src-42","display_name":"Globex"}`
	req := requestWithUser(http.MethodPost, "/companies/saved", []byte(body))
	w := httptest.NewRecorder()

	handler.Save(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data SavedCompanyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "src-42", envelope.Data.CanonicalKey)
}

func TestCompanyHandler_Save_MissingDisplayName(t *testing.T) {
	repo := new(MockSavedCompanyRepo)
	handler := NewCompanyHandler(repo)

	req := requestWithUser(http.MethodPost, "/companies/saved", []byte(`{"notes":"no name"}`))
	w := httptest.NewRecorder()

	handler.Save(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCompanyHandler_Save_Unauthorized(t *testing.T) {
	repo := new(MockSavedCompanyRepo)
	handler := NewCompanyHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/companies/saved", nil)
	w := httptest.NewRecorder()

	handler.Save(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCompanyHandler_List_Success(t *testing.T) {
	repo := new(MockSavedCompanyRepo)
	handler := NewCompanyHandler(repo)

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	repo.On("ListByOwner", mock.Anything, "user-1").
		Return([]*domain.SavedCompany{
			{ID: "sc-1", OwnerID: "user-1", DisplayName: "Acme Corp", UpdatedAt: now},
			{ID: "sc-2", OwnerID: "user-1", SourceID: "src-42", DisplayName: "Globex", UpdatedAt: now},
		}, nil)

	req := requestWithUser(http.MethodGet, "/companies/saved", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data SavedCompanyListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Companies, 2)
	assert.Equal(t, "acme corp", envelope.Data.Companies[0].CanonicalKey)
	assert.Equal(t, "src-42", envelope.Data.Companies[1].CanonicalKey)
}

func TestCompanyHandler_List_Empty(t *testing.T) {
	repo := new(MockSavedCompanyRepo)
	handler := NewCompanyHandler(repo)
	repo.On("ListByOwner", mock.Anything, "user-1").
		Return([]*domain.SavedCompany{}, nil)

	req := requestWithUser(http.MethodGet, "/companies/saved", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"companies":[]`)
}

func deleteRequestWithID(id string) *http.Request {
	req := requestWithUser(http.MethodDelete, "/companies/saved/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCompanyHandler_Delete_Success(t *testing.T) {
	repo := new(MockSavedCompanyRepo)
	handler := NewCompanyHandler(repo)
	repo.On("GetByID", mock.Anything, "sc-1").
		Return(&domain.SavedCompany{ID: "sc-1", OwnerID: "user-1", DisplayName: "Acme Corp"}, nil)
	repo.On("Delete", mock.Anything, "sc-1").Return(nil)

	w := httptest.NewRecorder()
	handler.Delete(w, deleteRequestWithID("sc-1"))

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestCompanyHandler_Delete_NotFound(t *testing.T) {
	repo := new(MockSavedCompanyRepo)
	handler := NewCompanyHandler(repo)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrSavedCompanyNotFound)

	w := httptest.NewRecorder()
	handler.Delete(w, deleteRequestWithID("missing"))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var result api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, domain.ErrCodeNotFound, result.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCompanyHandler_Delete_OtherOwnersPin(t *testing.T) {
	repo := new(MockSavedCompanyRepo)
	handler := NewCompanyHandler(repo)
	repo.On("GetByID", mock.Anything, "sc-9").
		Return(&domain.SavedCompany{ID: "sc-9", OwnerID: "someone-else", DisplayName: "Globex"}, nil)

	w := httptest.NewRecorder()
	handler.Delete(w, deleteRequestWithID("sc-9"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

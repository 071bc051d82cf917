package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lanewise/lanewise/internal/api"
	"github.com/lanewise/lanewise/internal/api/middleware"
	"github.com/lanewise/lanewise/internal/domain"
	"github.com/lanewise/lanewise/internal/identity"
)

// SavedCompanyRepository is the persistence boundary for pinned companies.
type SavedCompanyRepository interface {
	Save(ctx context.Context, c *domain.SavedCompany) error
	GetByID(ctx context.Context, id string) (*domain.SavedCompany, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.SavedCompany, error)
	Delete(ctx context.Context, id string) error
}

type CompanyHandler struct {
	repo SavedCompanyRepository
}

func NewCompanyHandler(repo SavedCompanyRepository) *CompanyHandler {
	return &CompanyHandler{repo: repo}
}

type SaveCompanyRequest struct {
	SourceID    string `json:"source_id,omitempty"`
	DisplayName string `json:"display_name"`
	Notes       string `json:"notes,omitempty"`
}

type SavedCompanyResponse struct {
	ID           string `json:"id"`
	CanonicalKey string `json:"canonical_key"`
	SourceID     string `json:"source_id,omitempty"`
	DisplayName  string `json:"display_name"`
	Notes        string `json:"notes,omitempty"`
	UpdatedAt    string `json:"updated_at"`
}

type SavedCompanyListResponse struct {
	Companies []SavedCompanyResponse `json:"companies"`
}

// Save handles POST /companies/saved.
func (h *CompanyHandler) Save(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	if ownerID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SaveCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		api.Error(w, http.StatusBadRequest, "display_name is required")
		return
	}

	now := time.Now().UTC()
	company := &domain.SavedCompany{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		SourceID:    strings.TrimSpace(req.SourceID),
		DisplayName: strings.Join(strings.Fields(req.DisplayName), " "),
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Save(r.Context(), company); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, toSavedCompanyResponse(company))
}

// List handles GET /companies/saved.
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	if ownerID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	companies, err := h.repo.ListByOwner(r.Context(), ownerID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := SavedCompanyListResponse{Companies: make([]SavedCompanyResponse, 0, len(companies))}
	for _, c := range companies {
		resp.Companies = append(resp.Companies, toSavedCompanyResponse(c))
	}
	api.Success(w, http.StatusOK, resp)
}

// Delete handles DELETE /companies/saved/{id}.
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	if ownerID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	company, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if company.OwnerID != ownerID {
		// Another owner's pin is invisible, not forbidden.
		api.HandleError(w, domain.ErrSavedCompanyNotFound)
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]string{"id": id})
}

func toSavedCompanyResponse(c *domain.SavedCompany) SavedCompanyResponse {
	return SavedCompanyResponse{
		ID:           c.ID,
		CanonicalKey: identity.Resolve(c.SourceID, c.DisplayName).CanonicalKey,
		SourceID:     c.SourceID,
		DisplayName:  c.DisplayName,
		Notes:        c.Notes,
		UpdatedAt:    c.UpdatedAt.Format(time.RFC3339),
	}
}

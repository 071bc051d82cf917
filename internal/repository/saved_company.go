package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lanewise/lanewise/internal/domain"
)

// SavedCompanyRepository persists companies a user pinned for later.
type SavedCompanyRepository struct {
	db dbtx
}

func NewSavedCompanyRepository(pool *pgxpool.Pool) *SavedCompanyRepository {
	return &SavedCompanyRepository{db: pool}
}

// Save upserts a pinned company. On the conflict path the database
// keeps the existing row's id, so the stored id is read back into
// c.ID; callers must not echo the candidate id they minted.
func (r *SavedCompanyRepository) Save(ctx context.Context, c *domain.SavedCompany) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO saved_companies (id, owner_id, source_id, display_name, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (owner_id, source_id, display_name)
		 DO UPDATE SET notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
		 RETURNING id`,
		c.ID, c.OwnerID, c.SourceID, c.DisplayName, c.Notes, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *SavedCompanyRepository) GetByID(ctx context.Context, id string) (*domain.SavedCompany, error) {
	var c domain.SavedCompany
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, source_id, display_name, notes, created_at, updated_at
		 FROM saved_companies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.OwnerID, &c.SourceID, &c.DisplayName, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSavedCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *SavedCompanyRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.SavedCompany, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, source_id, display_name, notes, created_at, updated_at
		 FROM saved_companies WHERE owner_id = $1 ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*domain.SavedCompany
	for rows.Next() {
		var c domain.SavedCompany
		err := rows.Scan(&c.ID, &c.OwnerID, &c.SourceID, &c.DisplayName, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		companies = append(companies, &c)
	}
	return companies, rows.Err()
}

func (r *SavedCompanyRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saved_companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSavedCompanyNotFound
	}
	return nil
}

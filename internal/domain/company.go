package domain

import "time"

// CompanyIdentity is the deduplication identity of a company-shaped
// record. It is a pure function of its inputs (identity.Resolve) and
// never persisted as its own entity.
type CompanyIdentity struct {
	CanonicalKey string
	DisplayName  string
	SourceID     string
}

// SavedCompany is a company a user pinned locally. Merged into live
// search results by canonical key.
type SavedCompany struct {
	ID          string
	OwnerID     string
	SourceID    string
	DisplayName string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

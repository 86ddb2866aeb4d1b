package interfaces

import (
	"context"

	"github.com/bobmcallan/finlens/internal/models"
)

// StorageManager coordinates storage backends
type StorageManager interface {
	CompanyStore() CompanyStore

	// Lifecycle
	Close() error
}

// CompanyStore persists the company directory keyed by corp code
type CompanyStore interface {
	Upsert(ctx context.Context, company *models.Company) error
	UpsertBatch(ctx context.Context, companies []*models.Company) error
	Get(ctx context.Context, corpCode string) (*models.Company, error)
	// Search returns companies whose name contains keyword, ignoring case,
	// ordered by name and capped at limit.
	Search(ctx context.Context, keyword string, limit int) ([]*models.Company, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, corpCode string) error
}

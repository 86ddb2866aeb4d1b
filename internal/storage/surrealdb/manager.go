package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/interfaces"
)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	companyStore *CompanyStore
}

// NewManager creates a new StorageManager connected to SurrealDB.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// SurrealDB v3 errors on querying non-existent tables
	if err := defineSchema(ctx, db); err != nil {
		db.Close(ctx)
		return nil, err
	}

	m := &Manager{
		db:           db,
		logger:       logger,
		companyStore: NewCompanyStore(db, logger),
	}

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

func defineSchema(ctx context.Context, db *surrealdb.DB) error {
	statements := []string{
		"DEFINE TABLE IF NOT EXISTS company SCHEMALESS",
		"DEFINE INDEX IF NOT EXISTS company_name ON TABLE company FIELDS corp_name",
	}
	for _, sql := range statements {
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return fmt.Errorf("failed to define schema (%s): %w", sql, err)
		}
	}
	return nil
}

func (m *Manager) CompanyStore() interfaces.CompanyStore {
	return m.companyStore
}

func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)

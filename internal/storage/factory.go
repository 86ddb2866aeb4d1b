// Package storage creates the storage manager for the configured backend.
package storage

import (
	"fmt"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/interfaces"
	"github.com/bobmcallan/finlens/internal/storage/surrealdb"
)

// NewStorageManager connects to SurrealDB and returns the storage manager.
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	if config.Storage.Address == "" {
		return nil, fmt.Errorf("storage address is required")
	}

	mgr, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}
	return mgr, nil
}

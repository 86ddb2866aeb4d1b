package surrealdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/models"
	tcommon "github.com/bobmcallan/finlens/tests/common"
)

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	sc := tcommon.StartSurrealDB(t)

	return &common.Config{
		Environment: "test",
		Storage:     sc.StorageConfig(t, "mgr"),
	}
}

func TestNewManager(t *testing.T) {
	mgr, err := NewManager(common.NewSilentLogger(), testConfig(t))
	require.NoError(t, err)
	defer mgr.Close()

	store := mgr.CompanyStore()
	require.NotNil(t, store)

	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, &models.Company{CorpCode: "00126380", CorpName: "삼성전자"}))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewManager_BadCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Password = "wrong"

	_, err := NewManager(common.NewSilentLogger(), cfg)
	assert.Error(t, err)
}

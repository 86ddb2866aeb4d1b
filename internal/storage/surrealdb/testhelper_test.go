package surrealdb

import (
	"context"
	"testing"

	surreal "github.com/surrealdb/surrealdb.go"

	"github.com/bobmcallan/finlens/internal/common"
	tcommon "github.com/bobmcallan/finlens/tests/common"
)

// testDB starts the shared SurrealDB container and returns a connected *surreal.DB
// using a unique database name per test.
func testDB(t *testing.T) *surreal.DB {
	t.Helper()

	sc := tcommon.StartSurrealDB(t)
	ctx := context.Background()

	db, err := surreal.New(sc.Address())
	if err != nil {
		t.Fatalf("connect to SurrealDB: %v", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": tcommon.TestUser,
		"pass": tcommon.TestPassword,
	}); err != nil {
		t.Fatalf("sign in to SurrealDB: %v", err)
	}

	if err := db.Use(ctx, tcommon.TestNamespace, tcommon.DatabaseName("t", t)); err != nil {
		t.Fatalf("select namespace/database: %v", err)
	}
	if err := defineSchema(ctx, db); err != nil {
		t.Fatalf("define schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close(context.Background())
	})

	return db
}

// testLogger returns a silent logger for tests.
func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

// Package integrationtest provides db helpers used in integration tests.
package integrationtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/budgetservice"
	"github.com/go-petr/pet-ledger/internal/converter"
	"github.com/go-petr/pet-ledger/internal/ratesource"
	"github.com/go-petr/pet-ledger/internal/txparser"
	"github.com/go-petr/pet-ledger/internal/txrepo"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"

	// sqlite driver for the throwaway test databases.
	_ "modernc.org/sqlite"
)

// Rates used by every integration server.
const Rates = "RUB=90,USD=1.1"

// OpeningBalance of every integration server, in the base currency.
var OpeningBalance = decimal.NewFromInt(5000)

// SetupServer returns test server backed by a fresh sqlite ledger.
func SetupServer(t *testing.T) *httpserver.Server {
	t.Helper()

	ctx := context.Background()

	zerolog.SetGlobalLevel(zerolog.FatalLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	db := SetupDB(t)

	repo, err := txrepo.NewSQLRepo(ctx, db, dbpkg.DriverSQLite)
	if err != nil {
		t.Fatalf("txrepo.NewSQLRepo(ctx, db, %q) returned error: %v", dbpkg.DriverSQLite, err)
	}

	src, err := ratesource.ParseStatic(Rates)
	if err != nil {
		t.Fatalf("ratesource.ParseStatic(%q) returned error: %v", Rates, err)
	}

	conv, err := converter.Load(ctx, src, 0)
	if err != nil {
		t.Fatalf("converter.Load returned error: %v", err)
	}

	service := budgetservice.New(repo, txparser.New(nil), conv, OpeningBalance)

	gin.SetMode(gin.ReleaseMode)

	config := configpkg.Config{
		ServerAddress:  "127.0.0.1:0",
		StorageBackend: configpkg.StorageSQL,
		DBDriver:       dbpkg.DriverSQLite,
	}

	server, err := httpserver.New(service, zerolog.Nop(), config)
	if err != nil {
		t.Fatalf(`httpserver.New(service, logger, config) returned error: %v`, err)
	}

	return server
}

// SetupDB opens a sqlite database inside t.TempDir and closes it once the test is done.
func SetupDB(t *testing.T) *sql.DB {
	t.Helper()

	source := filepath.Join(t.TempDir(), "ledger.db")

	db, err := dbpkg.Setup(dbpkg.DriverSQLite, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("db cleanup failed. err: %v", err)
		}
	})

	return db
}

// SetupTX sets up a database transaction to be used in tests.
//
// Once the tests are done it will rollback the transaction.
func SetupTX(t *testing.T) *sql.Tx {
	t.Helper()

	db := SetupDB(t)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("db.Begin() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Errorf("tx.Rollback() failed: %v", err)
		}
	})

	return tx
}

package db

import (
	"path/filepath"
	"testing"

	"fintrack/internal/config"
	"fintrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorByDriver(t *testing.T) {
	for driver, name := range map[string]string{"mysql": "mysql", "postgres": "postgres", "": "postgres", "sqlite": "sqlite"} {
		d, err := Dialector(&config.Config{DBDriver: driver, SQLitePath: "x.db"})
		require.NoError(t, err, driver)
		assert.Equal(t, name, d.Name(), driver)
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "ledger.db")}

	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&domain.Transaction{}))
	assert.True(t, db.Migrator().HasIndex(&domain.Transaction{}, "idx_transactions_user_date"))
}

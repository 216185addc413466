package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/dezx-api/internal/config"
	"github.com/yukikurage/dezx-api/internal/logging"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrateCreatesSchemaAndIndexes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	SetDB(db)

	log := logging.Discard()
	require.NoError(t, Migrate(log))

	for _, idx := range compositeIndexes {
		require.True(t, db.Migrator().HasIndex(idx.table, idx.name), idx.name)
	}

	// second run finds everything in place
	require.NoError(t, AddIndexes(db, log))
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlite"} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBName: "dezx"})
		require.NoError(t, err)
		require.Equal(t, driver, d.Name())
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	require.Error(t, err)
}

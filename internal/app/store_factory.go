package app

import (
	"fmt"
	"strings"

	"github.com/hmtran/classpoints/internal/store"
	"github.com/hmtran/classpoints/internal/store/postgres"
	"github.com/hmtran/classpoints/internal/store/redisstore"
	"github.com/hmtran/classpoints/internal/store/sqlite"
)

// NewStore picks a backend from the DSN: redis:// selects the document
// store, postgres:// the relational store over Postgres, anything else
// is treated as an embedded sqlite path (including :memory:).
func NewStore(dsn, migrationsDir string) (store.Store, error) {
	dbType := store.DBTypeSQLite
	switch {
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		dbType = store.DBTypeRedis
	case strings.HasPrefix(dsn, "postgres"):
		dbType = store.DBTypePostgres
	}

	switch dbType {
	case store.DBTypeRedis:
		return redisstore.NewRedisStore(dsn)
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(dsn, migrationsDir)
	case store.DBTypeSQLite:
		return sqlite.NewSQLiteStore(dsn, migrationsDir)
	default:
		return nil, fmt.Errorf("unable to determine database type from DSN: %s", dsn)
	}
}

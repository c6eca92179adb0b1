package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"

	"modernc.org/sqlite"

	"github.com/civicatlas/artcatalog/gen/ent"
)

// Ent recognizes the sqlite dialect under the driver name "sqlite3", so the
// modernc driver is re-registered under that name with foreign keys enabled
// per connection.
type sqliteDriver struct {
	*sqlite.Driver
}

type sqliteConn interface {
	Exec(stmt string, args []driver.Value) (driver.Result, error)
}

func (d sqliteDriver) Open(name string) (driver.Conn, error) {
	conn, err := d.Driver.Open(name)
	if err != nil {
		return conn, err
	}
	if _, err := conn.(sqliteConn).Exec("PRAGMA foreign_keys = on;", nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return conn, nil
}

func init() {
	sql.Register("sqlite3", sqliteDriver{Driver: &sqlite.Driver{}})
}

// MemoryDSN is a shared in-memory catalog for single-process runs.
const MemoryDSN = "file:artcatalog?mode=memory&cache=shared"

// OpenSQLite opens a file or in-memory catalog and creates the schema. Meant
// for local runs and tests; production uses Open against Postgres.
func OpenSQLite(ctx context.Context, dsn string, logger *slog.Logger) (*ent.Client, error) {
	client, err := ent.Open("sqlite3", dsn)
	if err != nil {
		logger.Error("failed to open sqlite catalog", "dsn", dsn, "error", err)
		return nil, err
	}
	if err := client.Schema.Create(ctx); err != nil {
		_ = client.Close()
		logger.Error("failed to create sqlite schema", "dsn", dsn, "error", err)
		return nil, err
	}
	logger.Info("opened sqlite catalog", "dsn", dsn)
	return client, nil
}

// Package migrations embeds the SQL schema of the server and the client and
// applies it with goose.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed server/postgres/*.sql server/sqlite/*.sql client/*.sql
var embedMigrations embed.FS

// Dialect names accepted by [Migrate].
const (
	DialectPostgres = "pgx"
	DialectSQLite   = "sqlite3"
)

// Set selects which schema to apply.
type Set int

const (
	// ServerSet is the account schema of the server.
	ServerSet Set = iota
	// ClientSet is the local session schema of the client.
	ClientSet
)

// ErrUnsupportedDialect is returned for a dialect a set has no scripts for.
var ErrUnsupportedDialect = errors.New("unsupported migration dialect")

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration of set to db.
func Migrate(db *sql.DB, dialect string, set Set) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	dir, table, err := source(dialect, set)
	if err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetTableName(table)
	goose.SetLogger(goose.NopLogger())

	if err = goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err = goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

func source(dialect string, set Set) (dir, table string, err error) {
	switch set {
	case ServerSet:
		switch dialect {
		case DialectPostgres:
			return "server/postgres", "goose_db_version", nil
		case DialectSQLite:
			return "server/sqlite", "goose_db_version", nil
		}
	case ClientSet:
		if dialect == DialectSQLite {
			return "client", "goose_client_version", nil
		}
	}

	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
}

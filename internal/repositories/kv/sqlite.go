package kv

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/rerange/internal/dbx"
	"github.com/dmitrijs2005/rerange/internal/filex"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (creating if needed) the SQLite file at dsn and migrates
// it. SQLite allows one writer, so the pool is capped at one connection;
// this also keeps ":memory:" databases from splitting per connection.
func OpenSQLite(ctx context.Context, dsn string) (*SQLStore, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db, dbx.DialectSQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLStore(db, dbx.DialectSQLite), nil
}

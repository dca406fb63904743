package kv

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/dbx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// OpenPostgres connects through the pgx database/sql driver and migrates.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: postgres: %v", common.ErrExternalService, err)
	}

	if err := RunMigrations(ctx, db, dbx.DialectPostgres); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLStore(db, dbx.DialectPostgres), nil
}

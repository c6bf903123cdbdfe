// Package postgres opens the PostgreSQL pool, applies the embedded goose
// migrations and classifies driver errors for the stores.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"escriba/internal/platform/config"
	"escriba/pkg/pagination"
)

//go:embed migrations/*.sql
var embedded embed.FS

// SQLSTATE codes the stores translate into sentinel errors.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

// Open connects with the configured driver (lib/pq or pgx), applies pool
// settings and pings once.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverPQ
	}
	db, err := sql.Open(driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrations returns the embedded migration files rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, Migrations())
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		log.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	return hasCode(err, UniqueViolation)
}

// IsForeignKeyViolation reports whether err carries SQLSTATE 23503.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, ForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// OrderBy renders the ORDER BY clause for a page request over an integer id
// column. Names compare lower-cased and byte-wise, matching the in-memory
// stores; id breaks ties. Only whitelisted expressions are interpolated.
func OrderBy(req pagination.Request) string {
	return orderBy(req, "id")
}

// OrderByTextID is OrderBy for tables keyed by a text id, which is also
// compared byte-wise.
func OrderByTextID(req pagination.Request) string {
	return orderBy(req, `id COLLATE "C"`)
}

func orderBy(req pagination.Request, id string) string {
	dir := " ASC"
	if req.Descending() {
		dir = " DESC"
	}
	if req.SortField == pagination.SortByID {
		return "ORDER BY " + id + dir
	}
	return `ORDER BY LOWER(nome) COLLATE "C"` + dir + `, nome COLLATE "C"` + dir + ", " + id + dir
}

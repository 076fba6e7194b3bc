// Package postgres stores documents as JSONB rows, one table per
// collection.
package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/EcoTrail/internal/query"
	"github.com/utafrali/EcoTrail/internal/store"
	"github.com/utafrali/EcoTrail/pkg/database"
)

// Name is the backend system name reported by the store.
const Name = "postgresql"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the schema migrations for the document tables.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// DB is the subset of *pgxpool.Pool used by the store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Store is a PostgreSQL-backed document store.
type Store struct {
	db       DB
	database string
}

var _ store.Store = (*Store)(nil)

// New wraps db. database is the name reported by Database.
func New(db DB, database string) *Store {
	return &Store{db: db, database: database}
}

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate(ctx context.Context, logger *slog.Logger) error {
	return database.RunMigrations(ctx, s.db, Migrations(), logger)
}

// Name implements store.Store.
func (s *Store) Name() string { return Name }

// Database implements store.Store.
func (s *Store) Database() string { return s.database }

// Insert implements store.Store.
func (s *Store) Insert(ctx context.Context, collection string, doc any) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	id := uuid.NewString()
	sql := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2)", table(collection))
	if _, err := s.db.Exec(ctx, sql, id, body); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

// Find implements store.Store. Skip and Limit are passed to OFFSET and LIMIT
// unchanged, so negative values are rejected by the server.
func (s *Store) Find(ctx context.Context, collection string, filter query.Constraint, opts store.FindOptions) ([]store.Document, error) {
	var st statement
	if err := st.add(filter); err != nil {
		return nil, err
	}
	order, err := orderBy(opts.Sort)
	if err != nil {
		return nil, err
	}

	sql := "SELECT id::text, doc FROM " + table(collection) + st.where() + order
	if opts.Limit != 0 {
		sql += " LIMIT " + st.arg(opts.Limit)
	}
	if opts.Skip != 0 {
		sql += " OFFSET " + st.arg(opts.Skip)
	}

	rows, err := s.db.Query(ctx, sql, st.args...)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer rows.Close()

	docs := make([]store.Document, 0)
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.id, &d.body); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return docs, nil
}

// Count implements store.Store.
func (s *Store) Count(ctx context.Context, collection string, filter query.Constraint) (int64, error) {
	var st statement
	if err := st.add(filter); err != nil {
		return 0, err
	}

	var n int64
	sql := "SELECT count(*) FROM " + table(collection) + st.where()
	if err := s.db.QueryRow(ctx, sql, st.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

const listTables = `SELECT table_name FROM information_schema.tables
	WHERE table_schema = current_schema() AND table_name <> 'schema_migrations'
	ORDER BY table_name`

// Collections implements store.Store.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, listTables)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan table names: %w", err)
	}
	return names, nil
}

// Close implements store.Store.
func (s *Store) Close(context.Context) error {
	s.db.Close()
	return nil
}

// Document is a JSONB document row.
type Document struct {
	id   string
	body []byte
}

// ID implements store.Document.
func (d Document) ID() string { return d.id }

// Decode implements store.Document.
func (d Document) Decode(v any) error { return json.Unmarshal(d.body, v) }

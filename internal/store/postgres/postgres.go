// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateTemplate(ctx context.Context, t *model.Template) error {
	return queryCreateTemplate(ctx, s.db, t)
}

func (s *PostgresStore) GetTemplate(ctx context.Context, menuID model.Menu, companyID int64) (*model.Template, error) {
	return queryGetTemplate(ctx, s.db, menuID, companyID)
}

func (s *PostgresStore) ListTemplates(ctx context.Context) ([]*model.Template, error) {
	return queryListTemplates(ctx, s.db)
}

func (s *PostgresStore) CreateField(ctx context.Context, f *model.Field) error {
	return queryCreateField(ctx, s.db, f)
}

func (s *PostgresStore) GetFieldByKey(ctx context.Context, key string) (*model.Field, error) {
	return queryGetFieldByKey(ctx, s.db, key)
}

func (s *PostgresStore) ListFields(ctx context.Context, templateID int64) ([]*model.Field, error) {
	return queryListFields(ctx, s.db, templateID)
}

func (s *PostgresStore) DeleteFieldByKey(ctx context.Context, key string) error {
	return queryDeleteFieldByKey(ctx, s.db, key)
}

func (s *PostgresStore) GetSearchFieldKey(ctx context.Context, templateID int64) (string, error) {
	return queryGetSearchFieldKey(ctx, s.db, templateID)
}

func (s *PostgresStore) UpsertValue(ctx context.Context, v *model.Value) error {
	return queryUpsertValue(ctx, s.db, v)
}

func (s *PostgresStore) ListDistinctRecordIDs(ctx context.Context, templateID int64, ns model.Namespace) ([]int64, error) {
	return queryListDistinctRecordIDs(ctx, s.db, templateID, ns)
}

func (s *PostgresStore) ListValuesForRecords(ctx context.Context, templateID int64, ns model.Namespace, recordIDs []int64) ([]*model.Value, error) {
	return queryListValuesForRecords(ctx, s.db, templateID, ns, recordIDs)
}

func (s *PostgresStore) ListFieldValues(ctx context.Context, fieldKey string, ns model.Namespace, recordIDs []int64) ([]*model.Value, error) {
	return queryListFieldValues(ctx, s.db, fieldKey, ns, recordIDs)
}

func (s *PostgresStore) FilterRecordIDs(ctx context.Context, fieldKey string, ns model.Namespace, recordIDs []int64, filter model.RecordFilter) ([]int64, error) {
	return queryFilterRecordIDs(ctx, s.db, fieldKey, ns, recordIDs, filter)
}

func (s *PostgresStore) DeleteValuesForRecord(ctx context.Context, menuID model.Menu, recordID int64) error {
	return queryDeleteValuesForRecord(ctx, s.db, menuID, recordID)
}

func (s *PostgresStore) CreateBusinessRecord(ctx context.Context, menuID model.Menu, actor string) (int64, error) {
	return queryCreateBusinessRecord(ctx, s.db, menuID, actor)
}

func (s *PostgresStore) DeleteBusinessRecord(ctx context.Context, menuID model.Menu, recordID int64) error {
	return queryDeleteBusinessRecord(ctx, s.db, menuID, recordID)
}

func (s *PostgresStore) QueryEntities(ctx context.Context, q store.EntityQuery) ([]any, int64, error) {
	return queryEntities(ctx, s.db, q)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateTemplate(ctx context.Context, t *model.Template) error {
	return queryCreateTemplate(ctx, s.tx, t)
}

func (s *txStore) GetTemplate(ctx context.Context, menuID model.Menu, companyID int64) (*model.Template, error) {
	return queryGetTemplate(ctx, s.tx, menuID, companyID)
}

func (s *txStore) ListTemplates(ctx context.Context) ([]*model.Template, error) {
	return queryListTemplates(ctx, s.tx)
}

func (s *txStore) CreateField(ctx context.Context, f *model.Field) error {
	return queryCreateField(ctx, s.tx, f)
}

func (s *txStore) GetFieldByKey(ctx context.Context, key string) (*model.Field, error) {
	return queryGetFieldByKey(ctx, s.tx, key)
}

func (s *txStore) ListFields(ctx context.Context, templateID int64) ([]*model.Field, error) {
	return queryListFields(ctx, s.tx, templateID)
}

func (s *txStore) DeleteFieldByKey(ctx context.Context, key string) error {
	return queryDeleteFieldByKey(ctx, s.tx, key)
}

func (s *txStore) GetSearchFieldKey(ctx context.Context, templateID int64) (string, error) {
	return queryGetSearchFieldKey(ctx, s.tx, templateID)
}

func (s *txStore) UpsertValue(ctx context.Context, v *model.Value) error {
	return queryUpsertValue(ctx, s.tx, v)
}

func (s *txStore) ListDistinctRecordIDs(ctx context.Context, templateID int64, ns model.Namespace) ([]int64, error) {
	return queryListDistinctRecordIDs(ctx, s.tx, templateID, ns)
}

func (s *txStore) ListValuesForRecords(ctx context.Context, templateID int64, ns model.Namespace, recordIDs []int64) ([]*model.Value, error) {
	return queryListValuesForRecords(ctx, s.tx, templateID, ns, recordIDs)
}

func (s *txStore) ListFieldValues(ctx context.Context, fieldKey string, ns model.Namespace, recordIDs []int64) ([]*model.Value, error) {
	return queryListFieldValues(ctx, s.tx, fieldKey, ns, recordIDs)
}

func (s *txStore) FilterRecordIDs(ctx context.Context, fieldKey string, ns model.Namespace, recordIDs []int64, filter model.RecordFilter) ([]int64, error) {
	return queryFilterRecordIDs(ctx, s.tx, fieldKey, ns, recordIDs, filter)
}

func (s *txStore) DeleteValuesForRecord(ctx context.Context, menuID model.Menu, recordID int64) error {
	return queryDeleteValuesForRecord(ctx, s.tx, menuID, recordID)
}

func (s *txStore) CreateBusinessRecord(ctx context.Context, menuID model.Menu, actor string) (int64, error) {
	return queryCreateBusinessRecord(ctx, s.tx, menuID, actor)
}

func (s *txStore) DeleteBusinessRecord(ctx context.Context, menuID model.Menu, recordID int64) error {
	return queryDeleteBusinessRecord(ctx, s.tx, menuID, recordID)
}

func (s *txStore) QueryEntities(ctx context.Context, q store.EntityQuery) ([]any, int64, error) {
	return queryEntities(ctx, s.tx, q)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}

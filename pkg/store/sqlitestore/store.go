// Package sqlitestore persists user records in a local SQLite database. It
// backs the local and demo persistence strategies and the bundled API server.
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-userform/internal/idgen"
	"github.com/goliatone/go-userform/pkg/fields"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// column maps a registry field to its table column.
type column struct {
	field string
	name  string
}

var columns = []column{
	{fields.FirstName, "first_name"},
	{fields.LastName, "last_name"},
	{fields.Email, "email"},
	{fields.Phone, "phone"},
	{fields.DOB, "dob"},
	{fields.Address, "address"},
}

// Store implements store.Store backed by SQLite.
type Store struct {
	db    *sql.DB
	newID func() (string, error)
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlitestore: database path is required")
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, newID: idgen.Generate}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns every record in insertion order.
func (s *Store) List(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns()+" FROM users ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlitestore: scan: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: list: %w", err)
	}
	return users, nil
}

// Create inserts payload under a freshly generated id.
func (s *Store) Create(ctx context.Context, payload model.Payload) (model.User, error) {
	id, err := s.newID()
	if err != nil {
		return model.User{}, err
	}
	user := model.NewUser(model.ID(id), payload)
	if err := insertUser(ctx, s.db, user, false); err != nil {
		return model.User{}, err
	}
	return s.get(ctx, user.ID)
}

// Update merges payload into the record with id. Keys missing from payload
// keep their stored values.
func (s *Store) Update(ctx context.Context, id model.ID, payload model.Payload) (model.User, error) {
	var (
		sets []string
		args []any
	)
	for _, col := range columns {
		if _, ok := payload[col.field]; !ok {
			continue
		}
		sets = append(sets, col.name+" = ?")
		args = append(args, payload.String(col.field))
	}
	if len(sets) == 0 {
		return s.get(ctx, id)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id.String())

	res, err := s.db.ExecContext(ctx, "UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return model.User{}, fmt.Errorf("sqlitestore: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.User{}, store.ErrNotFound
	}
	return s.get(ctx, id)
}

// Delete removes the record with id.
func (s *Store) Delete(ctx context.Context, id model.ID) (model.ID, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id.String())
	if err != nil {
		return "", fmt.Errorf("sqlitestore: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", store.ErrNotFound
	}
	return id, nil
}

// Import stores users keeping their ids, replacing records that already
// exist. It is used to seed the local store from a remote backend.
func (s *Store) Import(ctx context.Context, users []model.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin import: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	for _, user := range users {
		if user.ID.IsZero() {
			id, err := s.newID()
			if err != nil {
				return err
			}
			user.ID = model.ID(id)
		}
		if err := insertUser(ctx, tx, user, true); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: commit import: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, id model.ID) (model.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns()+" FROM users WHERE id = ?", id.String())
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, store.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("sqlitestore: get: %w", err)
	}
	return user, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertUser(ctx context.Context, db execer, user model.User, replace bool) error {
	names := []string{"id"}
	marks := []string{"?"}
	args := []any{user.ID.String()}
	for _, col := range columns {
		names = append(names, col.name)
		marks = append(marks, "?")
		args = append(args, user.Get(col.field))
	}
	verb := "INSERT"
	if replace {
		verb = "INSERT OR REPLACE"
	}
	query := verb + " INTO users (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlitestore: insert: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (model.User, error) {
	var id string
	values := make([]string, len(columns))
	dest := make([]any, 0, len(columns)+1)
	dest = append(dest, &id)
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := row.Scan(dest...); err != nil {
		return model.User{}, err
	}
	user := model.User{ID: model.ID(id), Fields: make(map[string]string, len(columns))}
	for i, col := range columns {
		user.Fields[col.field] = values[i]
	}
	return user, nil
}

func selectColumns() string {
	names := make([]string, 0, len(columns)+1)
	names = append(names, "id")
	for _, col := range columns {
		names = append(names, col.name)
	}
	return strings.Join(names, ", ")
}

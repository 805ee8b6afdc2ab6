package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// DBFile is the database name inside the data directory.
const DBFile = "tierboard.db"

//go:embed migrations/*.sql
var migrationsFS embed.FS

const savedAtKey = "saved_at"

// SQLiteStore keeps tiers and items as rows. Save replaces every row in one
// transaction, so readers never see a half-written board.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens dataDir/tierboard.db and brings its schema up to date.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	path := filepath.Join(dataDir, DBFile)

	if err := runMigrations(path); err != nil {
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One writer; avoids SQLITE_BUSY between the pool's connections.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db, path: path}, nil
}

func runMigrations(path string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+path)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Load assembles the board from its rows. A database that was never saved
// to, or was cleared, is ErrNoBoard.
func (s *SQLiteStore) Load(ctx context.Context) (*types.Board, error) {
	var savedAt string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM board_meta WHERE key = ?`, savedAtKey).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNoBoard
	}
	if err != nil {
		return nil, fmt.Errorf("reading board meta: %w", err)
	}

	b := &types.Board{Tiers: []types.Tier{}, Pool: []types.Item{}}

	rows, err := s.db.QueryContext(ctx, `SELECT id, label, color FROM tiers ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying tiers: %w", err)
	}
	for rows.Next() {
		t := types.Tier{Items: []types.Item{}}
		if err := rows.Scan(&t.ID, &t.Label, &t.Color); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning tier: %w", err)
		}
		b.Tiers = append(b.Tiers, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating tiers: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT id, text, image, container FROM items ORDER BY container, ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it types.Item
		var container string
		if err := rows.Scan(&it.ID, &it.Text, &it.Image, &container); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if container == types.PoolID {
			b.Pool = append(b.Pool, it)
			continue
		}
		t := b.Tier(container)
		if t == nil {
			return nil, fmt.Errorf("%w: item %q references unknown tier %q", types.ErrMalformed, it.ID, container)
		}
		t.Items = append(t.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformed, err)
	}
	return b, nil
}

// Save replaces all rows with b.
func (s *SQLiteStore) Save(ctx context.Context, b *types.Board) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clearing items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tiers`); err != nil {
		return fmt.Errorf("clearing tiers: %w", err)
	}

	tierStmt, err := tx.PrepareContext(ctx, `INSERT INTO tiers (id, label, color, ordinal) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing tier insert: %w", err)
	}
	defer tierStmt.Close()
	itemStmt, err := tx.PrepareContext(ctx, `INSERT INTO items (id, text, image, container, ordinal) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer itemStmt.Close()

	for i, t := range b.Tiers {
		if _, err := tierStmt.ExecContext(ctx, t.ID, t.Label, t.Color, i); err != nil {
			return fmt.Errorf("inserting tier %s: %w", t.ID, err)
		}
		for j, it := range t.Items {
			if _, err := itemStmt.ExecContext(ctx, it.ID, it.Text, it.Image, t.ID, j); err != nil {
				return fmt.Errorf("inserting item %s: %w", it.ID, err)
			}
		}
	}
	for j, it := range b.Pool {
		if _, err := itemStmt.ExecContext(ctx, it.ID, it.Text, it.Image, types.PoolID, j); err != nil {
			return fmt.Errorf("inserting item %s: %w", it.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO board_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		savedAtKey, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("writing board meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Clear deletes every row, leaving the schema in place.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"items", "tiers", "board_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

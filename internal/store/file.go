// Package store implements the board persistence backends: a JSON document
// on disk, a SQLite database, and a Redis key.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/tierboard/internal/document"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// BoardFile is the document name inside the data directory.
const BoardFile = "board.json"

// FileStore keeps the board as one JSON document, replaced atomically on
// every save.
type FileStore struct {
	path string
}

// NewFileStore creates dataDir if needed and returns a store for
// dataDir/board.json.
func NewFileStore(dataDir string) (*FileStore, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dataDir, BoardFile)}, nil
}

// Path returns the document path.
func (s *FileStore) Path() string { return s.path }

// Load reads the document. A missing file is ErrNoBoard.
func (s *FileStore) Load(ctx context.Context) (*types.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, types.ErrNoBoard
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	b, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformed, s.path, err)
	}
	return b, nil
}

// Save writes b using the temp-file, fsync, rename pattern.
func (s *FileStore) Save(ctx context.Context, b *types.Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := document.Encode(b)
	if err != nil {
		return err
	}
	return writeAtomic(s.path, data)
}

// Clear removes the document.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".board-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Package storage keeps uploaded source documents on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/facility-ledger/constants"
)

// ErrDocumentNotFound is returned by Read when the stored file is gone.
var ErrDocumentNotFound = errors.New("stored document not found")

// StoredDocument describes a saved upload.
type StoredDocument struct {
	StoredName string
	PublicPath string
	Size       int
}

// LocalStore writes documents under a single uploads directory and serves
// them from constants.UploadsURLPrefix.
type LocalStore struct {
	dir    string
	logger *slog.Logger
}

func NewLocalStore(dir string, logger *slog.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error("failed to create uploads dir", "dir", dir, "error", err)
		return nil, err
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

// Dir is the directory documents are written to.
func (s *LocalStore) Dir() string { return s.dir }

// StoredName is the on-disk name for a document uploaded for entryID at now.
func StoredName(entryID string, now time.Time) string {
	return fmt.Sprintf("%s_%d.pdf", entryID, now.Unix())
}

// Save writes data as {entryID}_{unix}.pdf. A repeated upload within the same
// second overwrites the earlier file.
func (s *LocalStore) Save(ctx context.Context, entryID string, data []byte, now time.Time) (StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return StoredDocument{}, err
	}
	name := StoredName(entryID, now)
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		s.logger.Error("storage.save.failed", "entry_id", entryID, "error", err)
		return StoredDocument{}, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		s.logger.Error("storage.save.failed", "entry_id", entryID, "error", err)
		return StoredDocument{}, err
	}
	if err := tmp.Close(); err != nil {
		return StoredDocument{}, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		s.logger.Error("storage.save.failed", "entry_id", entryID, "error", err)
		return StoredDocument{}, err
	}

	s.logger.Info("storage.save.ok", "entry_id", entryID, "stored_name", name, "bytes", len(data))
	return StoredDocument{
		StoredName: name,
		PublicPath: constants.UploadsURLPrefix + name,
		Size:       len(data),
	}, nil
}

// Read returns the bytes of a previously stored document.
func (s *LocalStore) Read(ctx context.Context, storedName string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if storedName == "" || filepath.Base(storedName) != storedName {
		return nil, fmt.Errorf("invalid stored name %q: %w", storedName, ErrDocumentNotFound)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, storedName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", storedName, ErrDocumentNotFound)
	}
	if err != nil {
		s.logger.Error("storage.read.failed", "stored_name", storedName, "error", err)
		return nil, err
	}
	return data, nil
}

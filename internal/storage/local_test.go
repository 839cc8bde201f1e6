package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStore(dir, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	at := time.Unix(1714550000, 0)

	t.Run("save and read", func(t *testing.T) {
		doc, err := s.Save(ctx, "abc", []byte("%PDF-1.4"), at)
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if doc.StoredName != "abc_1714550000.pdf" {
			t.Fatalf("unexpected stored name %q", doc.StoredName)
		}
		if doc.PublicPath != "/static/uploads/abc_1714550000.pdf" {
			t.Fatalf("unexpected public path %q", doc.PublicPath)
		}
		got, err := s.Read(ctx, doc.StoredName)
		if err != nil || string(got) != "%PDF-1.4" {
			t.Fatalf("read: %q %v", got, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := s.Read(ctx, "nope.pdf"); !errors.Is(err, ErrDocumentNotFound) {
			t.Fatalf("expected ErrDocumentNotFound, got %v", err)
		}
	})

	t.Run("rejects paths", func(t *testing.T) {
		if _, err := s.Read(ctx, "../secret.pdf"); !errors.Is(err, ErrDocumentNotFound) {
			t.Fatalf("expected ErrDocumentNotFound, got %v", err)
		}
	})

	t.Run("no temp files left", func(t *testing.T) {
		ents, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range ents {
			if filepath.Ext(e.Name()) != ".pdf" {
				t.Fatalf("unexpected leftover %q", e.Name())
			}
		}
	})
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreWriteAndRead(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	key, err := store.Write(context.Background(), "generated/gen-1/output-01.png", []byte{0x89, 'P', 'N', 'G'})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if key != "generated/gen-1/output-01.png" {
		t.Fatalf("key = %q, want canonical key", key)
	}

	data, err := store.Read(context.Background(), key)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) != 4 {
		t.Fatalf("read %d bytes, want 4", len(data))
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if _, err := store.Write(context.Background(), "../escape.png", []byte{1}); err == nil {
		t.Fatalf("expected traversal key to be rejected")
	}
}

func TestFileStoreDeleteIsIdempotent(t *testing.T) {
	base := t.TempDir()
	store, err := NewFileStore(base)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	key, err := store.Write(context.Background(), "garments/mask.png", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "garments", "mask.png")); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err = %v", err)
	}
	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
}

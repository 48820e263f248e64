package objectstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"villagevoice/internal/objectstore"
)

func TestDisk_Put(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "photos")
	d, err := objectstore.NewDisk(dir, "http://localhost:8080/photos/")
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	url, err := d.Put(context.Background(), "VV000001-1700000000000.jpg", strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "http://localhost:8080/photos/VV000001-1700000000000.jpg" {
		t.Fatalf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "VV000001-1700000000000.jpg"))
	if err != nil || string(data) != "jpeg-bytes" {
		t.Fatalf("unexpected file content %q, %v", data, err)
	}

	// keys are never overwritten
	if _, err := d.Put(context.Background(), "VV000001-1700000000000.jpg", strings.NewReader("x"), 1, ""); err == nil {
		t.Fatalf("expected error on existing key")
	}
}

func TestDisk_Put_RejectsPaths(t *testing.T) {
	t.Parallel()

	d, err := objectstore.NewDisk(t.TempDir(), "/photos")
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	for _, key := range []string{"", "../escape.jpg", "a/b.jpg", ".hidden"} {
		if _, err := d.Put(context.Background(), key, strings.NewReader("x"), 1, ""); !errors.Is(err, objectstore.ErrBadKey) {
			t.Fatalf("key %q: expected ErrBadKey, got %v", key, err)
		}
	}
}

package localfs

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveOverwritesSameKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	path, err := store.Save(ctx, "notes.txt", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if path != filepath.Join(dir, "notes.txt") {
		t.Fatalf("unexpected path %q", path)
	}
	if _, err := store.Save(ctx, "notes.txt", strings.NewReader("second")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rc, err := store.Open(ctx, "notes.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "second" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestSaveRejectsKeysOutsideBaseDir(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, key := range []string{"", "..", "../escape.txt", "a/b.txt"} {
		if _, err := store.Save(context.Background(), key, strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestArtifactsDirExists(t *testing.T) {
	dir := t.TempDir()
	if !(Artifacts{}).DirExists(dir) {
		t.Fatalf("expected %s to exist", dir)
	}
	if (Artifacts{}).DirExists(filepath.Join(dir, "missing")) {
		t.Fatalf("missing dir reported as existing")
	}
}

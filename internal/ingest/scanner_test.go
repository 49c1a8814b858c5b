package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"storefront-ai/internal/ingest"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "products/mugs.md", "# Mugs")
	writeFile(t, root, "manuals/kettle.txt", "kettle manual")
	writeFile(t, root, "readme.md", "# Readme")
	writeFile(t, root, "products/image.png", "binary")
	writeFile(t, root, ".hidden/secret.md", "# Secret")

	files, err := ingest.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	got := map[string]string{}
	for _, f := range files {
		got[f.RelPath] = f.Folder
	}

	want := map[string]string{
		"products/mugs.md":  "products",
		"manuals/kettle.txt": "manuals",
		"readme.md":          "",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), got)
	}
	for rel, folder := range want {
		if got[rel] != folder {
			t.Errorf("file %s: folder = %q, want %q", rel, got[rel], folder)
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := ingest.Scan(context.Background(), "/does/not/exist"); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestScanFileAsRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.md", "# F")

	if _, err := ingest.Scan(context.Background(), filepath.Join(root, "file.md")); err == nil {
		t.Fatal("expected error when root is a file")
	}
}

package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Scan walks the corpus root and returns every markdown and plain-text file
// under it. Hidden files and directories are skipped.
func Scan(ctx context.Context, root string) ([]SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat corpus root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", root)
	}

	var files []SourceFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".md" && ext != ".txt" {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		files = append(files, SourceFile{
			AbsPath: path,
			RelPath: relPath,
			Folder:  topFolder(relPath),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus root %s: %w", root, err)
	}

	return files, nil
}

// topFolder returns the first path component of a relative path, or "" for
// files at the corpus root.
func topFolder(relPath string) string {
	idx := strings.Index(relPath, "/")
	if idx == -1 {
		return ""
	}
	return relPath[:idx]
}

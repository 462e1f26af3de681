package seedgen

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-seedgen/pkg/dialects/keyvalue"
	"github.com/goliatone/go-seedgen/pkg/dialects/relational"
)

// EmbeddedTemplates exposes the built-in header and directive templates of
// both dialects. File names do not collide, so they can share a directory.
func EmbeddedTemplates() []fs.FS {
	return []fs.FS{relational.TemplatesFS(), keyvalue.TemplatesFS()}
}

// ExportTemplates copies the embedded templates into dir so they can be
// edited and passed back with orchestrator.WithTemplates. Existing files are
// left untouched; the names of the files written are returned.
func ExportTemplates(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("seedgen: create template dir: %w", err)
	}

	var written []string
	for _, fsys := range EmbeddedTemplates() {
		err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			target := filepath.Join(dir, filepath.Base(path))
			if _, err := os.Stat(target); err == nil {
				return nil
			}
			data, err := fs.ReadFile(fsys, path)
			if err != nil {
				return fmt.Errorf("seedgen: read %s: %w", path, err)
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("seedgen: write %s: %w", target, err)
			}
			written = append(written, filepath.Base(path))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return written, nil
}

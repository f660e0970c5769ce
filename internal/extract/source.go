package extract

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Micos01/analise-locacao/internal/model"
)

// supportedExtensions lists the document types the pipeline accepts.
var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

// DirectorySource lists contract documents found under a root directory.
// The listing is recursive and sorted by relative path so that repeated
// runs visit documents in the same order.
type DirectorySource struct {
	root string
}

// NewDirectorySource creates a document source rooted at dir.
func NewDirectorySource(dir string) *DirectorySource {
	return &DirectorySource{root: dir}
}

// List walks the root directory and returns every supported document.
// Hidden files and directories are skipped.
func (s *DirectorySource) List(ctx context.Context) ([]model.Document, error) {
	var docs []model.Document

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") && path != s.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !supportedExtensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		docs = append(docs, model.Document{
			ID:   filepath.ToSlash(rel),
			Path: path,
			Name: name,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.root, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Package local reads file-based content collections and filters them down
// to publishable articles.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"fortunesite/internal/models"
)

// ErrLocalRead is matched by every local store failure.
var ErrLocalRead = errors.New("local content read failed")

// ReadError reports an unreadable collection or a malformed entry.
type ReadError struct {
	Err        error
	Collection string
	Path       string
}

func (e *ReadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("read collection %s: %v", e.Collection, e.Err)
	}

	return fmt.Sprintf("read collection %s: %s: %v", e.Collection, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is makes every ReadError match ErrLocalRead.
func (e *ReadError) Is(target error) bool {
	return target == ErrLocalRead
}

// Store reads raw records of a named collection.
type Store interface {
	ReadCollection(ctx context.Context, name string) ([]models.LocalRecord, error)
}

var yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// FileStore reads collections laid out as <root>/<collection>/**/*.md.
type FileStore struct {
	fsys       fs.FS
	root       string
	extensions []string
}

// NewFileStore creates a store over fsys rooted at root.
func NewFileStore(fsys fs.FS, root string) *FileStore {
	if root == "" {
		root = "."
	}

	return &FileStore{
		fsys:       fsys,
		root:       root,
		extensions: []string{".md", ".mdx"},
	}
}

// NewDirStore creates a store over a directory on disk.
func NewDirStore(dir string) *FileStore {
	return NewFileStore(os.DirFS(dir), ".")
}

// ReadCollection returns every entry of the collection in lexical path order.
func (s *FileStore) ReadCollection(ctx context.Context, name string) ([]models.LocalRecord, error) {
	if name == "" || strings.Contains(name, "..") {
		return nil, &ReadError{Collection: name, Err: fs.ErrInvalid}
	}

	dir := path.Join(s.root, name)
	records := []models.LocalRecord{}

	err := fs.WalkDir(s.fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() || !s.hasExtension(d.Name()) {
			return nil
		}

		rec, err := s.readEntry(dir, p)
		if err != nil {
			return &ReadError{Collection: name, Path: p, Err: err}
		}

		records = append(records, rec)

		return nil
	})
	if err != nil {
		var rerr *ReadError
		if errors.As(err, &rerr) {
			return nil, rerr
		}

		return nil, &ReadError{Collection: name, Err: err}
	}

	return records, nil
}

func (s *FileStore) readEntry(dir, p string) (models.LocalRecord, error) {
	raw, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return models.LocalRecord{}, err
	}

	var data models.LocalData

	body, err := frontmatter.Parse(bytes.NewReader(raw), &data, yamlFrontMatter)
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("front matter: %w", err)
	}

	rel := strings.TrimPrefix(strings.TrimPrefix(p, dir), "/")
	id := strings.TrimSuffix(rel, path.Ext(rel))

	slug := data.Slug
	if slug == "" {
		slug = id
	}

	return models.LocalRecord{
		ID:   id,
		Slug: slug,
		Body: strings.TrimLeft(string(body), "\r\n"),
		Data: data,
	}, nil
}

func (s *FileStore) hasExtension(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range s.extensions {
		if ext == e {
			return true
		}
	}

	return false
}

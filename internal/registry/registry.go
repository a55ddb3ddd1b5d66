package registry

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mdsync/internal/logger"
	"mdsync/internal/model"

	"go.uber.org/zap"
)

// Registry tracks the set of content files currently known under the watched
// root. It holds no file content, only existence plus a category label derived
// from the file's position in the tree.
type Registry struct {
	mu    sync.RWMutex
	root  string
	exts  map[string]struct{}
	files map[string]model.WatchedFile
}

func New(root string, extensions []string) *Registry {
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	return &Registry{
		root:  root,
		exts:  exts,
		files: make(map[string]model.WatchedFile),
	}
}

// Initialize scans the root recursively and records every allow-listed file.
// Unreadable subdirectories are logged and skipped; the registry self-heals
// later as create events arrive for paths the scan missed.
func (r *Registry) Initialize() (int, error) {
	count := 0

	err := filepath.WalkDir(r.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Log.Warn("skipping unreadable path",
				zap.String("path", path),
				zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !r.Allowed(path) {
			return nil
		}

		r.Add(path)
		count++
		return nil
	})

	if err != nil {
		return count, err
	}

	return count, nil
}

// Allowed reports whether the path's extension is on the allow-list.
func (r *Registry) Allowed(path string) bool {
	_, ok := r.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (r *Registry) Add(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.files[path]; exists {
		return
	}

	r.files[path] = model.WatchedFile{
		Path:     path,
		Category: r.category(path),
	}
}

func (r *Registry) Remove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, path)
}

func (r *Registry) Contains(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.files[path]
	return ok
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

func (r *Registry) Category(path string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.files[path]; ok {
		return f.Category
	}
	return r.category(path)
}

// category is the first path element under the root, or "root" for files
// directly inside it.
func (r *Registry) category(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "external"
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return "root"
	}
	return parts[0]
}

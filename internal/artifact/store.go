// Package artifact persists the engine's write-once audit records.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bob-stewart/HardShell/internal/git"
)

// Store is the storage capability the emitter writes through: named
// JSON (or rendered-text) artifacts plus a best-effort commit of the
// whole trail.
type Store interface {
	Write(path string, v any) error
	WriteText(path, text string) error
	Commit(message string) error
}

// DirStore writes artifacts under a root directory, one file per
// record, and commits through git when the root is a repository.
type DirStore struct {
	root string
	git  git.Client
}

// NewDirStore creates a store rooted at dir.
func NewDirStore(dir string, gc git.Client) *DirStore {
	return &DirStore{root: dir, git: gc}
}

// Write marshals v as indented JSON to path, creating parents. Records
// are write-once: each run generates fresh ids, so an overwrite only
// happens when a caller reuses a path deliberately.
func (s *DirStore) Write(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return s.WriteText(path, string(data)+"\n")
}

// WriteText writes raw text to path, creating parents.
func (s *DirStore) WriteText(path, text string) error {
	full := filepath.Join(s.root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(text), 0644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}

// Commit commits the artifact root. Failure is expected when the root
// is not a repository or nothing changed; callers log and move on.
func (s *DirStore) Commit(message string) error {
	if s.git == nil {
		return nil
	}
	return s.git.CommitAll(s.root, message)
}

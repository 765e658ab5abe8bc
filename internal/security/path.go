// Package security contains the guards the tutorial servers rely on before
// touching external systems: workspace path containment (prevents path
// traversal, CWE-22) and the read-only SQL query gate.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideWorkspace indicates a requested path resolves outside the
// workspace root. Callers must treat it as access denied, distinct from
// "not found", and must not fall back to the unvalidated path.
var ErrOutsideWorkspace = errors.New("path is outside the workspace")

// Workspace confines file operations to a single root directory. The root is
// fixed and canonicalized at construction and never mutated, so a Workspace
// is safe for concurrent use.
type Workspace struct {
	root string
}

// NewWorkspace creates the workspace rooted at dir, creating the directory
// if it does not exist. The stored root is fully resolved (absolute, symlinks
// expanded) so later containment checks compare canonical paths.
func NewWorkspace(dir string) (*Workspace, error) {
	if dir == "" {
		return nil, errors.New("workspace directory is required")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace path: %w", err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("creating workspace directory: %w", err)
	}

	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing workspace root: %w", err)
	}

	return &Workspace{root: root}, nil
}

// Root returns the canonical workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// Resolve validates an untrusted relative path and returns the canonical
// absolute path it denotes inside the workspace.
//
// The requested path is always joined under the root, even when it looks
// absolute. The joined path is canonicalized (".." and "." expanded, symlinks
// of every existing component dereferenced) and then checked for containment
// on path-segment boundaries, so /work-evil is never a child of /work.
//
// An empty or "." request resolves to the root itself. Paths that do not
// exist yet are still validated, so write operations can create new files.
func (w *Workspace) Resolve(requested string) (string, error) {
	joined := filepath.Join(w.root, requested)

	canonical, err := canonicalize(joined)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if !contains(w.root, canonical) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, requested)
	}

	return canonical, nil
}

// canonicalize resolves symlinks for the deepest existing ancestor of path
// and reattaches the non-existing remainder, so new-file paths canonicalize
// without requiring the leaf to exist.
func canonicalize(path string) (string, error) {
	var suffix string
	p := filepath.Clean(path)

	for {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(resolved, suffix), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(p)
		if parent == p {
			// Walked up to the filesystem root without finding anything.
			return "", err
		}
		suffix = filepath.Join(filepath.Base(p), suffix)
		p = parent
	}
}

// contains reports whether path equals root or lies beneath it, comparing on
// segment boundaries.
func contains(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/resthub/internal/shared/errs"
)

// Path security errors
var (
	ErrEmptyPath     = errors.New("empty path")
	ErrAbsolutePath  = errors.New("absolute path not allowed")
	ErrPathTraversal = errors.New("path traversal detected")
	ErrSymlinkEscape = errors.New("symlink escape detected")
)

// InvalidFilename is the client-facing message for every rejection.
const InvalidFilename = "Invalid filename"

// Option configures a Guard.
type Option func(*Guard)

// FollowSymlinks makes Resolve re-check containment after resolving
// symlinks on the existing part of the path.
func FollowSymlinks(enabled bool) Option {
	return func(g *Guard) {
		g.followSymlinks = enabled
	}
}

// Guard resolves filenames inside a fixed base directory.
type Guard struct {
	base           string
	followSymlinks bool
}

// NewGuard creates a guard rooted at baseDir. The base is made absolute and
// cleaned once so every comparison uses the same canonical form.
func NewGuard(baseDir string, opts ...Option) (*Guard, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory: %w", ErrEmptyPath)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory %s: %w", baseDir, err)
	}

	g := &Guard{base: filepath.Clean(abs)}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Base returns the canonical base directory.
func (g *Guard) Base() string {
	return g.base
}

// Resolve returns the absolute path of name inside the base directory.
func (g *Guard) Resolve(name string) (string, error) {
	if name == "" {
		return "", reject(name, ErrEmptyPath)
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", reject(name, ErrAbsolutePath)
	}

	resolved := filepath.Clean(filepath.Join(g.base, name))
	if !IsWithin(resolved, g.base) {
		return "", reject(name, ErrPathTraversal)
	}

	if g.followSymlinks {
		if err := g.checkSymlinks(resolved); err != nil {
			return "", reject(name, err)
		}
	}

	return resolved, nil
}

// Resolve is a one-shot form of Guard.Resolve.
func Resolve(baseDir, name string) (string, error) {
	g, err := NewGuard(baseDir)
	if err != nil {
		return "", errs.Fault("paths.resolve", "Invalid base directory", err)
	}
	return g.Resolve(name)
}

// IsWithin reports whether path lies strictly inside base. Both must be
// absolute and cleaned; base itself is not inside base.
func IsWithin(path, base string) bool {
	if path == base {
		return false
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(path, prefix)
}

// checkSymlinks resolves links on the longest existing ancestor of path and
// requires the real location to stay under the real base.
func (g *Guard) checkSymlinks(path string) error {
	realBase, err := realPathOrAbs(g.base)
	if err != nil {
		return err
	}

	existing, rest := path, ""
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return nil
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}

	realExisting, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSymlinkEscape, err)
	}
	realPath := filepath.Join(realExisting, rest)
	if !IsWithin(realPath, realBase) {
		return ErrSymlinkEscape
	}
	return nil
}

func realPathOrAbs(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	return filepath.Abs(path)
}

func reject(name string, cause error) error {
	return errs.Invalid("paths.resolve", InvalidFilename, fmt.Errorf("%q: %w", name, cause))
}

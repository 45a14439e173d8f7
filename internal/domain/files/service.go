package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"

	"github.com/GriffinCanCode/resthub/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/resthub/internal/shared/errs"
	"github.com/GriffinCanCode/resthub/internal/shared/paths"
)

// DefaultContent is written by Create.
const DefaultContent = "New file"

// Client-facing messages
const (
	MsgNotFound      = "File not found"
	MsgAlreadyExists = "File already exists"
	MsgInvalidGlob   = "Invalid pattern"
	MsgListFailed    = "Error listing files"
	MsgReadFailed    = "Error reading file"
	MsgCreateFailed  = "Error creating file"
	MsgWriteFailed   = "Error writing file"
	MsgDeleteFailed  = "Error deleting file"
)

const filePerm = 0o644

// Info describes one file.
type Info struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	MimeType string    `json:"mime_type"`
}

// Service performs file operations confined to a guard's base directory
type Service struct {
	guard          *paths.Guard
	defaultContent []byte
	metrics        *monitoring.Metrics
}

// NewService creates a file service rooted at the guard's base directory
func NewService(guard *paths.Guard) *Service {
	return &Service{
		guard:          guard,
		defaultContent: []byte(DefaultContent),
	}
}

// WithDefaultContent overrides the content written by Create
func (s *Service) WithDefaultContent(content string) *Service {
	s.defaultContent = []byte(content)
	return s
}

// WithMetrics adds operation metrics to the service
func (s *Service) WithMetrics(metrics *monitoring.Metrics) *Service {
	s.metrics = metrics
	return s
}

// BaseDir returns the directory all operations are confined to
func (s *Service) BaseDir() string {
	return s.guard.Base()
}

// List returns the names of regular files directly in the base directory,
// sorted lexicographically. A non-empty pattern filters names with
// doublestar glob syntax.
func (s *Service) List(ctx context.Context, pattern string) (names []string, err error) {
	timer := monitoring.NewTimer(s.metrics, "file", "list")
	defer func() { timer.Stop(monitoring.Outcome(err)) }()

	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, errs.Invalid("files.list", MsgInvalidGlob, fmt.Errorf("pattern %q", pattern))
	}

	entries, err := os.ReadDir(s.guard.Base())
	if err != nil {
		return nil, errs.Fault("files.list", MsgListFailed, err)
	}

	names = make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errs.Fault("files.list", MsgListFailed, err)
		}
		if !s.isRegular(entry) {
			continue
		}
		if pattern != "" {
			ok, _ := doublestar.Match(pattern, entry.Name())
			if !ok {
				continue
			}
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

// Get returns the full content of name
func (s *Service) Get(ctx context.Context, name string) (content []byte, err error) {
	timer := monitoring.NewTimer(s.metrics, "file", "get")
	defer func() { timer.Stop(monitoring.Outcome(err)) }()

	path, _, err := s.existing("files.get", name)
	if err != nil {
		return nil, err
	}

	content, err = os.ReadFile(path)
	if err != nil {
		if notExist(err) {
			return nil, errs.Missing("files.get", MsgNotFound)
		}
		return nil, errs.Fault("files.get", MsgReadFailed, err)
	}
	return content, nil
}

// Create writes the default content to a new file. An existing entry is
// never modified.
func (s *Service) Create(ctx context.Context, name string) (err error) {
	timer := monitoring.NewTimer(s.metrics, "file", "create")
	defer func() { timer.Stop(monitoring.Outcome(err)) }()

	path, err := s.guard.Resolve(name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return errs.Exists("files.create", MsgAlreadyExists)
		}
		return errs.Fault("files.create", MsgCreateFailed, err)
	}

	if _, err := f.Write(s.defaultContent); err != nil {
		f.Close()
		return errs.Fault("files.create", MsgCreateFailed, err)
	}
	if err := f.Close(); err != nil {
		return errs.Fault("files.create", MsgCreateFailed, err)
	}
	return nil
}

// Update replaces the content of an existing file
func (s *Service) Update(ctx context.Context, name string, content []byte) (err error) {
	timer := monitoring.NewTimer(s.metrics, "file", "update")
	defer func() { timer.Stop(monitoring.Outcome(err)) }()

	path, _, err := s.existing("files.update", name)
	if err != nil {
		return err
	}

	// O_CREATE is left out so a concurrent delete surfaces as not found
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		if notExist(err) {
			return errs.Missing("files.update", MsgNotFound)
		}
		return errs.Fault("files.update", MsgWriteFailed, err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return errs.Fault("files.update", MsgWriteFailed, err)
	}
	if err := f.Close(); err != nil {
		return errs.Fault("files.update", MsgWriteFailed, err)
	}
	return nil
}

// Check reports whether name is a valid filename naming an existing regular
// file, with the same errors Update would return.
func (s *Service) Check(ctx context.Context, name string) error {
	_, _, err := s.existing("files.check", name)
	return err
}

// Delete removes an existing file
func (s *Service) Delete(ctx context.Context, name string) (err error) {
	timer := monitoring.NewTimer(s.metrics, "file", "delete")
	defer func() { timer.Stop(monitoring.Outcome(err)) }()

	path, _, err := s.existing("files.delete", name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if notExist(err) {
			return errs.Missing("files.delete", MsgNotFound)
		}
		return errs.Fault("files.delete", MsgDeleteFailed, err)
	}
	return nil
}

// Stat returns size, modification time and detected MIME type of name
func (s *Service) Stat(ctx context.Context, name string) (info *Info, err error) {
	timer := monitoring.NewTimer(s.metrics, "file", "stat")
	defer func() { timer.Stop(monitoring.Outcome(err)) }()

	path, fi, err := s.existing("files.stat", name)
	if err != nil {
		return nil, err
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errs.Fault("files.stat", MsgReadFailed, err)
	}

	return &Info{
		Name:     filepath.Base(path),
		Size:     fi.Size(),
		Modified: fi.ModTime().UTC(),
		MimeType: mtype.String(),
	}, nil
}

// existing resolves name and requires it to be a regular file
func (s *Service) existing(op, name string) (string, fs.FileInfo, error) {
	path, err := s.guard.Resolve(name)
	if err != nil {
		return "", nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		if notExist(err) {
			return "", nil, errs.Missing(op, MsgNotFound)
		}
		return "", nil, errs.Fault(op, MsgReadFailed, err)
	}
	if !fi.Mode().IsRegular() {
		return "", nil, errs.Missing(op, MsgNotFound)
	}
	return path, fi, nil
}

// isRegular follows symlinks so a link to a regular file is listed
func (s *Service) isRegular(entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(s.guard.Base(), entry.Name()))
	return err == nil && fi.Mode().IsRegular()
}

// notExist also treats a file used as a directory component as missing
func notExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

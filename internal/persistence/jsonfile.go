package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/resthub/internal/domain/users"
)

// fileState is the on-disk document
type fileState struct {
	NextID int          `json:"next_id"`
	Users  []users.User `json:"users"`
}

// FileRepository keeps users in memory and rewrites a JSON file after every
// mutation. A failed write rolls the mutation back.
type FileRepository struct {
	path  string
	state *MemoryRepository
}

// NewFileRepository loads path, or starts empty when it does not exist
func NewFileRepository(path string) (*FileRepository, error) {
	r := &FileRepository{path: path, state: NewMemoryRepository()}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file %s: %w", path, err)
	}
	if len(data) == 0 {
		return r, nil
	}

	var doc fileState
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", path, err)
	}
	for _, u := range doc.Users {
		if u.ID <= 0 {
			return nil, fmt.Errorf("parse users file %s: invalid id %d", path, u.ID)
		}
		r.state.put(u)
	}
	if doc.NextID > r.state.nextID {
		r.state.nextID = doc.NextID
	}
	return r, nil
}

// Path returns the backing file
func (r *FileRepository) Path() string {
	return r.path
}

// FindAll returns users ordered by id
func (r *FileRepository) FindAll(ctx context.Context) ([]users.User, error) {
	return r.state.FindAll(ctx)
}

// FindByID returns the user with id
func (r *FileRepository) FindByID(ctx context.Context, id int) (users.User, error) {
	return r.state.FindByID(ctx, id)
}

// Save inserts or replaces u and persists the result
func (r *FileRepository) Save(ctx context.Context, u users.User) (users.User, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	prev, existed := r.state.users[u.ID]
	prevNext := r.state.nextID

	saved := r.state.put(u)
	if err := r.persist(); err != nil {
		if existed {
			r.state.users[saved.ID] = prev
		} else {
			delete(r.state.users, saved.ID)
		}
		r.state.nextID = prevNext
		return users.User{}, err
	}
	return saved, nil
}

// Delete removes u and persists the result
func (r *FileRepository) Delete(ctx context.Context, u users.User) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	prev, ok := r.state.users[u.ID]
	if !ok {
		return users.ErrNotFound
	}
	delete(r.state.users, u.ID)

	if err := r.persist(); err != nil {
		r.state.users[u.ID] = prev
		return err
	}
	return nil
}

// persist writes a temp file next to the target and renames it into place.
// Caller holds state.mu.
func (r *FileRepository) persist() error {
	data, err := sonic.Marshal(fileState{NextID: r.state.nextID, Users: r.state.sorted()})
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create users directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".users-pending-")
	if err != nil {
		return fmt.Errorf("create temp users file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace users file: %w", err)
	}
	return nil
}

package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/GriffinCanCode/resthub/internal/domain/users"
)

// MemoryRepository keeps users in a map
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[int]users.User // Protected by mu
	nextID int                // Protected by mu
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:  make(map[int]users.User),
		nextID: 1,
	}
}

// FindAll returns users ordered by id
func (r *MemoryRepository) FindAll(ctx context.Context) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(), nil
}

// FindByID returns the user with id
func (r *MemoryRepository) FindByID(ctx context.Context, id int) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

// Save inserts or replaces u
func (r *MemoryRepository) Save(ctx context.Context, u users.User) (users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.put(u), nil
}

// Delete removes u
func (r *MemoryRepository) Delete(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return users.ErrNotFound
	}
	delete(r.users, u.ID)
	return nil
}

// put assigns an id when needed and stores u. Caller holds mu.
func (r *MemoryRepository) put(u users.User) users.User {
	if u.ID == 0 {
		u.ID = r.nextID
	}
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = u
	return u
}

// sorted returns a copy of all users ordered by id. Caller holds mu.
func (r *MemoryRepository) sorted() []users.User {
	list := make([]users.User, 0, len(r.users))
	for _, u := range r.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/resthub/internal/shared/errs"
)

// MockRepository is a mock implementation of Repository for testing.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindAll(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, u User) (User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, u User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("returns repository users", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindAll", ctx).Return([]User{{ID: 1, Name: "ada"}}, nil).Once()

		list, err := NewService(repo).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []User{{ID: 1, Name: "ada"}}, list)
		repo.AssertExpectations(t)
	})

	t.Run("nil becomes empty slice", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindAll", ctx).Return(nil, nil).Once()

		list, err := NewService(repo).List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindAll", ctx).Return(nil, errors.New("connection refused")).Once()

		_, err := NewService(repo).List(ctx)
		assert.Equal(t, errs.Internal, errs.KindOf(err))
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("FindByID", ctx, 1).Return(User{ID: 1, Name: "ada"}, nil)
	repo.On("FindByID", ctx, 2).Return(User{}, ErrNotFound)
	svc := NewService(repo)

	u, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Name)

	_, err = svc.Get(ctx, 2)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	// Non-positive ids never reach the repository
	_, err = svc.Get(ctx, 0)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
	repo.AssertNotCalled(t, "FindByID", ctx, 0)
}

func TestCreateClearsID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("Save", ctx, User{Name: "ada", Email: "ada@example.com"}).
		Return(User{ID: 7, Name: "ada", Email: "ada@example.com"}, nil).Once()

	u, err := NewService(repo).Create(ctx, User{ID: 99, Name: "ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 7, u.ID)
	repo.AssertExpectations(t)
}

func TestUpdateCopiesOnlyNameAndEmail(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("FindByID", ctx, 3).Return(User{ID: 3, Name: "old", Email: "old@example.com"}, nil).Once()
	repo.On("Save", ctx, User{ID: 3, Name: "new", Email: "new@example.com"}).
		Return(User{ID: 3, Name: "new", Email: "new@example.com"}, nil).Once()

	u, err := NewService(repo).Update(ctx, 3, User{ID: 42, Name: "new", Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, User{ID: 3, Name: "new", Email: "new@example.com"}, u)
	repo.AssertExpectations(t)
}

func TestUpdateMissing(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("FindByID", ctx, 5).Return(User{}, ErrNotFound).Once()

	_, err := NewService(repo).Update(ctx, 5, User{Name: "x"})
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("existing", func(t *testing.T) {
		repo := new(MockRepository)
		stored := User{ID: 4, Name: "ada"}
		repo.On("FindByID", ctx, 4).Return(stored, nil).Once()
		repo.On("Delete", ctx, stored).Return(nil).Once()

		require.NoError(t, NewService(repo).Delete(ctx, 4))
		repo.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, 4).Return(User{}, ErrNotFound).Once()

		err := NewService(repo).Delete(ctx, 4)
		assert.Equal(t, errs.NotFound, errs.KindOf(err))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(MockRepository)
		stored := User{ID: 4}
		repo.On("FindByID", ctx, 4).Return(stored, nil).Once()
		repo.On("Delete", ctx, stored).Return(errors.New("timeout")).Once()

		err := NewService(repo).Delete(ctx, 4)
		assert.Equal(t, errs.Internal, errs.KindOf(err))
	})
}

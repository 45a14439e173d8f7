package users

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/resthub/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/resthub/internal/shared/errs"
)

// Client-facing messages
const (
	MsgNotFound     = "User not found"
	MsgStoreFailure = "Error accessing user store"
)

// Service exposes CRUD over a Repository
type Service struct {
	repo    Repository
	metrics *monitoring.Metrics
}

// NewService creates a user service backed by repo
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithMetrics adds operation metrics to the service
func (s *Service) WithMetrics(metrics *monitoring.Metrics) *Service {
	s.metrics = metrics
	return s
}

// List returns every stored user
func (s *Service) List(ctx context.Context) (list []User, err error) {
	timer := monitoring.NewTimer(s.metrics, "user", "list")
	defer func() { timer.Stop(monitoring.Outcome(err)) }()

	list, err = s.repo.FindAll(ctx)
	if err != nil {
		return nil, errs.Fault("users.list", MsgStoreFailure, err)
	}
	if list == nil {
		list = []User{}
	}
	return list, nil
}

// Get returns the user with id
func (s *Service) Get(ctx context.Context, id int) (u User, err error) {
	timer := monitoring.NewTimer(s.metrics, "user", "get")
	defer func() { timer.Stop(monitoring.Outcome(err)) }()

	return s.find(ctx, "users.get", id)
}

// Create stores a new user. Any id on the input is ignored.
func (s *Service) Create(ctx context.Context, in User) (u User, err error) {
	timer := monitoring.NewTimer(s.metrics, "user", "create")
	defer func() { timer.Stop(monitoring.Outcome(err)) }()

	in.ID = 0
	u, err = s.repo.Save(ctx, in)
	if err != nil {
		return User{}, errs.Fault("users.create", MsgStoreFailure, err)
	}
	return u, nil
}

// Update copies name and email from in onto the stored user with id
func (s *Service) Update(ctx context.Context, id int, in User) (u User, err error) {
	timer := monitoring.NewTimer(s.metrics, "user", "update")
	defer func() { timer.Stop(monitoring.Outcome(err)) }()

	existing, err := s.find(ctx, "users.update", id)
	if err != nil {
		return User{}, err
	}

	existing.Name = in.Name
	existing.Email = in.Email

	u, err = s.repo.Save(ctx, existing)
	if err != nil {
		return User{}, s.classify("users.update", err)
	}
	return u, nil
}

// Delete removes the user with id
func (s *Service) Delete(ctx context.Context, id int) (err error) {
	timer := monitoring.NewTimer(s.metrics, "user", "delete")
	defer func() { timer.Stop(monitoring.Outcome(err)) }()

	existing, err := s.find(ctx, "users.delete", id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, existing); err != nil {
		return s.classify("users.delete", err)
	}
	return nil
}

func (s *Service) find(ctx context.Context, op string, id int) (User, error) {
	if id <= 0 {
		return User{}, errs.Missing(op, MsgNotFound)
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, s.classify(op, err)
	}
	return u, nil
}

func (s *Service) classify(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return errs.Missing(op, MsgNotFound)
	}
	return errs.Fault(op, MsgStoreFailure, err)
}

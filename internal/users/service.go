package users

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
)

type Store interface {
	Insert(ctx context.Context, name, email string) (int64, error)
	List(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (User, error)
	UpdateTx(ctx context.Context, id int64, name, email string) (User, error)
	DeleteTx(ctx context.Context, id int64) error
}

// Service maps repository outcomes onto the apperr taxonomy.
type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) Create(ctx context.Context, name, email string) (int64, error) {
	id, err := s.store.Insert(ctx, name, email)
	if err != nil {
		return 0, s.translate(err, 0)
	}
	s.log.InfoContext(ctx, "user created", "id", id)
	return id, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	us, err := s.store.List(ctx)
	if err != nil {
		return nil, s.translate(err, 0)
	}
	return us, nil
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return User{}, s.translate(err, id)
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, id int64, name, email string) (User, error) {
	u, err := s.store.UpdateTx(ctx, id, name, email)
	if err != nil {
		return User{}, s.translate(err, id)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteTx(ctx, id); err != nil {
		return s.translate(err, id)
	}
	s.log.InfoContext(ctx, "user deleted", "id", id)
	return nil
}

func (s *Service) translate(err error, id int64) error {
	switch {
	case errors.Is(err, ErrNoRows):
		return apperr.NewNotFound("user not found. id=%d", id)
	case IsConflict(err):
		return apperr.NewConflict("user was modified concurrently or violates a constraint", err)
	default:
		return apperr.NewInternal(err.Error(), err)
	}
}

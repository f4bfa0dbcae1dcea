package products

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
)

type Store interface {
	Save(ctx context.Context, d Doc) error
	FindByID(ctx context.Context, id string) (Doc, error)
	SearchByName(ctx context.Context, name string) ([]Doc, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source; tests use it to pin timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, d Doc) (string, error) {
	if d.Price < 0 {
		return "", apperr.NewBadRequest("price must not be negative")
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.Stamp(s.now())
	if err := s.store.Save(ctx, d); err != nil {
		return "", apperr.NewInternal(err.Error(), err)
	}
	s.log.InfoContext(ctx, "product indexed", "id", d.ID)
	return d.ID, nil
}

func (s *Service) Get(ctx context.Context, id string) (Doc, error) {
	d, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Doc{}, apperr.NewNotFound("product not found. id=%s", id)
	}
	if err != nil {
		return Doc{}, apperr.NewInternal(err.Error(), err)
	}
	return d, nil
}

func (s *Service) SearchByName(ctx context.Context, name string) ([]Doc, error) {
	ds, err := s.store.SearchByName(ctx, name)
	if err != nil {
		return nil, apperr.NewInternal(err.Error(), err)
	}
	return ds, nil
}

// Update is read-modify-write without a version check; concurrent updates
// to the same id can overwrite each other.
func (s *Service) Update(ctx context.Context, id, name string, price float64) (string, error) {
	if price < 0 {
		return "", apperr.NewBadRequest("price must not be negative")
	}
	d, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	d.Touch(name, price, s.now())
	if err := s.store.Save(ctx, d); err != nil {
		return "", apperr.NewInternal(err.Error(), err)
	}
	return d.ID, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return apperr.NewInternal(err.Error(), err)
	}
	return nil
}

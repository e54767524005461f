package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jsphweid/keyquest/constants"
	"github.com/jsphweid/keyquest/model"
)

// Store validates progressions on the way in and out of a Backend and
// bounds every call by Timeout.
type Store struct {
	Backend Backend
	Timeout time.Duration
}

func New(b Backend) *Store {
	return &Store{Backend: b, Timeout: constants.SaveTimeout}
}

// Open builds the backend named by kind, "memory" or "dynamodb".
func Open(kind string) (*Store, error) {
	switch kind {
	case "memory", "":
		return New(NewMemoryBackend()), nil
	case "dynamodb":
		b, err := NewDynamoBackend(constants.GetDynamoEndpoint(), constants.GetDynamoRegion(), constants.GetProgressionsTable())
		if err != nil {
			return nil, err
		}
		return New(b), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", kind)
}

// Create validates and saves a new progression built from req.
func (s *Store) Create(ctx context.Context, req model.ProgressionRequestBody, now time.Time) (model.Progression, error) {
	p := model.NewProgression(req.Name, req.Progression, req.Metadata, now)
	if err := s.Save(ctx, p); err != nil {
		return model.Progression{}, err
	}
	return p, nil
}

func (s *Store) Save(ctx context.Context, p model.Progression) error {
	if err := p.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.check(ctx, "save", s.Backend.Put(ctx, p))
}

func (s *Store) Get(ctx context.Context, id string) (model.Progression, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	p, err := s.Backend.Get(ctx, id)
	if err != nil {
		return model.Progression{}, s.check(ctx, "get", err)
	}
	if err := p.Validate(); err != nil {
		return model.Progression{}, s.check(ctx, "get", errors.Join(ErrCorrupt, err))
	}
	return p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.check(ctx, "delete", s.Backend.Delete(ctx, id))
}

// List returns every progression ordered by index.
func (s *Store) List(ctx context.Context, index Index, dir Direction) ([]model.Progression, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	ps, err := s.Backend.ScanBy(ctx, index, dir)
	if err != nil {
		return nil, s.check(ctx, "scan", err)
	}
	for _, p := range ps {
		if err := p.Validate(); err != nil {
			return nil, s.check(ctx, "scan", errors.Join(ErrCorrupt, fmt.Errorf("item %s: %w", p.ID, err)))
		}
	}
	return ps, nil
}

// check maps a backend failure onto the storage error kinds and logs it.
func (s *Store) check(ctx context.Context, op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		err = fmt.Errorf("%s: %w after %s", op, ErrTimeout, s.Timeout)
	case errors.Is(err, ErrCorrupt), errors.Is(err, ErrUnavailable):
		err = fmt.Errorf("%s: %w", op, err)
	default:
		err = fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
	}
	log.FromContext(ctx).Warn("store", "op", op, "err", err)
	return err
}

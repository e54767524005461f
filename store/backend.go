package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/keyquest/model"
)

var (
	ErrNotFound    = errors.New("progression not found")
	ErrUnavailable = errors.New("storage unavailable")
	ErrTimeout     = errors.New("storage timeout")
	ErrCorrupt     = errors.New("storage corrupt")
)

type Index string

const (
	ByCreatedAt Index = "createdAt"
	ByName      Index = "name"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func ParseIndex(s string) (Index, error) {
	switch Index(s) {
	case ByCreatedAt, "":
		return ByCreatedAt, nil
	case ByName:
		return ByName, nil
	}
	return "", fmt.Errorf("unknown index %q", s)
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "asc", "ascending", "":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Backend is a key-value object store for saved progressions.
type Backend interface {
	Put(ctx context.Context, p model.Progression) error
	Get(ctx context.Context, id string) (model.Progression, error)
	Delete(ctx context.Context, id string) error
	ScanBy(ctx context.Context, index Index, dir Direction) ([]model.Progression, error)
}

// sortBy orders ps in place. Ties fall back to id so scans are stable.
func sortBy(ps []model.Progression, index Index, dir Direction) {
	less := func(a, b model.Progression) bool {
		switch index {
		case ByName:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		default:
			if a.CreatedAt != b.CreatedAt {
				return a.CreatedAt < b.CreatedAt
			}
		}
		return a.ID < b.ID
	}
	sort.SliceStable(ps, func(i, j int) bool {
		if dir == Descending {
			return less(ps[j], ps[i])
		}
		return less(ps[i], ps[j])
	})
}

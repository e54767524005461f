package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jsphweid/keyquest/constants"
	"github.com/jsphweid/keyquest/pitch"
	"github.com/jsphweid/keyquest/progression"
	"github.com/jsphweid/keyquest/scale"
)

var (
	ErrInvalid          = errors.New("invalid progression")
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// Metadata is the key a saved progression was written in. Both fields are
// required when it is present.
type Metadata struct {
	Key       string `json:"key"`
	ScaleType string `json:"scaleType"`
}

// Progression is the persisted form of a user-saved progression.
type Progression struct {
	Version     string    `json:"version"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Progression string    `json:"progression"`
	CreatedAt   int64     `json:"createdAt"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// NewProgression stamps a fresh id and creation time. A flat metadata key
// is respelled with sharps.
func NewProgression(name, text string, meta *Metadata, now time.Time) Progression {
	if meta != nil {
		m := *meta
		if pc := pitch.Parse(m.Key); pc.Valid() {
			m.Key = pc.String()
		}
		meta = &m
	}
	return Progression{
		Version:     constants.ProgressionVersion,
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Progression: strings.TrimSpace(text),
		CreatedAt:   now.UnixMilli(),
		Metadata:    meta,
	}
}

// Validate reports every schema violation at once.
func (p Progression) Validate() error {
	var errs []error
	if p.Version != constants.ProgressionVersion {
		errs = append(errs, fmt.Errorf("%w: version %q", ErrInvalid, p.Version))
	}
	if !idPattern.MatchString(p.ID) {
		errs = append(errs, fmt.Errorf("%w: id %q is not a v4 uuid", ErrInvalid, p.ID))
	}
	switch n := utf8.RuneCountInString(p.Name); {
	case n == 0:
		errs = append(errs, fmt.Errorf("%w: name is empty", ErrInvalid))
	case n > constants.MaxProgressionName:
		errs = append(errs, fmt.Errorf("%w: name is %d characters, limit %d", ErrCapacityExceeded, n, constants.MaxProgressionName))
	}
	if len(progression.Tokenize(p.Progression)) == 0 {
		errs = append(errs, fmt.Errorf("%w: progression is empty", ErrCapacityExceeded))
	}
	if p.CreatedAt <= 0 {
		errs = append(errs, fmt.Errorf("%w: createdAt %d", ErrInvalid, p.CreatedAt))
	}
	if p.Metadata != nil {
		if err := p.Metadata.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Metadata) Validate() error {
	var errs []error
	if pc := pitch.Parse(m.Key); !pc.Valid() || pc.String() != m.Key {
		errs = append(errs, fmt.Errorf("%w: metadata key %q", ErrInvalid, m.Key))
	}
	if kind, ok := scale.ParseKind(m.ScaleType); !ok || kind.ID() != m.ScaleType {
		errs = append(errs, fmt.Errorf("%w: metadata scaleType %q", ErrInvalid, m.ScaleType))
	}
	return errors.Join(errs...)
}

// Key is the parse context recorded with the progression. Without metadata
// it is C major.
func (p Progression) Key() progression.Key {
	key := progression.Key{Root: 0, Scale: scale.Major}
	if p.Metadata == nil {
		return key
	}
	if pc := pitch.Parse(p.Metadata.Key); pc.Valid() {
		key.Root = pc
	}
	if kind, ok := scale.ParseKind(p.Metadata.ScaleType); ok {
		key.Scale = kind
	}
	return key
}

// Chords resolves the stored text in its own key.
func (p Progression) Chords() ([]progression.Element, error) {
	return progression.Parse(p.Progression, p.Key())
}

func (p Progression) Created() time.Time {
	return time.UnixMilli(p.CreatedAt)
}

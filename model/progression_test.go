package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/progression"
)

var now = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func TestNewProgressionIsValid(t *testing.T) {
	assert := assert.New(t)
	p := NewProgression("  Pop  ", "vi IV | I V", &Metadata{Key: "Eb", ScaleType: "major"}, now)
	assert.NoError(p.Validate())
	assert.Equal("1.0.0", p.Version)
	assert.Equal("Pop", p.Name)
	assert.Equal("D#", p.Metadata.Key)
	assert.Equal(now.UnixMilli(), p.CreatedAt)
	assert.True(idPattern.MatchString(p.ID))
	assert.Equal(now, p.Created())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	p := Progression{Version: "0.9", ID: "nope", Name: "", Progression: " | ", CreatedAt: 0}
	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	for _, part := range []string{"version", "uuid", "name is empty", "progression is empty", "createdAt"} {
		assert.Contains(t, err.Error(), part)
	}
}

func TestValidateNameLength(t *testing.T) {
	p := NewProgression(strings.Repeat("é", 100), "I", nil, now)
	assert.NoError(t, p.Validate())

	p.Name = strings.Repeat("a", 101)
	err := p.Validate()
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestValidateMetadata(t *testing.T) {
	for _, meta := range []Metadata{
		{Key: "", ScaleType: "major"},
		{Key: "C", ScaleType: ""},
		{Key: "Bb", ScaleType: "major"},
		{Key: "C", ScaleType: "Natural Minor"},
	} {
		p := NewProgression("x", "I", nil, now)
		p.Metadata = &meta
		assert.ErrorIs(t, p.Validate(), ErrInvalid, meta)
	}
}

func TestValidateRejectsNonV4(t *testing.T) {
	p := NewProgression("x", "I", nil, now)
	p.ID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	assert.ErrorIs(t, p.Validate(), ErrInvalid)
	p.ID = strings.ToUpper(NewProgression("x", "I", nil, now).ID)
	assert.ErrorIs(t, p.Validate(), ErrInvalid)
}

func TestChordsUseMetadataKey(t *testing.T) {
	p := NewProgression("minor", "i iv V7", &Metadata{Key: "A", ScaleType: "harmonic_minor"}, now)
	elements, err := p.Chords()
	require.NoError(t, err)
	names := []string{}
	for _, c := range progression.Chords(elements) {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"A Minor", "D Minor", "E Dominant 7"}, names)

	p.Metadata = nil
	elements, err = p.Chords()
	require.NoError(t, err)
	assert.Equal(t, chord.New(0, chord.Minor), elements[0].Chord)
}

func TestProgressionJSON(t *testing.T) {
	p := NewProgression("Blues", "I7 IV7 I7 V7", nil, now)
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "metadata")
	assert.Contains(t, string(b), `"createdAt":`)

	var back Progression
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, p, back)

	b, _ = json.Marshal(ErrorResponse{Error: "boom"})
	assert.JSONEq(t, `{"detail":"boom"}`, string(b))
}

package model

import (
	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/exercise"
	"github.com/jsphweid/keyquest/pitch"
	"github.com/jsphweid/keyquest/progression"
)

type IdentifyRequestBody struct {
	Notes []int `json:"notes"`
}

type IdentifyResult struct {
	Chord       *chord.Token       `json:"chord"`
	Name        string             `json:"name,omitempty"`
	Symbol      string             `json:"symbol,omitempty"`
	All         []chord.Token      `json:"all"`
	Suggestions []chord.Suggestion `json:"suggestions"`
}

type ParseRequestBody struct {
	Progression string `json:"progression"`
	Key         string `json:"key"`
	Scale       string `json:"scale"`
}

// ParseResult carries either chords or the first error, never both.
type ParseResult struct {
	Chords []progression.Element `json:"chords"`
	Error  *string               `json:"error"`
}

type ScaleResult struct {
	Key   pitch.Class   `json:"key"`
	Scale string        `json:"scale"`
	Notes []pitch.Class `json:"notes"`
	Run   []pitch.Class `json:"run"`
}

type VoicingResult struct {
	Chord  chord.Token `json:"chord"`
	Symbol string      `json:"symbol"`
	Notes  []int       `json:"notes"`
	Names  []string    `json:"names"`
}

type ExerciseResult struct {
	exercise.Exercise
	Keys     []pitch.Class      `json:"keys"`
	Sequence *exercise.Sequence `json:"sequence,omitempty"`
}

type ProgressionRequestBody struct {
	Name        string    `json:"name"`
	Progression string    `json:"progression"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/keyquest/model"
)

var now = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func TestCreateGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	p, err := s.Create(ctx, model.ProgressionRequestBody{Name: "Axis", Progression: "I V vi IV"}, now)
	require.NoError(t, err)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	require.NoError(t, s.Delete(ctx, p.ID))
	_, err = s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, p.ID), ErrNotFound)
}

func TestSaveRejectsInvalid(t *testing.T) {
	b := NewMemoryBackend()
	s := New(b)
	_, err := s.Create(context.Background(), model.ProgressionRequestBody{Name: "empty", Progression: "  "}, now)
	assert.ErrorIs(t, err, model.ErrCapacityExceeded)
	assert.Empty(t, b.docs)
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())
	for i, name := range []string{"Charlie", "Alpha", "Bravo"} {
		_, err := s.Create(ctx, model.ProgressionRequestBody{Name: name, Progression: "I"}, now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	names := func(ps []model.Progression) []string {
		var res []string
		for _, p := range ps {
			res = append(res, p.Name)
		}
		return res
	}

	ps, err := s.List(ctx, ByCreatedAt, Ascending)
	require.NoError(t, err)
	assert.Equal(t, []string{"Charlie", "Alpha", "Bravo"}, names(ps))

	ps, err = s.List(ctx, ByCreatedAt, Descending)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bravo", "Alpha", "Charlie"}, names(ps))

	ps, err = s.List(ctx, ByName, Ascending)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, names(ps))
}

func TestCorruptReads(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	s := New(b)

	b.docs["broken"] = []byte("{not json")
	_, err := s.Get(ctx, "broken")
	assert.ErrorIs(t, err, ErrCorrupt)

	b.docs["invalid"] = []byte(`{"version":"1.0.0","id":"invalid","name":"x","progression":"I","createdAt":1}`)
	_, err = s.Get(ctx, "invalid")
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.ErrorIs(t, err, model.ErrInvalid)

	delete(b.docs, "broken")
	_, err = s.List(ctx, ByName, Ascending)
	assert.ErrorIs(t, err, ErrCorrupt)
}

type slowBackend struct {
	*MemoryBackend
}

func (b slowBackend) Put(ctx context.Context, p model.Progression) error {
	<-ctx.Done()
	return ctx.Err()
}

type brokenBackend struct {
	*MemoryBackend
}

func (b brokenBackend) Get(ctx context.Context, id string) (model.Progression, error) {
	return model.Progression{}, errors.New("connection refused")
}

func TestSaveTimeout(t *testing.T) {
	s := New(slowBackend{NewMemoryBackend()})
	s.Timeout = 10 * time.Millisecond
	p := model.NewProgression("slow", "I IV", nil, now)
	err := s.Save(context.Background(), p)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "slow", p.Name)
}

func TestUnavailable(t *testing.T) {
	s := New(brokenBackend{NewMemoryBackend()})
	_, err := s.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestParseIndexAndDirection(t *testing.T) {
	i, err := ParseIndex("name")
	assert.NoError(t, err)
	assert.Equal(t, ByName, i)
	i, _ = ParseIndex("")
	assert.Equal(t, ByCreatedAt, i)
	_, err = ParseIndex("title")
	assert.Error(t, err)

	d, err := ParseDirection("DESC")
	assert.NoError(t, err)
	assert.Equal(t, Descending, d)
	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := Open("memory")
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, s.Backend)
	_, err = Open("postgres")
	assert.Error(t, err)
}

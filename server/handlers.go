package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/exercise"
	"github.com/jsphweid/keyquest/model"
	"github.com/jsphweid/keyquest/pitch"
	"github.com/jsphweid/keyquest/progression"
	"github.com/jsphweid/keyquest/scale"
	"github.com/jsphweid/keyquest/store"
)

func (s *Server) HandleIdentify(w http.ResponseWriter, r *http.Request) {
	var input model.IdentifyRequestBody
	if err := decodeBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res := model.IdentifyResult{
		Chord:       chord.Identify(input.Notes),
		All:         chord.IdentifyAll(input.Notes),
		Suggestions: chord.Suggest(input.Notes),
	}
	if res.All == nil {
		res.All = []chord.Token{}
	}
	if res.Suggestions == nil {
		res.Suggestions = []chord.Suggestion{}
	}
	if res.Chord != nil {
		res.Name = res.Chord.Name()
		res.Symbol = res.Chord.Symbol()
	}
	writeJSON(w, http.StatusOK, res)
}

// parseKey reads a key name and scale id, defaulting to C major.
func parseKey(name, kind string) (progression.Key, error) {
	key := progression.Key{Root: 0, Scale: scale.Major}
	if name != "" {
		key.Root = pitch.Parse(name)
		if !key.Root.Valid() {
			return key, &pitch.UnknownNameError{Name: name}
		}
	}
	if kind != "" {
		k, ok := scale.ParseKind(kind)
		if !ok {
			return key, &scale.UnknownKindError{Text: kind}
		}
		key.Scale = k
	}
	return key, nil
}

func (s *Server) HandleParse(w http.ResponseWriter, r *http.Request) {
	var input model.ParseRequestBody
	if err := decodeBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	key, err := parseKey(input.Key, input.Scale)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res := model.ParseResult{Chords: []progression.Element{}}
	elements, err := progression.Parse(input.Progression, key)
	if err != nil {
		msg := err.Error()
		res.Error = &msg
	} else {
		res.Chords = elements
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) HandleScale(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key, err := parseKey(vars["key"], vars["kind"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ScaleResult{
		Key:   key.Root,
		Scale: key.Scale.ID(),
		Notes: scale.Notes(key.Root, key.Scale),
		Run:   scale.Run(key.Root, key.Scale),
	})
}

func (s *Server) HandleVoice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token, err := progression.ParseChord(q.Get("symbol"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	octave := 4
	if v := q.Get("octave"); v != "" {
		octave, err = strconv.Atoi(v)
		if err != nil || octave < 0 || octave > 8 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("octave must be 0..8, got %q", v))
			return
		}
	}
	if v := q.Get("inversion"); v != "" {
		inv, err := strconv.Atoi(v)
		if err != nil || inv < 0 || inv >= token.Kind.Size() {
			writeError(w, http.StatusBadRequest, fmt.Errorf("inversion must be 0..%d, got %q", token.Kind.Size()-1, v))
			return
		}
		token.Inversion = inv
		token.Bass = nil
	}
	notes := token.Voicing(octave)
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = pitch.NoteName(n)
	}
	writeJSON(w, http.StatusOK, model.VoicingResult{Chord: token, Symbol: token.Symbol(), Notes: notes, Names: names})
}

func (s *Server) HandleExercises(w http.ResponseWriter, r *http.Request) {
	res := []model.ExerciseResult{}
	for _, e := range exercise.All() {
		e = e.Configure(r.URL.Query())
		res = append(res, model.ExerciseResult{Exercise: e, Keys: e.Keys()})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) HandleExercise(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	e, ok := exercise.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no exercise %q", id))
		return
	}
	e = e.Configure(r.URL.Query())
	seq, err := e.MakeSequence(e.KeyAt(0))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ExerciseResult{Exercise: e, Keys: e.Keys(), Sequence: &seq})
}

func (s *Server) HandleListProgressions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	index, err := store.ParseIndex(q.Get("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	dir, err := store.ParseDirection(q.Get("direction"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ps, err := s.store.List(r.Context(), index, dir)
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	if ps == nil {
		ps = []model.Progression{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *Server) HandleCreateProgression(w http.ResponseWriter, r *http.Request) {
	var input model.ProgressionRequestBody
	if err := decodeBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	key := progression.Key{Root: 0, Scale: scale.Major}
	if input.Metadata != nil {
		var err error
		if key, err = parseKey(input.Metadata.Key, input.Metadata.ScaleType); err != nil {
			writeError(w, http.StatusBadRequest, errors.Join(model.ErrInvalid, err))
			return
		}
	}
	// empty text is left for the store to reject
	if len(progression.Tokenize(input.Progression)) > 0 {
		if _, err := progression.Parse(input.Progression, key); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	p, err := s.store.Create(r.Context(), input, s.now())
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) HandleGetProgression(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) HandleDeleteProgression(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package exercise

import (
	_ "embed"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsphweid/keyquest/pitch"
	"github.com/jsphweid/keyquest/scale"
	"github.com/jsphweid/keyquest/util"
)

//go:embed library.yaml
var library []byte

type declaration struct {
	ID           string    `yaml:"id"`
	Title        string    `yaml:"title"`
	Mode         Mode      `yaml:"mode"`
	Keys         yaml.Node `yaml:"keys"`
	MaxKeys      int       `yaml:"max_keys"`
	StartKey     string    `yaml:"start_key"`
	Scale        string    `yaml:"scale"`
	Progression  string    `yaml:"progression"`
	Inversions   []int     `yaml:"inversions"`
	PinInversion bool      `yaml:"pin_inversion"`
	Pattern      Pattern   `yaml:"pattern"`
}

var (
	registry = map[string]Exercise{}
	order    []string
)

func init() {
	exercises, err := Load(library)
	if err != nil {
		panic(err)
	}
	for _, e := range exercises {
		registry[e.ID] = e
		order = append(order, e.ID)
	}
}

// Load decodes a YAML list of exercise declarations and checks that every
// one of them generates a sequence for each key it visits.
func Load(data []byte) ([]Exercise, error) {
	var decls []declaration
	if err := yaml.Unmarshal(data, &decls); err != nil {
		return nil, fmt.Errorf("decoding exercises: %w", err)
	}
	seen := map[string]bool{}
	res := make([]Exercise, 0, len(decls))
	for _, d := range decls {
		e, err := d.build()
		if err != nil {
			return nil, err
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("exercise %s: duplicate id", e.ID)
		}
		seen[e.ID] = true
		for _, k := range e.KeyCycle {
			seq, err := e.MakeSequence(k)
			if err != nil {
				return nil, err
			}
			if seq.Len() == 0 {
				return nil, fmt.Errorf("exercise %s: empty sequence in %s", e.ID, k)
			}
		}
		res = append(res, e)
	}
	return res, nil
}

func (d declaration) build() (Exercise, error) {
	if d.ID == "" {
		return Exercise{}, fmt.Errorf("exercise without id")
	}
	kind, ok := scale.ParseKind(d.Scale)
	if !ok {
		return Exercise{}, fmt.Errorf("exercise %s: %w", d.ID, &scale.UnknownKindError{Text: d.Scale})
	}
	cycle, err := parseKeys(d.Keys)
	if err != nil {
		return Exercise{}, fmt.Errorf("exercise %s: %w", d.ID, err)
	}
	e := Exercise{
		ID:           d.ID,
		Title:        d.Title,
		Mode:         d.Mode,
		KeyCycle:     cycle,
		MaxKeys:      d.MaxKeys,
		Scale:        kind,
		PinInversion: d.PinInversion,
		Progression:  d.Progression,
		Inversions:   d.Inversions,
		Pattern:      d.Pattern,
	}
	if d.StartKey != "" {
		e = e.WithStartKey(d.StartKey)
	}
	switch e.Mode {
	case ChordMode:
		if strings.TrimSpace(e.Progression) == "" {
			return Exercise{}, fmt.Errorf("exercise %s: chord exercise without progression", e.ID)
		}
	case ScaleMode:
	default:
		return Exercise{}, fmt.Errorf("exercise %s: unknown mode %q", e.ID, e.Mode)
	}
	return e, nil
}

// parseKeys accepts a named cycle or a list of pitch names.
func parseKeys(n yaml.Node) ([]pitch.Class, error) {
	switch n.Kind {
	case 0:
		return append([]pitch.Class(nil), CircleOfFifths...), nil
	case yaml.ScalarNode:
		switch n.Value {
		case "circle_of_fifths", "":
			return append([]pitch.Class(nil), CircleOfFifths...), nil
		case "chromatic":
			res := make([]pitch.Class, 12)
			for i := range res {
				res[i] = pitch.Class(i)
			}
			return res, nil
		}
		return nil, fmt.Errorf("unknown key cycle %q", n.Value)
	case yaml.SequenceNode:
		var names []string
		if err := n.Decode(&names); err != nil {
			return nil, err
		}
		res := make([]pitch.Class, 0, len(names))
		for _, name := range names {
			pc := pitch.Parse(name)
			if !pc.Valid() {
				return nil, &pitch.UnknownNameError{Name: name}
			}
			res = append(res, pc)
		}
		if len(res) == 0 {
			return nil, fmt.Errorf("empty key cycle")
		}
		return res, nil
	}
	return nil, fmt.Errorf("keys must be a cycle name or a list")
}

// Get looks an exercise up by id.
func Get(id string) (Exercise, bool) {
	e, ok := registry[id]
	return e, ok
}

// All returns every registered exercise in library order.
func All() []Exercise {
	res := make([]Exercise, 0, len(order))
	for _, id := range order {
		res = append(res, registry[id])
	}
	return res
}

// IDs returns the registered ids sorted.
func IDs() []string {
	return util.SortedKeys(registry)
}

// WithStartKey moves the start of the cycle to name when it is one of the
// cycle's keys. Anything else leaves e alone.
func (e Exercise) WithStartKey(name string) Exercise {
	pc := pitch.Parse(name)
	if !pc.Valid() {
		return e
	}
	for i, k := range e.KeyCycle {
		if k == pc {
			e.StartKeyIndex = i
			return e
		}
	}
	return e
}

// WithMaxKeys clamps n to 1..len(KeyCycle).
func (e Exercise) WithMaxKeys(n int) Exercise {
	e.MaxKeys = util.Clamp(n, 1, len(e.KeyCycle))
	return e
}

// Configure applies the startKey and keys query parameters. Unknown or
// unparseable values are ignored.
func (e Exercise) Configure(params url.Values) Exercise {
	if v := params.Get("startKey"); v != "" {
		e = e.WithStartKey(v)
	}
	if v := params.Get("keys"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			e = e.WithMaxKeys(n)
		}
	}
	return e
}

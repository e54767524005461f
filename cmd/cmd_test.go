package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/practice"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestIdentifyCommand(t *testing.T) {
	out, err := run(t, "identify", "57", "60", "64", "67")
	require.NoError(t, err)
	assert.Contains(t, out, "notes: A3 C4 E4 G4")
	assert.Contains(t, out, "chord: A Minor 7 (Am7, root position)")
	assert.Contains(t, out, "also: C Major 6 (C6/A, 3rd inversion)")

	_, err = run(t, "identify", "60", "x")
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "parse", "--key", "C", "--scale", "major", "I bVII bVI V")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "bVII"))
	assert.Contains(t, lines[1], "A# Major")

	_, err = run(t, "parse", "--key", "C", "I Xylo")
	assert.ErrorContains(t, err, "Xylo")
}

func TestExercisesCommand(t *testing.T) {
	out, err := run(t, "exercises")
	require.NoError(t, err)
	assert.Contains(t, out, "triad-shape-shifting")

	out, err = run(t, "exercises", "cof-i-v-i", "--start-key", "G", "--keys", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "G   G Major | D Major | G Major")
	assert.Contains(t, out, "D   D Major | A Major | D Major")
	exercisesStartKey, exercisesKeys = "", 0
}

func TestLoadPracticeConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "practice.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exercise: major-scale-journey\nkeys: 3\nreject_errors: true\n"), 0o644))

	require.NoError(t, practiceCmd.Flags().Set("keys", "5"))
	defer func() {
		practiceCmd.Flags().Lookup("keys").Changed = false
		practiceFlags.Keys = 0
	}()
	cfg, err := loadPracticeConfig(practiceCmd, path)
	require.NoError(t, err)
	assert.Equal(t, "major-scale-journey", cfg.Exercise)
	assert.Equal(t, 5, cfg.Keys)
	assert.True(t, cfg.RejectErrors)

	cfg, err = loadPracticeConfig(practiceCmd, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "cof-i-v-i", cfg.Exercise)
}

func TestConsolePrinterCoalescesDetection(t *testing.T) {
	var out syncBuffer
	p := newConsolePrinter(&out)
	c := chord.New(0, chord.Major)
	p.OnDetected(nil, nil)
	p.OnDetected(&c, []chord.Token{c})
	assert.Eventually(t, func() bool { return strings.Contains(out.String(), "C Major [C]") }, time.Second, 10*time.Millisecond)
	assert.NotContains(t, out.String(), "...")
}

func TestLogSink(t *testing.T) {
	var out bytes.Buffer
	sink := logSink(log.NewWithOptions(&out, log.Options{Level: log.DebugLevel}))
	sink(practice.Message{Type: practice.StepAdvanced, Step: 2, Total: 3})
	sink(practice.Message{Type: practice.Active, Active: []int{60}})
	assert.Contains(t, out.String(), "stepAdvanced")
	assert.Contains(t, out.String(), "step=2")
	assert.NotContains(t, out.String(), "active")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

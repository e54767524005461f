package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
	"gopkg.in/yaml.v3"

	"github.com/jsphweid/keyquest/constants"
	"github.com/jsphweid/keyquest/exercise"
	"github.com/jsphweid/keyquest/input"
	"github.com/jsphweid/keyquest/midi"
	"github.com/jsphweid/keyquest/practice"
	"github.com/jsphweid/keyquest/recording"
)

// practiceConfig is the practice.yaml file. Flags given on the command line
// win over it.
type practiceConfig struct {
	Port         string  `yaml:"port"`
	Exercise     string  `yaml:"exercise"`
	StartKey     string  `yaml:"start_key"`
	Keys         int     `yaml:"keys"`
	RejectErrors bool    `yaml:"reject_errors"`
	File         string  `yaml:"file"`
	Speed        float64 `yaml:"speed"`
	Record       string  `yaml:"record"`
	Quantize     bool    `yaml:"quantize"`
	BPM          float64 `yaml:"bpm"`
}

var (
	practiceConfigPath string
	practiceFlags      = practiceConfig{Exercise: "cof-i-v-i", Speed: 1, BPM: constants.DefaultBPM}
	listPorts          bool
)

func init() {
	f := practiceCmd.Flags()
	f.StringVar(&practiceConfigPath, "config", "practice.yaml", "config file, skipped when missing")
	f.StringVar(&practiceFlags.Port, "port", "", "MIDI input port name (first port when empty)")
	f.StringVar(&practiceFlags.Exercise, "exercise", practiceFlags.Exercise, "exercise id")
	f.StringVar(&practiceFlags.StartKey, "start-key", "", "first key of the cycle")
	f.IntVar(&practiceFlags.Keys, "keys", 0, "number of keys to walk (1-12)")
	f.BoolVar(&practiceFlags.RejectErrors, "reject-errors", false, "start over on a wrong note or chord")
	f.StringVar(&practiceFlags.File, "file", "", "play a MIDI file instead of listening to a device")
	f.Float64Var(&practiceFlags.Speed, "speed", practiceFlags.Speed, "replay speed for --file")
	f.StringVar(&practiceFlags.Record, "record", "", "write the session to PATH.json and PATH.mid")
	f.BoolVar(&practiceFlags.Quantize, "quantize", false, "quantize the recorded MIDI file")
	f.Float64Var(&practiceFlags.BPM, "bpm", practiceFlags.BPM, "tempo of the recorded MIDI file")
	f.BoolVar(&listPorts, "list-ports", false, "list MIDI input ports and exit")
	rootCmd.AddCommand(practiceCmd)
}

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Runs a practice exercise against a MIDI keyboard",
	Long: `Runs a scale or chord progression exercise, reading notes from a MIDI
input port or from a MIDI file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listPorts {
			for _, name := range midi.InPorts() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}
		cfg, err := loadPracticeConfig(cmd, practiceConfigPath)
		if err != nil {
			return err
		}
		logger := newLogger("practice")
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()
		return runPractice(log.WithContext(ctx, logger), cmd, cfg)
	},
}

// loadPracticeConfig reads path when it exists and lays changed flags over it.
func loadPracticeConfig(cmd *cobra.Command, path string) (practiceConfig, error) {
	cfg := practiceFlags
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	flags := cmd.Flags()
	override := map[string]func(){
		"port":          func() { cfg.Port = practiceFlags.Port },
		"exercise":      func() { cfg.Exercise = practiceFlags.Exercise },
		"start-key":     func() { cfg.StartKey = practiceFlags.StartKey },
		"keys":          func() { cfg.Keys = practiceFlags.Keys },
		"reject-errors": func() { cfg.RejectErrors = practiceFlags.RejectErrors },
		"file":          func() { cfg.File = practiceFlags.File },
		"speed":         func() { cfg.Speed = practiceFlags.Speed },
		"record":        func() { cfg.Record = practiceFlags.Record },
		"quantize":      func() { cfg.Quantize = practiceFlags.Quantize },
		"bpm":           func() { cfg.BPM = practiceFlags.BPM },
	}
	for name, apply := range override {
		if flags.Changed(name) {
			apply()
		}
	}
	return cfg, nil
}

func runPractice(ctx context.Context, cmd *cobra.Command, cfg practiceConfig) error {
	logger := log.FromContext(ctx)
	ex, ok := exercise.Get(cfg.Exercise)
	if !ok {
		return fmt.Errorf("no exercise %q", cfg.Exercise)
	}
	ex = ex.Configure(exerciseParams(cfg.StartKey, cfg.Keys))

	printer := newConsolePrinter(cmd.OutOrStdout())
	defer printer.Flush()
	sink := practice.Tee(practice.Dispatch(printer), logSink(logger))
	runner, err := practice.NewRunner(ex, practice.Options{RejectErrors: cfg.RejectErrors}, sink)
	if err != nil {
		return err
	}
	state := runner.State()
	printer.OnStatus(fmt.Sprintf("%s in %s, %d keys", ex.Title, state.Key, ex.KeyCount()))

	session := practice.NewSession(runner)
	sessionCtx, stopSession := context.WithCancel(ctx)
	defer stopSession()
	done := make(chan error, 1)
	go func() { done <- session.Run(sessionCtx) }()

	rec := recording.NewRecorder()
	if cfg.Record != "" {
		rec.Start(time.Now())
	}
	send := func(ev input.Event) error {
		rec.Record(ev, time.Now())
		return session.Send(sessionCtx, ev)
	}

	if cfg.File != "" {
		s, err := midi.ReadMidiFile(cfg.File)
		if err != nil {
			return err
		}
		logger.Info("replaying", "file", cfg.File, "speed", cfg.Speed)
		if err := midi.Replay(ctx, midi.FileEvents(s), cfg.Speed, send); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		// let a final held chord finish its debounce
		time.Sleep(constants.AdvanceDebounce + 100*time.Millisecond)
	} else {
		stop, err := midi.Listen(cfg.Port, func(ev input.Event) {
			if err := send(ev); err != nil {
				logger.Debug("event dropped", "err", err)
			}
		})
		if err != nil {
			logger.Error("could not open input", "err", err)
			printer.OnStatus("device unavailable")
			return err
		}
		defer midi.Close()
		<-ctx.Done()
		stop()
	}

	stopSession()
	<-done
	if cfg.Record != "" {
		return saveRecording(cfg, rec.Stop(time.Now()))
	}
	return nil
}

// logSink writes every runner message to the debug log.
func logSink(logger *log.Logger) practice.Sink {
	return func(m practice.Message) {
		switch m.Type {
		case practice.StepAdvanced, practice.ProgressionReset:
			logger.Debug(m.Type.String(), "step", m.Step, "total", m.Total)
		case practice.KeyAdvanced:
			logger.Debug(m.Type.String(), "key", m.Key)
		case practice.Status, practice.Diagnostic:
			logger.Debug(m.Type.String(), "text", m.Text)
		}
	}
}

func saveRecording(cfg practiceConfig, events []recording.Event) error {
	jf, err := os.Create(cfg.Record + ".json")
	if err != nil {
		return err
	}
	defer jf.Close()
	if err := recording.WriteJSON(jf, events); err != nil {
		return err
	}
	mf, err := os.Create(cfg.Record + ".mid")
	if err != nil {
		return err
	}
	defer mf.Close()
	return recording.WriteSMF(mf, events, cfg.BPM, cfg.Quantize)
}

package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jsphweid/keyquest/constants"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "keyquest",
	Short: "Piano practice: chords, scales and progressions",
	Long: `keyquest identifies chords, parses progressions and runs scale and
chord-progression drills against a MIDI keyboard.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func newLogger(prefix string) *log.Logger {
	level, err := log.ParseLevel(constants.GetLogLevel())
	if err != nil {
		level = log.InfoLevel
	}
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: true,
	})
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/keyquest/midi"
	"github.com/jsphweid/keyquest/pitch"
	"github.com/jsphweid/keyquest/util"
)

var inspectMax int

func init() {
	inspectCmd.Flags().IntVar(&inspectMax, "max", 0, "stop after this many files (0 for all)")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect PATH",
	Short: "Prints the chords of MIDI files",
	Long:  `Prints the chord timeline of a MIDI file, or of every MIDI file under a directory.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger("inspect")
		paths := []string{args[0]}
		if info, err := os.Stat(args[0]); err != nil {
			return err
		} else if info.IsDir() {
			if paths, err = util.GatherAllMidiPaths(args[0], inspectMax); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		for _, path := range paths {
			s, err := midi.ReadMidiFile(path)
			if err != nil {
				logger.Warn("skipping", "path", path, "err", err)
				continue
			}
			fmt.Fprintf(out, "%s\n", path)
			for _, m := range midi.Timeline(s) {
				names := make([]string, len(m.Notes))
				for i, n := range m.Notes {
					names[i] = pitch.NoteName(n)
				}
				name := "-"
				if m.Chord != nil {
					name = m.Chord.String()
				}
				fmt.Fprintf(out, "%9.3fs  %-24s %s\n", m.At.Seconds(), strings.Join(names, " "), name)
			}
		}
		return nil
	},
}

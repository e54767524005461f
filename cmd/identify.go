package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/pitch"
)

func init() {
	rootCmd.AddCommand(identifyCmd)
}

var identifyCmd = &cobra.Command{
	Use:   "identify NOTE...",
	Short: "Names the chord formed by MIDI note numbers",
	Long:  `Names the chord formed by MIDI note numbers, e.g. "identify 60 64 67".`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes := make([]int, 0, len(args))
		for _, arg := range args {
			n, err := strconv.Atoi(arg)
			if err != nil || !pitch.ValidMidi(n) {
				return fmt.Errorf("not a midi note: %q", arg)
			}
			notes = append(notes, n)
		}
		out := cmd.OutOrStdout()

		names := make([]string, len(notes))
		for i, n := range notes {
			names[i] = pitch.NoteName(n)
		}
		fmt.Fprintf(out, "notes: %s\n", strings.Join(names, " "))

		all := chord.IdentifyAll(notes)
		if len(all) == 0 {
			fmt.Fprintln(out, "chord: -")
		}
		for i, c := range all {
			label := "also"
			if i == 0 {
				label = "chord"
			}
			fmt.Fprintf(out, "%s: %s (%s, %s)\n", label, c.Name(), c.Symbol(), chord.InversionName(c.Inversion))
		}
		for _, s := range chord.Suggest(notes) {
			missing := make([]string, len(s.Missing))
			for i, pc := range s.Missing {
				missing[i] = pc.String()
			}
			fmt.Fprintf(out, "add %s: %s\n", strings.Join(missing, " "), s.Chord.Name())
		}
		return nil
	},
}

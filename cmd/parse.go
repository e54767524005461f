package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/pitch"
	"github.com/jsphweid/keyquest/progression"
	"github.com/jsphweid/keyquest/scale"
)

var (
	parseKey    string
	parseScale  string
	parseOctave int
)

func init() {
	parseCmd.Flags().StringVar(&parseKey, "key", "C", "key root for roman numerals")
	parseCmd.Flags().StringVar(&parseScale, "scale", "major", "scale for roman numerals")
	parseCmd.Flags().IntVar(&parseOctave, "octave", 4, "octave to voice chords in")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse PROGRESSION",
	Short: "Resolves a progression of roman numerals and chord names",
	Long:  `Resolves a progression such as "ii V I" or "Am | F | C | G" in a key.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := pitch.Parse(parseKey)
		if !root.Valid() {
			return &pitch.UnknownNameError{Name: parseKey}
		}
		kind, ok := scale.ParseKind(parseScale)
		if !ok {
			return &scale.UnknownKindError{Text: parseScale}
		}
		text := args[0]
		for _, more := range args[1:] {
			text += " " + more
		}
		elements, err := progression.Parse(text, progression.Key{Root: root, Scale: kind})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, el := range elements {
			fmt.Fprintf(out, "%-8s %-20s %-8s %v\n", el.Source(), el.Chord.Name(), el.Chord.Symbol(), voicingNames(el.Chord, parseOctave))
		}
		return nil
	},
}

func voicingNames(t chord.Token, octave int) []string {
	notes := t.Voicing(octave)
	res := make([]string, len(notes))
	for i, n := range notes {
		res[i] = pitch.NoteName(n)
	}
	return res
}

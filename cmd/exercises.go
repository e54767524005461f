package cmd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/keyquest/exercise"
)

var (
	exercisesStartKey string
	exercisesKeys     int
)

func init() {
	exercisesCmd.Flags().StringVar(&exercisesStartKey, "start-key", "", "first key of the cycle")
	exercisesCmd.Flags().IntVar(&exercisesKeys, "keys", 0, "number of keys to walk (1-12)")
	rootCmd.AddCommand(exercisesCmd)
}

var exercisesCmd = &cobra.Command{
	Use:   "exercises [ID]",
	Short: "Lists practice exercises",
	Long:  `Lists the built-in exercises, or shows the targets of one of them key by key.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, e := range exercise.All() {
				fmt.Fprintf(out, "%-26s %-6s %s\n", e.ID, e.Mode, e.Title)
			}
			return nil
		}

		e, ok := exercise.Get(args[0])
		if !ok {
			return fmt.Errorf("no exercise %q, try one of: %s", args[0], strings.Join(exercise.IDs(), ", "))
		}
		e = e.Configure(exerciseParams(exercisesStartKey, exercisesKeys))
		fmt.Fprintf(out, "%s (%s, %s)\n", e.Title, e.Mode, e.Scale)
		for _, key := range e.Keys() {
			seq, err := e.MakeSequence(key)
			if err != nil {
				return err
			}
			var steps []string
			for _, n := range seq.Notes {
				steps = append(steps, n.String())
			}
			for _, el := range seq.Chords {
				steps = append(steps, el.Chord.String())
			}
			fmt.Fprintf(out, "%-3s %s\n", key, strings.Join(steps, " | "))
		}
		return nil
	},
}

// exerciseParams turns command flags into the query form exercises accept.
func exerciseParams(startKey string, keys int) url.Values {
	params := url.Values{}
	if startKey != "" {
		params.Set("startKey", startKey)
	}
	if keys > 0 {
		params.Set("keys", strconv.Itoa(keys))
	}
	return params
}

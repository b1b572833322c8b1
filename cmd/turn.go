package cmd

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/output"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
	"github.com/spf13/cobra"
)

var turnCmd = &cobra.Command{
	Use:   "turn <F|B> <turns>",
	Short: "Apply one pick to a tablet",
	Long: `Turn a tablet forward (F) or backward (B) a number of times, starting from
the running total given by --total, and print the new running total.`,
	Example: `  tt turn F 1
  tt turn B 2 --total 3`,
	Args:    cobra.ExactArgs(2),
	GroupID: "turns",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := weaving.ParseDirection(args[0])
		if err != nil {
			return reportError(invalidf("%v", err))
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return reportError(invalidf("turns %q is not a number", args[1]))
		}
		total, _ := cmd.Flags().GetInt("total")

		result := weaving.TurnTablet(weaving.Turn{Direction: dir, NumberOfTurns: n, TotalTurns: total})
		if jsonOutput {
			return output.JSON(result)
		}
		fmt.Printf("%s %d: %d → %d\n", result.Direction, result.NumberOfTurns, total, result.TotalTurns)
		return nil
	},
}

var stepPattern = regexp.MustCompile(`^([A-Za-z]+)(-?\d*)$`)

// parseStep reads a fold step such as F1, B2 or "forward3". A bare direction
// is one turn.
func parseStep(s string) (weaving.Turn, error) {
	m := stepPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return weaving.Turn{}, invalidf("step %q: want a direction and count, e.g. F1 or B2", s)
	}
	dir, err := weaving.ParseDirection(m[1])
	if err != nil {
		return weaving.Turn{}, invalidf("step %q: %v", s, err)
	}
	n := 1
	if m[2] != "" {
		if n, err = strconv.Atoi(m[2]); err != nil {
			return weaving.Turn{}, invalidf("step %q: bad count", s)
		}
	}
	return weaving.Turn{Direction: dir, NumberOfTurns: n}, nil
}

var foldCmd = &cobra.Command{
	Use:   "fold <step>...",
	Short: "Accumulate a sequence of picks",
	Long: `Fold a tablet's picks into running totals. Each step is a direction and a
turn count: F1, B2, F0 (idle). A bare F or B turns once.`,
	Example: `  tt fold F1 B1 F2
  tt fold --start 4 B B B B`,
	Args:    cobra.MinimumNArgs(1),
	GroupID: "turns",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := make([]weaving.Turn, 0, len(args))
		for _, a := range args {
			st, err := parseStep(a)
			if err != nil {
				return reportError(err)
			}
			steps = append(steps, st)
		}
		start, _ := cmd.Flags().GetInt("start")

		picks := weaving.AccumulateTurns(steps, start)
		if jsonOutput {
			return output.JSON(picks)
		}

		for i, p := range picks {
			fmt.Printf("%3d  %s %d  total %d\n", i+1, p.Direction, p.NumberOfTurns, p.TotalTurns)
		}
		s := weaving.Summarize(picks)
		fmt.Print(output.SectionHeader("summary"))
		fmt.Printf("  final %d, max twist %d, %d reversal(s), %d idle\n",
			weaving.FinalTotal(picks, start), s.MaxTwist, s.Reversals, s.IdlePicks)
		return nil
	},
}

func init() {
	turnCmd.Flags().Int("total", 0, "Running total before this pick")
	foldCmd.Flags().Int("start", 0, "Running total before the first pick")

	rootCmd.AddCommand(turnCmd)
	rootCmd.AddCommand(foldCmd)
}

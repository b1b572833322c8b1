package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/output"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
	"github.com/spf13/cobra"
)

// editDone reports a successful edit.
func editDone(p *pattern.Pattern, format string, args ...any) error {
	if jsonOutput {
		return output.JSON(p)
	}
	output.Success("%s: %s", p.Name, fmt.Sprintf(format, args...))
	return nil
}

var stepCmd = &cobra.Command{
	Use:   "step <id|name> <row> <tablet> <F|B> <turns>",
	Short: "Set one tablet's instruction in one row",
	Long: `Set the direction and number of turns for a tablet in a row. Rows and
tablets count from 1. All-together patterns only keep the direction, for the
whole row.`,
	Example: `  tt step "Ram's horns" 3 2 B 1
  tt step 01ab 1 4 F 0`,
	Args:    cobra.ExactArgs(5),
	GroupID: "edit",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := weaving.ParseDirection(args[3])
		if err != nil {
			return reportError(invalidf("%v", err))
		}
		turns, err := strconv.Atoi(args[4])
		if err != nil {
			return reportError(invalidf("turns %q is not a number", args[4]))
		}

		var row, tablet int
		p, err := updatePattern(args[0], func(p *pattern.Pattern) error {
			if row, err = parseIndex(args[1], "row", p.Rows); err != nil {
				return err
			}
			if tablet, err = parseIndex(args[2], "tablet", p.Tablets); err != nil {
				return err
			}
			return p.SetStep(row, tablet, pattern.Step{Direction: dir, NumberOfTurns: turns})
		})
		if err != nil {
			return reportError(err)
		}
		return editDone(p, "row %d tablet %d is %s %d", row+1, tablet+1, dir, turns)
	},
}

var toggleCmd = &cobra.Command{
	Use:     "toggle <id|name> <row> <tablet>",
	Short:   "Reverse one tablet's direction in one row",
	Args:    cobra.ExactArgs(3),
	GroupID: "edit",
	RunE: func(cmd *cobra.Command, args []string) error {
		var row, tablet int
		p, err := updatePattern(args[0], func(p *pattern.Pattern) error {
			var err error
			if row, err = parseIndex(args[1], "row", p.Rows); err != nil {
				return err
			}
			if tablet, err = parseIndex(args[2], "tablet", p.Tablets); err != nil {
				return err
			}
			return p.ToggleDirection(row, tablet)
		})
		if err != nil {
			return reportError(err)
		}
		return editDone(p, "toggled row %d tablet %d", row+1, tablet+1)
	},
}

// insertPosition reads an optional 1-based insert position; none appends.
func insertPosition(args []string, what string, count int) (int, error) {
	if len(args) == 0 {
		return count, nil
	}
	return parseIndex(args[0], what, count+1)
}

var rowCmd = &cobra.Command{
	Use:     "row",
	Short:   "Add or remove pattern rows",
	GroupID: "edit",
}

var rowDirection directionValue

var rowAddCmd = &cobra.Command{
	Use:   "add <id|name> [position]",
	Short: "Insert a row (appends by default)",
	Long: `Insert a row before position, or at the end. The new row copies the row
above it unless --direction or --turns say otherwise.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		turnsSet := cmd.Flags().Changed("turns")
		turns, _ := cmd.Flags().GetInt("turns")

		var at int
		p, err := updatePattern(args[0], func(p *pattern.Pattern) error {
			var err error
			if at, err = insertPosition(args[1:], "row", p.Rows); err != nil {
				return err
			}
			if err := p.AddRow(at); err != nil {
				return err
			}
			if rowDirection.dir == "" && !turnsSet {
				return nil
			}
			for t := 0; t < p.Tablets; t++ {
				st := rowStep(p, at, t)
				if rowDirection.dir != "" {
					st.Direction = rowDirection.dir
				}
				if turnsSet {
					st.NumberOfTurns = turns
				}
				if err := p.SetStep(at, t, st); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return reportError(err)
		}
		return editDone(p, "added row %d", at+1)
	},
}

// rowStep returns the current instruction for a tablet in a row.
func rowStep(p *pattern.Pattern, row, tablet int) pattern.Step {
	if p.Type == pattern.TypeAllTogether {
		return pattern.Step{Direction: p.AllTogether[row], NumberOfTurns: 1}
	}
	return p.Picks[row][tablet]
}

var rowRemoveCmd = &cobra.Command{
	Use:     "remove <id|name> <row>",
	Aliases: []string{"rm"},
	Short:   "Remove a row",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var row int
		p, err := updatePattern(args[0], func(p *pattern.Pattern) error {
			var err error
			if row, err = parseIndex(args[1], "row", p.Rows); err != nil {
				return err
			}
			return p.RemoveRow(row)
		})
		if err != nil {
			return reportError(err)
		}
		return editDone(p, "removed row %d", row+1)
	},
}

var tabletCmd = &cobra.Command{
	Use:     "tablet",
	Short:   "Add or remove tablets",
	GroupID: "edit",
}

var tabletAddCmd = &cobra.Command{
	Use:   "add <id|name> [position]",
	Short: "Insert a tablet (appends by default)",
	Long:  `Insert a tablet before position, or at the right edge. It is threaded and turned like the tablet to its left.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var at int
		p, err := updatePattern(args[0], func(p *pattern.Pattern) error {
			var err error
			if at, err = insertPosition(args[1:], "tablet", p.Tablets); err != nil {
				return err
			}
			return p.AddTablet(at)
		})
		if err != nil {
			return reportError(err)
		}
		return editDone(p, "added tablet %d", at+1)
	},
}

var tabletRemoveCmd = &cobra.Command{
	Use:     "remove <id|name> <tablet>",
	Aliases: []string{"rm"},
	Short:   "Remove a tablet",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tablet int
		p, err := updatePattern(args[0], func(p *pattern.Pattern) error {
			var err error
			if tablet, err = parseIndex(args[1], "tablet", p.Tablets); err != nil {
				return err
			}
			return p.RemoveTablet(tablet)
		})
		if err != nil {
			return reportError(err)
		}
		return editDone(p, "removed tablet %d", tablet+1)
	},
}

var orientCmd = &cobra.Command{
	Use:     "orient <id|name> <tablet> <S|Z>",
	Short:   "Set a tablet's threading orientation",
	Args:    cobra.ExactArgs(3),
	GroupID: "edit",
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := weaving.ParseOrientation(args[2])
		if err != nil {
			return reportError(invalidf("%v", err))
		}
		var tablet int
		p, err := updatePattern(args[0], func(p *pattern.Pattern) error {
			var err error
			if tablet, err = parseIndex(args[1], "tablet", p.Tablets); err != nil {
				return err
			}
			return p.SetOrientation(tablet, o)
		})
		if err != nil {
			return reportError(err)
		}
		return editDone(p, "tablet %d is %s", tablet+1, o)
	},
}

// parseHole reads a hole as a letter (A, B...) or a 1-based number.
func parseHole(arg string, holes int) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(arg))
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z' {
		h := int(s[0] - 'A')
		if h >= holes {
			return 0, invalidf("hole %s out of range A-%s", s, output.HoleLabel(holes-1))
		}
		return h, nil
	}
	return parseIndex(arg, "hole", holes)
}

// parseColor reads a palette index, or "-" for an empty hole.
func parseColor(arg string, palette int) (int, error) {
	if arg == "-" {
		return pattern.EmptyHole, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n >= palette {
		return 0, invalidf("colour %q: want a palette index 0-%d or -", arg, palette-1)
	}
	return n, nil
}

var threadCmd = &cobra.Command{
	Use:   "thread <id|name> <hole> <tablet> <colour|->",
	Short: "Set the colour threaded through one hole",
	Long: `Set which palette colour is threaded through a hole of a tablet. Holes are
letters (A, B...) or numbers from 1; colours are palette indexes from 0, or -
to leave the hole empty.`,
	Example: `  tt thread "Ram's horns" A 3 2
  tt thread 01ab D 1 -`,
	Args:    cobra.ExactArgs(4),
	GroupID: "edit",
	RunE: func(cmd *cobra.Command, args []string) error {
		var hole, tablet int
		p, err := updatePattern(args[0], func(p *pattern.Pattern) error {
			var err error
			if hole, err = parseHole(args[1], p.Holes); err != nil {
				return err
			}
			if tablet, err = parseIndex(args[2], "tablet", p.Tablets); err != nil {
				return err
			}
			color, err := parseColor(args[3], len(p.Palette))
			if err != nil {
				return err
			}
			return p.SetThread(hole, tablet, color)
		})
		if err != nil {
			return reportError(err)
		}
		return editDone(p, "hole %s of tablet %d threaded", output.HoleLabel(hole), tablet+1)
	},
}

func init() {
	rowAddCmd.Flags().Var(&rowDirection, "direction", "Direction for every tablet in the new row (F or B)")
	rowAddCmd.Flags().Int("turns", 1, "Turns for every tablet in the new row")

	rowCmd.AddCommand(rowAddCmd)
	rowCmd.AddCommand(rowRemoveCmd)
	tabletCmd.AddCommand(tabletAddCmd)
	tabletCmd.AddCommand(tabletRemoveCmd)

	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(rowCmd)
	rootCmd.AddCommand(tabletCmd)
	rootCmd.AddCommand(orientCmd)
	rootCmd.AddCommand(threadCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/output"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/store"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNameRequired = errors.New("name is required")

// newForm holds the fields of the new-pattern form as strings, the way huh
// edits them.
type newForm struct {
	Name        string
	Type        string
	Tablets     string
	Rows        string
	Holes       string
	Description string
	Tags        string
}

func positiveInt(limit int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 1 || n > limit {
			return fmt.Errorf("enter a number from 1 to %d", limit)
		}
		return nil
	}
}

// build constructs the huh form editing f.
func (f *newForm) build() *huh.Form {
	typeOptions := []huh.Option[string]{
		huh.NewOption("Individual: each tablet has its own direction", string(pattern.TypeIndividual)),
		huh.NewOption("All together: every tablet turns the same way", string(pattern.TypeAllTogether)),
		huh.NewOption("Double-faced", string(pattern.TypeDoubleFaced)),
	}
	holeOptions := []huh.Option[string]{
		huh.NewOption("4 holes", "4"),
		huh.NewOption("6 holes", "6"),
		huh.NewOption("2 holes", "2"),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.Name).
				Placeholder("Pattern name...").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errNameRequired
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Type").
				Options(typeOptions...).
				Value(&f.Type),
			huh.NewInput().
				Title("Tablets").
				Value(&f.Tablets).
				Validate(positiveInt(pattern.MaxTablets)),
			huh.NewInput().
				Title("Rows").
				Value(&f.Rows).
				Validate(positiveInt(pattern.MaxRows)),
			huh.NewSelect[string]().
				Title("Holes").
				Options(holeOptions...).
				Value(&f.Holes),
		).Title("New Pattern"),
		huh.NewGroup(
			huh.NewText().
				Title("Description").
				Value(&f.Description).
				Placeholder("Optional markdown notes...").
				Lines(3),
			huh.NewInput().
				Title("Tags").
				Value(&f.Tags).
				Placeholder("tag1, tag2, ..."),
		),
	)
	return form.WithTheme(huh.ThemeDracula())
}

// toPattern builds the pattern the form describes.
func (f *newForm) toPattern() (*pattern.Pattern, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, invalidf("%v", errNameRequired)
	}
	typ := pattern.NormalizeType(f.Type)
	if !pattern.IsValidType(typ) {
		return nil, invalidf("invalid type: %s (valid: individual, allTogether, doubleFaced)", f.Type)
	}

	var dims [3]int
	for i, s := range []string{f.Tablets, f.Rows, f.Holes} {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, invalidf("%q is not a number", s)
		}
		dims[i] = n
	}
	holes := dims[2]
	if typ == pattern.TypeDoubleFaced {
		holes = 4
	}

	p := pattern.New(name, typ, dims[0], dims[1], holes)
	p.Description = strings.TrimSpace(f.Description)
	p.Tags = parseTags(f.Tags)
	return p, nil
}

var newCmd = &cobra.Command{
	Use:     "new [name]",
	Aliases: []string{"create"},
	Short:   "Create a pattern in the library",
	Long: `Create a pattern with every tablet turning forward one step per row.

With no name on an interactive terminal a form asks for the details;
otherwise the flags are used.`,
	Example: `  tt new "Diamonds" --tablets 12 --rows 40
  tt new "Plain band" --type allTogether --tablets 8 --rows 20`,
	Args:    cobra.MaximumNArgs(1),
	GroupID: "library",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &newForm{}
		f.Name, _ = cmd.Flags().GetString("name")
		if len(args) > 0 {
			f.Name = args[0]
		}
		f.Type, _ = cmd.Flags().GetString("type")
		tablets, _ := cmd.Flags().GetInt("tablets")
		rows, _ := cmd.Flags().GetInt("rows")
		holes, _ := cmd.Flags().GetInt("holes")
		f.Tablets, f.Rows, f.Holes = strconv.Itoa(tablets), strconv.Itoa(rows), strconv.Itoa(holes)
		f.Description, _ = cmd.Flags().GetString("description")
		f.Tags, _ = cmd.Flags().GetString("tags")

		if f.Name == "" && !jsonOutput && term.IsTerminal(int(os.Stdin.Fd())) {
			if err := f.build().Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				return reportError(err)
			}
		}

		p, err := f.toPattern()
		if err != nil {
			return reportError(err)
		}
		if err := validatePattern(p); err != nil {
			return reportError(err)
		}

		s, err := openStore()
		if err != nil {
			return reportError(err)
		}
		defer s.Close()

		if err := s.Create(p, ""); err != nil {
			return reportError(err)
		}
		slog.Info("pattern created", "id", p.ID, "name", p.Name)

		if jsonOutput {
			return output.JSON(p)
		}
		output.Success("CREATED %s %s (%s)", store.ShortID(p.ID), p.Name, output.FormatSize(p.Tablets, p.Rows, p.Holes))
		return nil
	},
}

func init() {
	newCmd.Flags().String("name", "", "Pattern name")
	newCmd.Flags().StringP("type", "t", string(pattern.TypeIndividual), "Type: individual, allTogether, doubleFaced")
	newCmd.Flags().Int("tablets", 8, "Number of tablets")
	newCmd.Flags().Int("rows", 16, "Number of rows")
	newCmd.Flags().Int("holes", 4, "Holes per tablet: 2, 4 or 6")
	newCmd.Flags().StringP("description", "d", "", "Description (markdown)")
	newCmd.Flags().String("tags", "", "Comma-separated tags")

	rootCmd.AddCommand(newCmd)
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/output"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/store"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var addCmd = &cobra.Command{
	Use:     "add <file>...",
	Aliases: []string{"import-file"},
	Short:   "Add pattern files to the library",
	Long:    `Read YAML or JSON pattern files, check them, and store them in the library.`,
	Args:    cobra.MinimumNArgs(1),
	GroupID: "files",
	RunE: func(cmd *cobra.Command, args []string) error {
		extraTags, _ := cmd.Flags().GetString("tags")

		// Check every file before storing any of them.
		patterns := make([]*pattern.Pattern, 0, len(args))
		for _, path := range args {
			p, err := pattern.Load(path)
			if err != nil {
				return reportError(err)
			}
			if err := validatePattern(p); err != nil {
				return reportError(fmt.Errorf("%s: %w", path, err))
			}
			p.ID = ""
			p.Tags = append(p.Tags, parseTags(extraTags)...)
			patterns = append(patterns, p)
		}

		s, err := openStore()
		if err != nil {
			return reportError(err)
		}
		defer s.Close()

		for i, p := range patterns {
			source, _ := filepath.Abs(args[i])
			if err := s.Create(p, source); err != nil {
				return reportError(err)
			}
			slog.Info("pattern added", "id", p.ID, "source", source)
			if !jsonOutput {
				output.Success("ADDED %s %s", store.ShortID(p.ID), p.Name)
			}
		}
		if jsonOutput {
			return output.JSON(patterns)
		}
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:     "save <id|name> <file>",
	Short:   "Write a library pattern to a file",
	Long:    `Write a pattern to a file: JSON when the file ends in .json, otherwise YAML.`,
	Args:    cobra.ExactArgs(2),
	GroupID: "files",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPattern(args[0])
		if err != nil {
			return reportError(err)
		}
		if err := pattern.Save(args[1], p); err != nil {
			return reportError(err)
		}
		if jsonOutput {
			return output.JSON(map[string]string{"id": p.ID, "path": args[1]})
		}
		output.Success("SAVED %s to %s", p.Name, args[1])
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List library patterns",
	GroupID: "library",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var f store.ListFilter
		typ, _ := cmd.Flags().GetString("type")
		if typ != "" {
			f.Type = pattern.NormalizeType(typ)
			if !pattern.IsValidType(f.Type) {
				return reportError(invalidf("invalid type: %s", typ))
			}
		}
		f.Tag, _ = cmd.Flags().GetString("tag")
		f.Search, _ = cmd.Flags().GetString("search")
		f.Limit, _ = cmd.Flags().GetInt("limit")

		s, err := openStore()
		if err != nil {
			return reportError(err)
		}
		defer s.Close()

		entries, err := s.List(f)
		if err != nil {
			return reportError(err)
		}
		if jsonOutput {
			if entries == nil {
				entries = []store.Entry{}
			}
			return output.JSON(entries)
		}
		if len(entries) == 0 {
			fmt.Println("No patterns")
			return nil
		}

		nameWidth := max(output.TerminalWidth(80)/3, 12)
		for _, e := range entries {
			fmt.Println(output.FormatEntryShort(e, nameWidth))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:     "show <id|name|file>",
	Aliases: []string{"view"},
	Short:   "Show a pattern with its threading",
	Args:    cobra.ExactArgs(1),
	GroupID: "library",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPattern(args[0])
		if err != nil {
			return reportError(err)
		}
		if jsonOutput {
			return output.JSON(p)
		}

		fmt.Print(output.FormatPatternLong(p, output.RenderDescription(p.Description)))
		fmt.Print(output.SectionHeader("threading"))
		fmt.Println(output.ThreadingChart(p))
		return nil
	},
}

// confirm asks a yes/no question on an interactive terminal. Without one it
// returns false.
func confirm(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, nil
	}
	var ok bool
	err := huh.NewConfirm().Title(question).Value(&ok).Run()
	return ok, err
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"rm"},
	Short:   "Delete a pattern from the library",
	Args:    cobra.ExactArgs(1),
	GroupID: "library",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return reportError(err)
		}
		defer s.Close()

		p, err := resolvePattern(s, args[0])
		if err != nil {
			return reportError(err)
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := confirm(fmt.Sprintf("Delete %s (%s)?", p.Name, store.ShortID(p.ID)))
			if err != nil {
				return reportError(err)
			}
			if !ok {
				return reportError(invalidf("not deleted: confirm with --yes"))
			}
		}

		if err := s.Delete(p.ID); err != nil {
			return reportError(err)
		}
		slog.Info("pattern deleted", "id", p.ID)
		if jsonOutput {
			return output.JSON(map[string]string{"deleted": p.ID})
		}
		output.Success("DELETED %s %s", store.ShortID(p.ID), p.Name)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:     "edit <id|name>",
	Aliases: []string{"update"},
	Short:   "Change a pattern's name, description or tags",
	Args:    cobra.ExactArgs(1),
	GroupID: "library",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("name") && !flags.Changed("description") && !flags.Changed("tags") {
			return reportError(invalidf("nothing to change: use --name, --description or --tags"))
		}

		p, err := updatePattern(args[0], func(p *pattern.Pattern) error {
			if flags.Changed("name") {
				name, _ := flags.GetString("name")
				p.Name = strings.TrimSpace(name)
			}
			if flags.Changed("description") {
				p.Description, _ = flags.GetString("description")
			}
			if flags.Changed("tags") {
				tags, _ := flags.GetString("tags")
				p.Tags = parseTags(tags)
			}
			return nil
		})
		if err != nil {
			return reportError(err)
		}
		if jsonOutput {
			return output.JSON(p)
		}
		output.Success("UPDATED %s %s", store.ShortID(p.ID), p.Name)
		return nil
	},
}

func init() {
	addCmd.Flags().String("tags", "", "Comma-separated tags to add to every pattern")

	listCmd.Flags().StringP("type", "t", "", "Filter by type")
	listCmd.Flags().String("tag", "", "Filter by tag")
	listCmd.Flags().StringP("search", "s", "", "Filter by name")
	listCmd.Flags().IntP("limit", "n", 0, "Maximum number of patterns")

	deleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking")

	editCmd.Flags().String("name", "", "New name")
	editCmd.Flags().StringP("description", "d", "", "New description (markdown)")
	editCmd.Flags().String("tags", "", "Replace tags (comma-separated)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(editCmd)
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/output"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/store"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/version"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <bundle.ttz> [id|name]...",
	Short: "Export library patterns to a bundle file",
	Long: `Write patterns to a compressed bundle that another library can import.
With no patterns named, the whole library is exported.`,
	Example: `  tt export bands.ttz
  tt export pair.ttz "Ram's horns" 01ab`,
	Args:    cobra.MinimumNArgs(1),
	GroupID: "files",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return reportError(err)
		}
		defer s.Close()

		var patterns []*pattern.Pattern
		if len(args) == 1 {
			if patterns, err = s.All(); err != nil {
				return reportError(err)
			}
		} else {
			for _, ref := range args[1:] {
				p, err := resolvePattern(s, ref)
				if err != nil {
					return reportError(err)
				}
				patterns = append(patterns, p)
			}
		}
		if len(patterns) == 0 {
			return reportError(invalidf("library is empty: nothing to export"))
		}

		f, err := os.Create(args[0])
		if err != nil {
			return reportError(err)
		}
		if err := pattern.WriteBundle(f, versionStr, patterns); err != nil {
			f.Close()
			os.Remove(args[0])
			return reportError(err)
		}
		if err := f.Close(); err != nil {
			return reportError(err)
		}
		slog.Info("bundle written", "path", args[0], "patterns", len(patterns))

		if jsonOutput {
			return output.JSON(map[string]any{"path": args[0], "patterns": len(patterns)})
		}
		output.Success("EXPORTED %d pattern(s) to %s", len(patterns), args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:     "import <bundle.ttz>",
	Short:   "Import patterns from a bundle file",
	Long:    `Add every pattern in a bundle to the library as a new pattern.`,
	Args:    cobra.ExactArgs(1),
	GroupID: "files",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return reportError(err)
		}
		defer f.Close()

		b, err := pattern.ReadBundle(f)
		if err != nil {
			return reportError(fmt.Errorf("%s: %w", args[0], err))
		}
		if version.IsNewer(b.Generator, versionStr) && !jsonOutput {
			output.Warning("bundle was written by tt %s, newer than this tt (%s)", b.Generator, versionStr)
		}

		// Check everything before touching the library.
		for _, p := range b.Patterns {
			if err := validatePattern(p); err != nil {
				return reportError(fmt.Errorf("%s: %w", p.Name, err))
			}
		}

		s, err := openStore()
		if err != nil {
			return reportError(err)
		}
		defer s.Close()

		ids := make([]string, 0, len(b.Patterns))
		for _, p := range b.Patterns {
			p.ID = ""
			if err := s.Create(p, args[0]); err != nil {
				return reportError(err)
			}
			ids = append(ids, p.ID)
			if !jsonOutput {
				output.Success("IMPORTED %s %s", store.ShortID(p.ID), p.Name)
			}
		}
		slog.Info("bundle imported", "path", args[0], "patterns", len(ids))
		if jsonOutput {
			return output.JSON(map[string]any{"imported": ids})
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

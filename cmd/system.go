package cmd

import (
	"fmt"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/config"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/output"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/store"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:     "info",
	Aliases: []string{"stats"},
	Short:   "Show library statistics",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return reportError(err)
		}
		defer s.Close()

		total, err := s.Count()
		if err != nil {
			return reportError(err)
		}
		byType := make(map[string]int, len(pattern.ValidTypes))
		for _, t := range pattern.ValidTypes {
			entries, err := s.List(store.ListFilter{Type: t})
			if err != nil {
				return reportError(err)
			}
			byType[string(t)] = len(entries)
		}

		if jsonOutput {
			return output.JSON(map[string]interface{}{
				"library":       s.Path(),
				"schemaVersion": s.SchemaVersion(),
				"config":        config.Path(),
				"patterns": map[string]interface{}{
					"total":  total,
					"byType": byType,
				},
			})
		}

		fmt.Printf("Library: %s (schema v%d)\n", s.Path(), s.SchemaVersion())
		fmt.Printf("Config:  %s\n", config.Path())
		fmt.Println()
		fmt.Printf("Patterns: %d total\n", total)
		for _, t := range pattern.ValidTypes {
			fmt.Printf("  %-12s %d\n", string(t)+":", byType[string(t)])
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version",
	GroupID: "system",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		short, _ := cmd.Flags().GetBool("short")
		if short {
			fmt.Print(versionStr)
			return
		}
		if jsonOutput {
			_ = output.JSON(map[string]string{"version": versionStr})
			return
		}
		fmt.Printf("tt version %s\n", versionStr)
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version string")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

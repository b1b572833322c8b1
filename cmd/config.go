package cmd

import (
	"fmt"
	"strings"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/config"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage tt configuration",
	GroupID: "system",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if !config.IsKey(key) {
			return reportError(invalidf("unknown config key %s (valid: %s)", key, strings.Join(config.Keys, ", ")))
		}
		if err := config.Set(key, val); err != nil {
			return reportError(invalidf("%v", err))
		}
		if jsonOutput {
			return output.JSON(map[string]string{"key": key, "value": val})
		}
		output.Success("set %s = %s", key, val)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !config.IsKey(key) {
			return reportError(invalidf("unknown config key %s (valid: %s)", key, strings.Join(config.Keys, ", ")))
		}
		val := cfg.Values()[key]
		if jsonOutput {
			return output.JSON(map[string]any{"key": key, "value": val})
		}
		fmt.Println(val)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := cfg.Values()
		if jsonOutput {
			return output.JSON(values)
		}
		for _, k := range config.Keys {
			fmt.Printf("%-22s %v\n", k, values[k])
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.Path())
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.RunE = configListCmd.RunE
	rootCmd.AddCommand(configCmd)
}

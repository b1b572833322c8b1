package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/config"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/output"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/suggest"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	versionStr string

	// cfg is loaded in PersistentPreRunE, with flag overrides applied.
	cfg = config.Default()

	jsonOutput   bool
	libraryPath  string
	logLevelFlag string
)

// SetVersion sets the version string
func SetVersion(v string) {
	versionStr = v
}

var rootCmd = &cobra.Command{
	Use:   "tt",
	Short: "Tablet weaving pattern CLI",
	Long: `tt - Twisted Threads for the terminal.

Works out how every tablet in a tablet-weaving pattern turns, pick by pick:
folds each tablet's forward and backward turns into a running total, charts
the result, and keeps your patterns in a local library.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config, applies global flag overrides and installs the logger.
func setup() error {
	loaded, err := config.Load()
	if err != nil {
		return reportError(err)
	}
	cfg = loaded
	if libraryPath != "" {
		cfg.Library.Path = libraryPath
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return reportError(err)
	}

	slog.SetDefault(slog.New(newLogHandler(cfg.Log)))
	output.SetColorMode(cfg.UI.Color)
	slog.Debug("config loaded", "file", config.Path(), "library", cfg.Library.Path)
	return nil
}

func newLogHandler(lc config.LogConfig) slog.Handler {
	var level slog.Level
	switch strings.ToLower(lc.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.NewTextHandler(os.Stderr, opts)
}

// nameWithAliases returns "name, alias1, alias2" if aliases exist, else just "name"
func nameWithAliases(cmd *cobra.Command) string {
	if len(cmd.Aliases) > 0 {
		return cmd.Name() + ", " + strings.Join(cmd.Aliases, ", ")
	}
	return cmd.Name()
}

// flagError suggests close flag names when an unknown flag is used.
func flagError(cmd *cobra.Command, err error) error {
	msg := err.Error()
	const prefix = "unknown flag: "
	if i := strings.Index(msg, prefix); i >= 0 {
		unknown := strings.TrimSpace(msg[i+len(prefix):])
		var names []string
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			names = append(names, "--"+f.Name)
		})
		if hint := suggest.GetFlagHint(unknown); hint != "" {
			msg += fmt.Sprintf(" (try %s)", hint)
		} else if matches := suggest.Flag(unknown, names); len(matches) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(matches, ", "))
		}
	}
	return reportError(fmt.Errorf("%s: %w", msg, errInvalidInput))
}

func init() {
	// Add custom template function for showing aliases
	cobra.AddTemplateFunc("nameWithAliases", nameWithAliases)
	cobra.AddTemplateFunc("add", func(a, b int) int { return a + b })

	// Custom usage template that shows aliases inline
	usageTemplate := `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

Available Commands:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad (nameWithAliases .) (add .NamePadding 8)}} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad (nameWithAliases .) (add .NamePadding 8)}} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

Additional Commands:{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad (nameWithAliases .) (add .NamePadding 8)}} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
	rootCmd.SetUsageTemplate(usageTemplate)
	rootCmd.SetFlagErrorFunc(flagError)

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&libraryPath, "library", "", "Library database path (overrides library.path)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	// Define command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: "turns", Title: "Turn Commands:"},
		&cobra.Group{ID: "library", Title: "Library Commands:"},
		&cobra.Group{ID: "edit", Title: "Editing Commands:"},
		&cobra.Group{ID: "weave", Title: "Weaving Commands:"},
		&cobra.Group{ID: "files", Title: "File Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)

	// Assign built-in commands to system group
	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")
}

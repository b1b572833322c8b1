package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/analysis"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/output"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/store"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/tui/weave"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/watch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var picksCmd = &cobra.Command{
	Use:   "picks <id|name|file>",
	Short: "Show every tablet's running turn totals",
	Long: `Fold each tablet's instructions into running totals and list them, with the
position each tablet finishes in.`,
	Args:    cobra.ExactArgs(1),
	GroupID: "weave",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPattern(args[0])
		if err != nil {
			return reportError(err)
		}
		picks := p.ComputePicks()
		if jsonOutput {
			return output.JSON(map[string]any{
				"id":    p.ID,
				"name":  p.Name,
				"picks": picks,
			})
		}
		fmt.Println(output.PickTable(p, picks))
		return nil
	},
}

var twistCmd = &cobra.Command{
	Use:   "twist [id|name|file]...",
	Short: "Check patterns for tablets that build up too much twist",
	Long: `Analyse how far each tablet twists over the pattern and flag tablets whose
running total passes weaving.twist_warning. With no arguments every library
pattern is checked.`,
	GroupID: "weave",
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold, _ := cmd.Flags().GetInt("threshold")
		if threshold <= 0 {
			threshold = cfg.Weaving.TwistWarning
		}
		workers, _ := cmd.Flags().GetInt("workers")

		sources, closeStore, err := twistSources(args)
		defer closeStore()
		if err != nil {
			return reportError(err)
		}

		reports, err := analysis.AnalyzeAll(cmd.Context(), sources, threshold, workers)
		if err != nil {
			return reportError(err)
		}
		if jsonOutput {
			return output.JSON(reports)
		}
		if len(reports) == 0 {
			fmt.Println("No patterns")
			return nil
		}
		for i, r := range reports {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(output.TwistReport(r))
		}
		return nil
	},
}

// twistSources builds one analysis source per argument, or one per library
// pattern when there are none. Library lookups share a single store, which
// the returned func closes.
func twistSources(args []string) ([]analysis.Source, func(), error) {
	var s *store.Store
	needStore := len(args) == 0
	for _, ref := range args {
		if !isPatternFile(ref) {
			needStore = true
		}
	}
	closeFn := func() {}
	if needStore {
		var err error
		if s, err = openStore(); err != nil {
			return nil, closeFn, err
		}
		closeFn = func() { s.Close() }
	}

	if len(args) == 0 {
		all, err := s.All()
		if err != nil {
			return nil, closeFn, err
		}
		sources := make([]analysis.Source, len(all))
		for i, p := range all {
			sources[i] = analysis.Static(p)
		}
		return sources, closeFn, nil
	}

	sources := make([]analysis.Source, len(args))
	for i, ref := range args {
		sources[i] = func(context.Context) (*pattern.Pattern, error) {
			var p *pattern.Pattern
			var err error
			if isPatternFile(ref) {
				p, err = loadPattern(ref)
			} else {
				p, err = resolvePattern(s, ref)
			}
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ref, err)
			}
			return p, nil
		}
	}
	return sources, closeFn, nil
}

func printPreview(p *pattern.Pattern) {
	fmt.Print(output.FormatPatternLong(p, ""))
	fmt.Print(output.SectionHeader("threading"))
	fmt.Println(output.ThreadingChart(p))
	fmt.Print(output.SectionHeader("weaving"))
	fmt.Println(output.WeavingChart(p, p.ComputePicks()))
}

// signalContext is cancelled on Ctrl-C or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

var previewCmd = &cobra.Command{
	Use:   "preview <id|name|file>",
	Short: "Draw the threading and woven band",
	Long: `Draw the threading chart and how the band will look when woven. With
--watch on a pattern file the preview redraws whenever the file is saved.`,
	Args:    cobra.ExactArgs(1),
	GroupID: "weave",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPattern(args[0])
		if err != nil {
			return reportError(err)
		}
		watchFile, _ := cmd.Flags().GetBool("watch")
		if !watchFile {
			printPreview(p)
			return nil
		}
		if !isPatternFile(args[0]) {
			return reportError(invalidf("--watch needs a pattern file, not a library pattern"))
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()

		w, err := watch.New(args[0], watch.WithLogger(slog.Default()))
		if err != nil {
			return reportError(err)
		}
		events, err := w.Start(ctx)
		if err != nil {
			return reportError(err)
		}

		term := termenv.NewOutput(os.Stdout)
		term.ClearScreen()
		printPreview(p)
		for ev := range events {
			term.ClearScreen()
			p, err := loadPattern(ev.Path)
			if err != nil {
				output.Warning("%v", err)
				continue
			}
			printPreview(p)
			output.Info("reloaded %s", ev.Time.Format("15:04:05"))
		}
		return nil
	},
}

var weaveCmd = &cobra.Command{
	Use:   "weave <id|name|file>",
	Short: "Step through a pattern row by row",
	Long: `Open an interactive view that steps through the pattern one row at a time,
showing how each tablet turns and which thread is on top. Pattern files are
reloaded when they change.`,
	Args:    cobra.ExactArgs(1),
	GroupID: "weave",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPattern(args[0])
		if err != nil {
			return reportError(err)
		}
		model := weave.NewModel(p)

		ctx, stop := signalContext(cmd.Context())
		defer stop()

		if isPatternFile(args[0]) {
			w, err := watch.New(args[0], watch.WithLogger(slog.Default()))
			if err != nil {
				return reportError(err)
			}
			events, err := w.Start(ctx)
			if err != nil {
				return reportError(err)
			}
			path := args[0]
			model = model.WithWatch(events, func() (*pattern.Pattern, error) {
				return loadPattern(path)
			})
		}

		prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return reportError(fmt.Errorf("weave view: %w", err))
		}
		return nil
	},
}

func init() {
	twistCmd.Flags().Int("threshold", 0, "Twist warning threshold (default weaving.twist_warning)")
	twistCmd.Flags().Int("workers", 0, "Patterns analysed in parallel (default: number of CPUs)")
	previewCmd.Flags().BoolP("watch", "w", false, "Redraw when the pattern file changes")

	rootCmd.AddCommand(picksCmd)
	rootCmd.AddCommand(twistCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(weaveCmd)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/kanadrill/internal/config"
	"github.com/verte-zerg/kanadrill/internal/deck"
	"github.com/verte-zerg/kanadrill/internal/model"
	"github.com/verte-zerg/kanadrill/internal/selector"
	"github.com/verte-zerg/kanadrill/internal/stats"
	"github.com/verte-zerg/kanadrill/internal/store"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newDecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List built-in and user decks",
		Args:  cobra.NoArgs,
		RunE:  runDecksCmd,
	}
}

func runDecksCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, name := range deck.BuiltinNames() {
		d, _ := deck.Builtin(name)
		if _, err := fmt.Fprintf(out, "%s\t%d cards\tgroups: %s\n", name, len(d.Cards), strings.Join(d.Groups(), ", ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	names, err := userDeckNames(config.DefaultDeckDir())
	if err != nil {
		return err
	}
	for _, name := range names {
		d, err := deck.Load(config.DefaultDeckPath(name))
		if err != nil {
			logErrf("skipping %s: %v\n", name, err)
			continue
		}
		line := fmt.Sprintf("%s\t%d cards", name, len(d.Cards))
		if groups := d.Groups(); len(groups) > 0 {
			line += "\tgroups: " + strings.Join(groups, ", ")
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func userDeckNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read deck directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tsv") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".tsv"))
	}
	sort.Strings(names)
	return names, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDeck, "deck", "", "deck filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsTop, "top", defaultTop, "number of weak characters to list")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	cfg := model.StatsConfig{
		Deck:        statsDeck,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Top:         statsTop,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), cfg.CurveWindow, stats.TerminalWidth())
}

func newWeightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Show or reset saved character weights",
		Args:  cobra.NoArgs,
		RunE:  runWeightsCmd,
	}
	cmd.Flags().BoolVar(&weightsReset, "reset", false, "delete all saved weights")
	return cmd
}

func runWeightsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	if weightsReset {
		if err := st.ResetWeights(ctx); err != nil {
			return fmt.Errorf("failed to reset weights: %w", err)
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Weights reset.")
		return err
	}
	entries, err := st.ListWeights(ctx)
	if err != nil {
		return fmt.Errorf("failed to load weights: %w", err)
	}
	return stats.RenderWeightTable(cmd.OutOrStdout(), entries)
}

func defaultConfigTemplate() string {
	p := selector.DefaultParams()
	return fmt.Sprintf(`# kanadrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# deck = %q          # Built-in deck or user deck name
# mode = %q       # recognition or reverse
# questions = %d            # Questions per round
# groups = ["gojuon"]       # Deck groups to drill
# persist-weights = true    # Keep character weights between runs

[selector]
# correct-factor = %.2f     # Weight multiplier after a correct answer
# wrong-factor = %.2f       # Weight multiplier after a miss
# min-weight = %.2f         # Lowest weight a character can reach
# max-weight = %.1f         # Highest weight a character can reach
# recent = %d               # Recent characters remembered
`,
		defaultDeck,
		defaultMode,
		defaultQuestions,
		p.CorrectFactor,
		p.WrongFactor,
		p.MinWeight,
		p.MaxWeight,
		p.RecentSize,
	)
}

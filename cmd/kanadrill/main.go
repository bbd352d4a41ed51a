// Package main provides the CLI entrypoint for kanadrill.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/kanadrill/internal/config"
	"github.com/verte-zerg/kanadrill/internal/deck"
	"github.com/verte-zerg/kanadrill/internal/drill"
	"github.com/verte-zerg/kanadrill/internal/model"
	"github.com/verte-zerg/kanadrill/internal/selector"
	"github.com/verte-zerg/kanadrill/internal/stats"
	"github.com/verte-zerg/kanadrill/internal/store"
	"github.com/verte-zerg/kanadrill/internal/tui"
)

const (
	defaultDeck        = "hiragana"
	defaultMode        = "recognition"
	defaultQuestions   = 20
	defaultCurveWindow = 10
	defaultTop         = 8
	weakWindow         = 10
)

var (
	practiceDeck           string
	practiceMode           string
	practiceQuestions      int
	practiceGroups         []string
	practicePersistWeights bool
	practiceCorrectFactor  float64
	practiceWrongFactor    float64
	practiceMinWeight      float64
	practiceMaxWeight      float64
	practiceRecent         int
	practiceSeed           int64

	statsDeck        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTop         int

	weightsReset bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kanadrill",
		Short:         "Adaptive kana, kanji and vocabulary drills",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	defaults := selector.DefaultParams()
	rootCmd.Flags().StringVar(&practiceDeck, "deck", defaultDeck, "built-in deck name or user deck name/path")
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "recognition (glyph to answer) or reverse (answer to glyph)")
	rootCmd.Flags().IntVar(&practiceQuestions, "questions", defaultQuestions, "questions per round")
	rootCmd.Flags().StringSliceVar(&practiceGroups, "groups", nil, "deck groups to drill (default: all)")
	rootCmd.Flags().BoolVar(&practicePersistWeights, "persist-weights", true, "load and save character weights between runs")
	rootCmd.Flags().Float64Var(&practiceCorrectFactor, "correct-factor", defaults.CorrectFactor, "weight multiplier after a correct answer (0-1)")
	rootCmd.Flags().Float64Var(&practiceWrongFactor, "wrong-factor", defaults.WrongFactor, "weight multiplier after a miss (>1)")
	rootCmd.Flags().Float64Var(&practiceMinWeight, "min-weight", defaults.MinWeight, "lowest weight a character can reach")
	rootCmd.Flags().Float64Var(&practiceMaxWeight, "max-weight", defaults.MaxWeight, "highest weight a character can reach")
	rootCmd.Flags().IntVar(&practiceRecent, "recent", defaults.RecentSize, "number of recent characters remembered")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed (0: time based)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDecksCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newWeightsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "deck", &practiceDeck, fileCfg.Practice.Deck)
	applyConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyConfig(cmd, "questions", &practiceQuestions, fileCfg.Practice.Questions)
	applyConfig(cmd, "groups", &practiceGroups, fileCfg.Practice.Groups)
	applyConfig(cmd, "persist-weights", &practicePersistWeights, fileCfg.Practice.PersistWeights)
	applyConfig(cmd, "correct-factor", &practiceCorrectFactor, fileCfg.Selector.CorrectFactor)
	applyConfig(cmd, "wrong-factor", &practiceWrongFactor, fileCfg.Selector.WrongFactor)
	applyConfig(cmd, "min-weight", &practiceMinWeight, fileCfg.Selector.MinWeight)
	applyConfig(cmd, "max-weight", &practiceMaxWeight, fileCfg.Selector.MaxWeight)
	applyConfig(cmd, "recent", &practiceRecent, fileCfg.Selector.Recent)

	cfg := model.Config{
		Deck:           practiceDeck,
		Mode:           practiceMode,
		Questions:      practiceQuestions,
		Groups:         practiceGroups,
		PersistWeights: practicePersistWeights,
		CorrectFactor:  practiceCorrectFactor,
		WrongFactor:    practiceWrongFactor,
		MinWeight:      practiceMinWeight,
		MaxWeight:      practiceMaxWeight,
		RecentSize:     practiceRecent,
		Seed:           practiceSeed,
	}
	params, mode, err := validateConfig(cfg)
	if err != nil {
		return err
	}

	d, err := resolveDeck(cfg.Deck, cfg.Groups)
	if err != nil {
		return err
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

	sel := prepareSelector(context.Background(), st, cfg, params, d)

	session, err := drill.New(sel, d, mode)
	if err != nil {
		return fmt.Errorf("failed to start drill: %w", err)
	}
	program := tea.NewProgram(tui.NewModel(cfg, st, sel, session), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// prepareSelector builds the drill selector. Saved weights are restored when
// persistence is on; otherwise, or when nothing was saved, characters missed
// in recent rounds of the deck start with one miss applied.
func prepareSelector(ctx context.Context, st *store.Store, cfg model.Config, params selector.Params, d deck.Deck) *selector.Selector {
	var rnd *rand.Rand
	if cfg.Seed != 0 {
		rnd = rand.New(rand.NewSource(cfg.Seed))
	}
	sel := selector.New(params, rnd)
	if cfg.PersistWeights {
		weights, err := st.LoadWeights(ctx)
		if err != nil {
			logErrf("failed to load weights: %v\n", err)
		} else if len(weights) > 0 {
			sel.Restore(weights)
			return sel
		}
	}
	if err := seedWeakChars(ctx, st, sel, d); err != nil {
		logErrf("failed to load weak characters: %v\n", err)
	}
	return sel
}

func seedWeakChars(ctx context.Context, st *store.Store, sel *selector.Selector, d deck.Deck) error {
	aggs, err := st.GetWeakChars(ctx, weakWindow, d.Name)
	if err != nil {
		return err
	}
	missed := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if _, ok := d.Card(agg.Char); ok && agg.Incorrect > 0 {
			missed = append(missed, agg)
		}
	}
	for _, key := range stats.SelectWeakChars(missed, defaultTop) {
		sel.UpdateWeight(key, false)
	}
	return nil
}

// resolveDeck finds a built-in deck, a user deck by name, or a deck file by
// path, then narrows it to groups.
func resolveDeck(name string, groups []string) (deck.Deck, error) {
	d, ok := deck.Builtin(name)
	if !ok {
		path := name
		if !strings.ContainsRune(name, os.PathSeparator) && !strings.HasSuffix(name, ".tsv") {
			path = config.DefaultDeckPath(name)
		}
		loaded, err := deck.Load(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return deck.Deck{}, fmt.Errorf("deck %q not found (built-in: %s; user decks live in %s)",
					name, strings.Join(deck.BuiltinNames(), ", "), config.DefaultDeckDir())
			}
			return deck.Deck{}, fmt.Errorf("failed to load deck: %w", err)
		}
		d = loaded
	}
	filtered := d.Filter(groups)
	if len(filtered.Cards) == 0 {
		return deck.Deck{}, fmt.Errorf("no cards in deck %q for groups %s (available: %s)",
			d.Name, strings.Join(groups, ","), strings.Join(d.Groups(), ", "))
	}
	return filtered, nil
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) (selector.Params, deck.Mode, error) {
	if cfg.Questions <= 0 {
		return selector.Params{}, "", fmt.Errorf("--questions must be > 0")
	}
	mode, err := deck.ParseMode(cfg.Mode)
	if err != nil {
		return selector.Params{}, "", fmt.Errorf("--mode: %w", err)
	}
	params := selector.Params{
		CorrectFactor: cfg.CorrectFactor,
		WrongFactor:   cfg.WrongFactor,
		MinWeight:     cfg.MinWeight,
		MaxWeight:     cfg.MaxWeight,
		RecentSize:    cfg.RecentSize,
	}
	if err := params.Validate(); err != nil {
		return selector.Params{}, "", fmt.Errorf("invalid selector tuning: %w", err)
	}
	return params, mode, nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

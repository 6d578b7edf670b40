// Package main provides the CLI entrypoint for keycost.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keycost/internal/config"
	"github.com/verte-zerg/keycost/internal/corpus"
	"github.com/verte-zerg/keycost/internal/evaluation"
	"github.com/verte-zerg/keycost/internal/inspectui"
	"github.com/verte-zerg/keycost/internal/keyboard"
	"github.com/verte-zerg/keycost/internal/model"
	"github.com/verte-zerg/keycost/internal/report"
	"github.com/verte-zerg/keycost/internal/store"
)

const (
	defaultJobs         = 4
	defaultInspectWorst = 100
	defaultCurveWindow  = 1
)

var (
	configPath string

	evalCorpora []string
	evalText    string
	evalJobs    int
	evalWorst   int
	evalSave    bool
	evalJSON    bool

	historyLayout      string
	historySince       string
	historyLast        int
	historyCurveWindow int

	corpusOut     string
	corpusSymbols string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keycost",
		Short:         "Bigram cost metrics for keyboard layouts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file (.toml, .yaml or .yml)")

	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newMetricsCmd())
	rootCmd.AddCommand(newCorpusCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func addCorpusFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&evalCorpora, "corpus", []string{config.DefaultCorpusPath()}, "bigram file with \"<count> <bigram>\" lines (repeatable)")
	cmd.Flags().StringVar(&evalText, "text", "", "plain text file to count bigrams from (overrides --corpus)")
	cmd.Flags().IntVar(&evalJobs, "jobs", defaultJobs, "layouts evaluated in parallel")
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <layout>...",
		Short: "Evaluate layouts against one or more corpora",
		Long: "Evaluate layouts against one or more corpora. A layout is either a name\n" +
			"from the [layouts] config section or a literal symbol string assigned to\n" +
			"the keys in order, with '_' leaving a key blank. With several corpora the\n" +
			"total cost of every layout is compared per corpus.",
		Args: cobra.MinimumNArgs(1),
		RunE: runEvalCmd,
	}
	addCorpusFlags(cmd)
	cmd.Flags().IntVar(&evalWorst, "worst", evaluation.DefaultWorst, "worst bigrams listed per metric")
	cmd.Flags().BoolVar(&evalSave, "save", false, "record the runs in the history database")
	cmd.Flags().BoolVar(&evalJSON, "json", false, "print results as JSON")
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <layout>...",
		Short: "Browse the most expensive bigrams interactively",
		Long:  "Browse the most expensive bigrams interactively. Several corpora are merged into one.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInspectCmd,
	}
	addCorpusFlags(cmd)
	return cmd
}

// session holds everything an evaluation needs after config and flags are merged.
type session struct {
	fileCfg   config.FileConfig
	cfg       model.EvalConfig
	evaluator *evaluation.Evaluator
	layouts   []*keyboard.Layout
	corpora   []*corpus.Corpus
}

func loadSession(cmd *cobra.Command, args []string, worst int) (*session, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringSliceConfig(cmd, "corpus", &evalCorpora, fileCfg.Evaluation.CorpusPaths())
	applyStringConfig(cmd, "text", &evalText, fileCfg.Evaluation.Text)
	applyIntConfig(cmd, "jobs", &evalJobs, fileCfg.Evaluation.Jobs)
	applyIntConfig(cmd, "worst", &worst, fileCfg.Evaluation.Worst)
	applyBoolConfig(cmd, "save", &evalSave, fileCfg.Evaluation.Save)

	corpusPaths := make([]string, 0, len(evalCorpora))
	for _, path := range evalCorpora {
		corpusPaths = append(corpusPaths, expandHome(strings.TrimSpace(path)))
	}
	cfg := model.EvalConfig{
		CorpusPaths: corpusPaths,
		TextPath:    expandHome(evalText),
		Jobs:        evalJobs,
		Worst:       worst,
		Save:        evalSave,
		JSON:        evalJSON,
	}
	if err := validateEvalConfig(cfg); err != nil {
		return nil, err
	}

	ms, err := config.BuildMetrics(fileCfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to build metrics: %w", err)
	}
	if len(ms) == 0 {
		return nil, fmt.Errorf("no metrics enabled in %s", configPath)
	}
	kb, err := config.BuildKeyboard(fileCfg.Keyboard)
	if err != nil {
		return nil, fmt.Errorf("failed to build keyboard: %w", err)
	}
	layouts, err := buildLayouts(fileCfg, kb, args)
	if err != nil {
		return nil, err
	}
	cs, err := loadCorpora(cfg)
	if err != nil {
		return nil, err
	}
	return &session{
		fileCfg:   fileCfg,
		cfg:       cfg,
		evaluator: evaluation.New(ms, cfg.Worst),
		layouts:   layouts,
		corpora:   cs,
	}, nil
}

func buildLayouts(fileCfg config.FileConfig, kb *keyboard.Keyboard, args []string) ([]*keyboard.Layout, error) {
	layouts := make([]*keyboard.Layout, 0, len(args))
	for _, arg := range args {
		name, symbols := fileCfg.ResolveLayout(arg)
		l, err := keyboard.NewLayout(name, kb, symbols)
		if err != nil {
			return nil, fmt.Errorf("invalid layout %q: %w", name, err)
		}
		layouts = append(layouts, l)
	}
	return layouts, nil
}

// loadCorpora returns the text corpus when --text is set, otherwise every bigram file in order.
func loadCorpora(cfg model.EvalConfig) ([]*corpus.Corpus, error) {
	if cfg.TextPath != "" {
		c, err := corpus.LoadText(cfg.TextPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load text: %w", err)
		}
		return []*corpus.Corpus{c}, nil
	}
	cs := make([]*corpus.Corpus, 0, len(cfg.CorpusPaths))
	for _, path := range cfg.CorpusPaths {
		c, err := corpus.LoadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("corpus not found at %s (use --corpus, --text, or: keycost corpus <text>... --out %s)", path, path)
			}
			return nil, fmt.Errorf("failed to load corpus: %w", err)
		}
		cs = append(cs, c)
	}
	return cs, nil
}

func runEvalCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd, args, evalWorst)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	runs, err := s.evaluator.EvaluateCorpora(ctx, s.layouts, s.corpora, s.cfg.Jobs)
	if err != nil {
		return fmt.Errorf("failed to evaluate layouts: %w", err)
	}

	if s.cfg.Save {
		for _, run := range runs {
			if err := saveResults(ctx, run.Results, run.Corpus); err != nil {
				return err
			}
		}
	}

	out := cmd.OutOrStdout()
	if s.cfg.JSON {
		if err := report.WriteJSON(out, runs); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	return renderRuns(out, runs, report.TerminalWidth())
}

func renderRuns(w io.Writer, runs []evaluation.CorpusResults, width int) error {
	if len(runs) == 1 {
		return renderResults(w, runs[0].Results, width)
	}
	for i, run := range runs {
		sep := "\n"
		if i == 0 {
			sep = ""
		}
		if _, err := fmt.Fprintf(w, "%s== Corpus %s ==\n\n", sep, run.Corpus); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := renderResults(w, run.Results, width); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "\nLayouts by corpus"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderCorpusMatrix(w, runs); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func renderResults(w io.Writer, results []evaluation.Result, width int) error {
	for i, res := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w, ""); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		if err := report.RenderResult(w, res, width); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if len(results) < 2 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nRanking"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderComparison(w, results, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func saveResults(ctx context.Context, results []evaluation.Result, corpusName string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	for _, res := range results {
		run, metrics := runRecords(res, corpusName)
		id, err := st.InsertRun(ctx, run, metrics)
		if err != nil {
			return fmt.Errorf("failed to save run for %s: %w", res.Layout, err)
		}
		logErrf("Saved run %s for %s\n", id, res.Layout)
	}
	return nil
}

func runRecords(res evaluation.Result, corpusName string) (model.RunRecord, []model.MetricRecord) {
	run := model.RunRecord{
		LayoutName: res.Layout,
		Layout:     res.Symbols,
		Corpus:     corpusName,
		Total:      res.Total,
	}
	metrics := make([]model.MetricRecord, 0, len(res.Metrics))
	for _, mr := range res.Metrics {
		metrics = append(metrics, model.MetricRecord{
			Kind:     mr.Kind,
			Name:     mr.Name,
			Weight:   mr.Weight,
			RawCost:  mr.RawCost,
			Cost:     mr.Cost,
			Included: mr.Included,
			Excluded: mr.Excluded,
		})
	}
	return run, metrics
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd, args, defaultInspectWorst)
	if err != nil {
		return err
	}
	c := s.corpora[0]
	if len(s.corpora) > 1 {
		c = corpus.Merge(s.corpora...)
	}
	results, err := s.evaluator.EvaluateAll(cmd.Context(), s.layouts, c, s.cfg.Jobs)
	if err != nil {
		return fmt.Errorf("failed to evaluate layouts: %w", err)
	}
	entries := make([]inspectui.Entry, len(results))
	for i, res := range results {
		entries[i] = inspectui.Entry{Layout: s.layouts[i], Result: res}
	}
	program := tea.NewProgram(inspectui.NewModel(entries), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run inspect TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved evaluation runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyLayout, "layout", "", "layout name or symbols filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg := model.HistoryConfig{
		Layout:      historyLayout,
		Since:       sinceTime,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
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

	h, err := report.BuildHistory(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := report.RenderHistory(cmd.OutOrStdout(), h, cfg.CurveWindow, report.TerminalWidth(), false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the metrics enabled by the config",
		Args:  cobra.NoArgs,
		RunE:  runMetricsCmd,
	}
}

func runMetricsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ms, err := config.BuildMetrics(fileCfg.Metrics)
	if err != nil {
		return fmt.Errorf("failed to build metrics: %w", err)
	}
	if err := report.RenderMetricKinds(cmd.OutOrStdout(), ms); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus <text-file>...",
		Short: "Count the bigrams of text files into a corpus file",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCorpusCmd,
	}
	cmd.Flags().StringVar(&corpusOut, "out", config.DefaultCorpusPath(), "output bigram file")
	cmd.Flags().StringVar(&corpusSymbols, "symbols", "", "keep only bigrams made of these symbols")
	return cmd
}

func runCorpusCmd(_ *cobra.Command, args []string) error {
	parts := make([]*corpus.Corpus, 0, len(args))
	for _, path := range args {
		c, err := corpus.LoadText(expandHome(path))
		if err != nil {
			return fmt.Errorf("failed to count bigrams: %w", err)
		}
		parts = append(parts, c)
	}
	c := corpus.Merge(parts...)
	if corpusSymbols != "" {
		c = c.Filter(corpus.SymbolFilter(corpusSymbols))
	}
	if len(c.Bigrams) == 0 {
		return fmt.Errorf("no bigrams left to write")
	}
	out := expandHome(corpusOut)
	skipped, err := corpus.WriteFile(out, c)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	if skipped > 0 {
		logErrf("Skipped %d bigrams containing tabs or line breaks\n", skipped)
	}
	logErrf("Wrote %d bigrams to %s\n", len(c.Bigrams)-skipped, out)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	if err := config.EnsureConfigFile(configPath); err != nil {
		return err
	}
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], configPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringSliceConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if len(value) == 0 || cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateEvalConfig(cfg model.EvalConfig) error {
	if cfg.Jobs <= 0 {
		return fmt.Errorf("--jobs must be > 0")
	}
	if cfg.Worst < 0 {
		return fmt.Errorf("--worst must be >= 0")
	}
	if cfg.TextPath != "" {
		return nil
	}
	if len(cfg.CorpusPaths) == 0 {
		return fmt.Errorf("--corpus or --text is required")
	}
	for _, path := range cfg.CorpusPaths {
		if path == "" {
			return fmt.Errorf("--corpus must not be empty")
		}
	}
	return nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return home + path[1:]
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

// Package main provides the CLI entrypoint for quipe.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/quipe/internal/clipboard"
	"github.com/verte-zerg/quipe/internal/config"
	"github.com/verte-zerg/quipe/internal/flow"
	"github.com/verte-zerg/quipe/internal/history"
	"github.com/verte-zerg/quipe/internal/logging"
	"github.com/verte-zerg/quipe/internal/model"
	"github.com/verte-zerg/quipe/internal/notify"
	"github.com/verte-zerg/quipe/internal/quoteapi"
	"github.com/verte-zerg/quipe/internal/store"
	"github.com/verte-zerg/quipe/internal/tui"
)

const (
	defaultHistoryLimit = 20
	defaultLogLevel     = "info"
)

var (
	flagBaseURL        string
	flagTimeout        time.Duration
	flagCategory       string
	flagTopic          string
	flagStyle          string
	flagFallbackAuthor string
	flagKeepOnError    bool
	flagWarnThreshold  int
	flagLogLevel       string
	flagLogFile        string

	generateCopy     bool
	categoriesRemote bool
	historyLimit     int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quipe",
		Short:         "TUI quote generator",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTUICmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagBaseURL, "base-url", quoteapi.DefaultBaseURL, "quote backend base URL")
	flags.DurationVar(&flagTimeout, "timeout", quoteapi.DefaultTimeout, "request timeout (0 waits indefinitely)")
	flags.StringVar(&flagCategory, "category", string(model.DefaultCategory), "quote category")
	flags.StringVar(&flagTopic, "topic", "", "quote topic (optional)")
	flags.StringVar(&flagStyle, "style", "", "writing style (optional)")
	flags.StringVar(&flagFallbackAuthor, "fallback-author", flow.DefaultFallbackAuthor, "author shown when the backend omits one")
	flags.BoolVar(&flagKeepOnError, "keep-on-error", false, "keep the last quote visible when a request fails")
	flags.IntVar(&flagWarnThreshold, "warn-threshold", flow.DefaultWarnThreshold, "request count that triggers a slow-down warning")
	flags.StringVar(&flagLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&flagLogFile, "log-file", config.DefaultLogPath(), "log file path (empty disables logging)")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newRandomCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newCountCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles the dependencies shared by commands.
type app struct {
	cfg    model.Config
	client *quoteapi.Client
	store  *store.Store
	logger *log.Logger

	closers []io.Closer
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	client := quoteapi.NewClient(cfg.BaseURL, quoteapi.WithTimeout(cfg.Timeout))
	logger.Debug("resolved config", "base_url", client.BaseURL(), "timeout", cfg.Timeout, "category", cfg.Preferences.Category)
	return &app{
		cfg:     cfg,
		client:  client,
		store:   st,
		logger:  logger,
		closers: []io.Closer{st, logCloser},
	}, nil
}

func (a *app) controller(notifier notify.Notifier) *flow.Controller {
	return flow.New(flow.Options{
		API:            a.client,
		Counter:        a.store,
		History:        a.store,
		Clipboard:      clipboard.System{},
		Notifier:       notifier,
		Logger:         a.logger,
		FallbackAuthor: a.cfg.FallbackAuthor,
		KeepOnError:    a.cfg.KeepOnError,
		WarnThreshold:  a.cfg.WarnThreshold,
	})
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			logErrf("failed to close: %v\n", err)
		}
	}
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	notes := tui.NewNotifier()
	ctrl := a.controller(notes)
	if _, err := ctrl.LoadCount(ctx); err != nil {
		a.logger.Warn("failed to load request count", "err", err)
	}

	m := tui.NewModel(ctx, ctrl, notes, a.cfg.Preferences)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one quote and print it",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	cmd.Flags().BoolVar(&generateCopy, "copy", false, "copy the quote to the clipboard")
	return cmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	return runOneShot(cmd, func(ctx context.Context, ctrl *flow.Controller, prefs model.Preferences) (model.QuoteResult, error) {
		return ctrl.Generate(ctx, prefs)
	})
}

func newRandomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print a quote from a random category",
		Args:  cobra.NoArgs,
		RunE:  runRandomCmd,
	}
	cmd.Flags().BoolVar(&generateCopy, "copy", false, "copy the quote to the clipboard")
	return cmd
}

func runRandomCmd(cmd *cobra.Command, _ []string) error {
	return runOneShot(cmd, func(ctx context.Context, ctrl *flow.Controller, _ model.Preferences) (model.QuoteResult, error) {
		return ctrl.Random(ctx)
	})
}

type fetchFunc func(ctx context.Context, ctrl *flow.Controller, prefs model.Preferences) (model.QuoteResult, error)

func runOneShot(cmd *cobra.Command, fetch fetchFunc) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ctrl := a.controller(newStderrNotifier(cmd.ErrOrStderr()))
	result, err := fetch(ctx, ctrl, a.cfg.Preferences)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "\"%s\"\n\n  — %s\n", result.Text, result.Author); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if generateCopy {
		if err := ctrl.Copy(); err != nil {
			return fmt.Errorf("failed to copy quote: %w", err)
		}
	}
	return nil
}

// newStderrNotifier prints notifications that matter outside the TUI.
func newStderrNotifier(w io.Writer) notify.Notifier {
	return notify.NotifierFunc(func(n notify.Notification) {
		switch n.Kind {
		case notify.KindWarning, notify.KindError:
			logTo(w, "%s: %s\n", n.Kind, n.Text)
		case notify.KindInfo:
			logTo(w, "%s\n", n.Text)
		}
	})
}

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List quote categories",
		Args:  cobra.NoArgs,
		RunE:  runCategoriesCmd,
	}
	cmd.Flags().BoolVar(&categoriesRemote, "remote", false, "ask the backend for its categories")
	return cmd
}

func runCategoriesCmd(cmd *cobra.Command, _ []string) error {
	var names []string
	if categoriesRemote {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		client := quoteapi.NewClient(cfg.BaseURL, quoteapi.WithTimeout(cfg.Timeout))
		names, err = client.Categories(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch categories: %w", err)
		}
	} else {
		for _, c := range model.Categories() {
			names = append(names, string(c))
		}
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the quote backend",
		Args:  cobra.NoArgs,
		RunE:  runHealthCmd,
	}
}

func runHealthCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	client := quoteapi.NewClient(cfg.BaseURL, quoteapi.WithTimeout(cfg.Timeout))
	health, err := client.Health(cmd.Context())
	if err != nil {
		logErrf("Make sure the server is running at %s\n", client.BaseURL())
		return fmt.Errorf("health check failed: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "status: %s\nversion: %s\nmodel: %s\n", health.Status, health.Version, health.Model)
	return err
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show generated quotes",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "number of quotes to show (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
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

	report, err := history.BuildReport(cmd.Context(), st, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return history.Render(cmd.OutOrStdout(), report, outputWidth(), time.Local)
}

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the successful request count",
		Args:  cobra.NoArgs,
		RunE:  runCountCmd,
	}
}

func runCountCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
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
	count, err := st.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read request count: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\n", count); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if count > cfg.WarnThreshold {
		logErrf("%s (%d > %d)\n", flow.MsgSlowDown, count, cfg.WarnThreshold)
	}
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
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func outputWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

func logErrf(format string, args ...any) {
	logTo(os.Stderr, format, args...)
}

func logTo(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

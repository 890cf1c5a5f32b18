// Package cmd implements the qburn CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/cli"
	"github.com/theirongolddev/qburn/internal/cli/theme"
	"github.com/theirongolddev/qburn/internal/config"
	"github.com/theirongolddev/qburn/internal/logger"
	"github.com/theirongolddev/qburn/internal/provider"
	"github.com/theirongolddev/qburn/internal/usage"
)

var (
	flagShowAntigravity bool
	flagAll             bool
	flagAuthFile        string
	flagTimeout         time.Duration
	flagVerbose         bool
	flagNoColor         bool
	flagJSON            bool
)

var rootCmd = &cobra.Command{
	Use:   "qburn",
	Short: "AI coding assistant quota CLI",
	Long: "Show usage, remaining quota, time to reset and pace for Codex, Claude,\n" +
		"Copilot, Z.ai and Antigravity, read from your local opencode credentials.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runUsage,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAuthFile, "auth-file", "", "Credential file (default: auto-detect opencode auth.json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.Flags().BoolVar(&flagShowAntigravity, "show-antigravity", false, "Expand Antigravity per-model quotas")
	rootCmd.Flags().BoolVar(&flagAll, "all", false, "Show providers without credentials or not running")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Per-provider request timeout (default from config, 10s)")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "Print results as JSON")
}

// session is the per-invocation state shared by all commands.
type session struct {
	cfg config.Config
	log *zap.Logger
	ctx context.Context
}

// newSession loads config, builds the logger and applies appearance settings.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(flagVerbose, os.Getenv("QBURN_LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	theme.SetActive(config.ThemeName(cfg))
	cli.SetColor(!flagNoColor && os.Getenv("NO_COLOR") == "" && cli.IsTerminal(os.Stdout))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return &session{cfg: cfg, log: log, ctx: logger.ContextWithLogger(ctx, log)}, nil
}

// authPath resolves the credential file: flag, then env or config, then
// the default search path.
func (s *session) authPath() (string, error) {
	if flagAuthFile != "" {
		return flagAuthFile, nil
	}
	if p := config.AuthFile(s.cfg); p != "" {
		return p, nil
	}
	return auth.DefaultPath()
}

func (s *session) loadCredentials() (auth.Store, string, error) {
	path, err := s.authPath()
	if err != nil {
		return nil, "", err
	}
	creds, err := auth.Load(path)
	if err != nil {
		return nil, path, err
	}
	s.log.Debug("credentials loaded", zap.String("path", path), zap.Int("entries", len(creds)))
	return creds, path, nil
}

func (s *session) timeout() time.Duration {
	if flagTimeout > 0 {
		return flagTimeout
	}
	return config.Timeout(s.cfg)
}

func runUsage(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.log.Sync() }()

	creds, _, err := s.loadCredentials()
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return fmt.Errorf("%w\nRun `qburn --auth-file PATH` or set QBURN_AUTH_FILE", err)
		}
		return err
	}

	adapters := buildAdapters(s.cfg, s.timeout())

	var results []usage.ProviderUsage
	fetch := func(ctx context.Context) error {
		results = provider.FetchAll(ctx, adapters, creds)
		return nil
	}
	if !flagJSON && !flagVerbose && cli.IsTerminal(os.Stderr) {
		err = cli.WithSpinner(s.ctx, os.Stderr, "Fetching usage...", fetch)
	} else {
		err = fetch(s.ctx)
	}
	if err != nil {
		return err
	}

	results = provider.Visible(results, flagAll)
	provider.Sort(results)
	now := time.Now()

	if flagJSON {
		return cli.WriteJSON(os.Stdout, results, now)
	}

	if len(results) == 0 {
		fmt.Println("  No providers with credentials found. Run with --all to list every provider.")
		return nil
	}

	showSub := flagShowAntigravity || s.cfg.General.ShowAntigravity
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.UsageTable(results, now, showSub)))
	return nil
}

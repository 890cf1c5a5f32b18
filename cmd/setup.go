package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/qburn/internal/cli/theme"
	"github.com/theirongolddev/qburn/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupAnswers holds the wizard's form values.
type setupAnswers struct {
	AuthFile        string
	Theme           string
	Disabled        []string
	ShowAntigravity bool
	Timeout         string
}

func answersFrom(cfg config.Config) setupAnswers {
	return setupAnswers{
		AuthFile:        cfg.General.AuthFile,
		Theme:           cfg.Appearance.Theme,
		Disabled:        append([]string(nil), cfg.Providers.Disabled...),
		ShowAntigravity: cfg.General.ShowAntigravity,
		Timeout:         strconv.Itoa(int(config.Timeout(cfg).Seconds())),
	}
}

func validateTimeout(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive number of seconds")
	}
	return nil
}

// apply writes the answers onto cfg.
func (a setupAnswers) apply(cfg config.Config) (config.Config, error) {
	if err := validateTimeout(a.Timeout); err != nil {
		return cfg, err
	}
	secs, _ := strconv.Atoi(strings.TrimSpace(a.Timeout))

	cfg.General.AuthFile = strings.TrimSpace(a.AuthFile)
	cfg.General.TimeoutSeconds = secs
	cfg.General.ShowAntigravity = a.ShowAntigravity
	cfg.Appearance.Theme = theme.ByName(a.Theme).Name
	cfg.Providers.Disabled = a.Disabled
	return cfg, nil
}

func newSetupForm(a *setupAnswers, providers []huh.Option[string]) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Credential file").
				Description("Path to opencode auth.json. Leave blank to auto-detect.").
				Value(&a.AuthFile),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&a.Theme),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Disabled providers").
				Description("Selected providers are never queried.").
				Options(providers...).
				Value(&a.Disabled),
			huh.NewConfirm().
				Title("Expand Antigravity per-model quotas by default?").
				Value(&a.ShowAntigravity),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Validate(validateTimeout).
				Value(&a.Timeout),
		),
	)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.log.Sync() }()

	var opts []huh.Option[string]
	for _, a := range allAdapters(s.cfg, s.timeout()) {
		opts = append(opts, huh.NewOption(a.Name(), a.Key()))
	}

	answers := answersFrom(s.cfg)
	fmt.Println()
	fmt.Println("  Welcome to qburn!")
	fmt.Println()

	if err := newSetupForm(&answers, opts).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	cfg, err := answers.apply(s.cfg)
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `qburn setup` anytime to reconfigure.")
	return nil
}

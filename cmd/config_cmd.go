package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/config"
	"github.com/theirongolddev/qburn/internal/provider"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.log.Sync() }()
	cfg := s.cfg

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if path, err := s.authPath(); err == nil {
		fmt.Printf("    Credential file:  %s\n", path)
	} else {
		fmt.Println("    Credential file:  not found")
		fmt.Printf("    Searched:         %s\n", strings.Join(auth.Candidates(), ", "))
	}
	fmt.Printf("    Timeout:          %s\n", s.timeout())
	fmt.Printf("    Show Antigravity: %v\n", cfg.General.ShowAntigravity)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", config.ThemeName(cfg))
	fmt.Println()

	fmt.Println("  [Providers]")
	if len(cfg.Providers.Disabled) > 0 {
		fmt.Printf("    Disabled: %s\n", strings.Join(cfg.Providers.Disabled, ", "))
	} else {
		fmt.Println("    Disabled: none")
	}
	fmt.Println()

	fmt.Println("  [Endpoints]")
	overridden := false
	for _, key := range []string{provider.KeyCodex, provider.KeyClaude, provider.KeyCopilot, provider.KeyZai} {
		if url := config.Endpoint(cfg, key); url != "" {
			fmt.Printf("    %-16s %s\n", key+":", url)
			overridden = true
		}
	}
	if !overridden {
		fmt.Println("    (defaults)")
	}
	fmt.Println()

	fmt.Println("  Run `qburn setup` to reconfigure.")
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/cli"
	"github.com/theirongolddev/qburn/internal/config"
	"github.com/theirongolddev/qburn/internal/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List providers and whether credentials are configured",
	Args:  cobra.NoArgs,
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.log.Sync() }()

	creds, path, err := s.loadCredentials()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, 5)
	for _, a := range allAdapters(s.cfg, s.timeout()) {
		rows = append(rows, []string{a.Name(), a.Key(), credentialStatus(creds, a.Key()), enabledStatus(s.cfg, a.Key())})
	}

	fmt.Printf("  Credentials: %s\n\n", path)
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Provider", "Key", "Credentials", "Enabled"},
		Rows:    rows,
	}))
	return nil
}

func credentialStatus(creds auth.Store, key string) string {
	if key == provider.KeyAntigravity {
		return "local app"
	}
	c, err := creds.Get(key)
	if err != nil {
		return "missing"
	}
	if c.IsAPI() {
		return "api key " + maskAPIKey(c.Key)
	}
	return c.Type
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}

func enabledStatus(cfg config.Config, key string) string {
	if config.Disabled(cfg, key) {
		return "no"
	}
	return "yes"
}

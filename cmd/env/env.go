package env

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/lp-custody/internal/config"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the effective server configuration",
		Run: func(_ *cobra.Command, _ []string) {
			printEnv()
		},
	}
}

func printEnv() {
	cfg := config.DefaultServiceConfigFromEnv()

	// never print credentials
	if cfg.EVM.PrivateKey != "" {
		cfg.EVM.PrivateKey = "<redacted>"
	}
	if cfg.Management.Secret != "" {
		cfg.Management.Secret = "<redacted>"
	}
	if cfg.Database.ConnectionString != "" {
		cfg.Database.ConnectionString = "<redacted>"
	}

	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal server config")
	}

	fmt.Println(string(b))
}

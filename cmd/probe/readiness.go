package probe

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/lp-custody/internal/config"
)

func newReadiness() *cobra.Command {
	return &cobra.Command{
		Use:   "readiness",
		Short: "Checks whether the server is ready to accept requests",
		Run: func(_ *cobra.Command, _ []string) {
			runProbe("/-/ready")
		},
	}
}

// runProbe hits a management endpoint of the locally running server and
// exits non-zero unless it answers 200. Used as container health check.
func runProbe(path string) {
	cfg := config.DefaultServiceConfigFromEnv()

	listen := cfg.Echo.ListenAddress
	if strings.HasPrefix(listen, ":") {
		listen = "localhost" + listen
	}

	target := fmt.Sprintf("http://%s%s", listen, path)
	if cfg.Management.Secret != "" {
		target += "?mgmt_secret=" + url.QueryEscape(cfg.Management.Secret)
	}

	client := &http.Client{Timeout: cfg.Management.ReadinessTimeout}

	res, err := client.Get(target)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Probe request failed")
		os.Exit(1)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		log.Error().Int("status", res.StatusCode).Str("body", string(body)).Msg("Probe failed")
		os.Exit(1)
	}

	fmt.Println(strings.TrimSpace(string(body)))
}

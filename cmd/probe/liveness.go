package probe

import (
	"github.com/spf13/cobra"
)

func newLiveness() *cobra.Command {
	return &cobra.Command{
		Use:   "liveness",
		Short: "Checks whether the server process is live",
		Run: func(_ *cobra.Command, _ []string) {
			runProbe("/-/healthy")
		},
	}
}

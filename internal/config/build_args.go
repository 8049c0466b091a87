package config

import "fmt"

// ModuleName is the name of this service as shown in version output and logs.
const ModuleName = "lp-custody"

// The following variables are set at build time via -ldflags.
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// GetFormattedBuildArgs returns "<ModuleName> @ <commit> (<build date>)".
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}

package cli

import (
	"fmt"

	"github.com/coderlm/coderlm/internal/httpapi"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("coderlm version %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate))
	httpapi.SetVersion(Version)
}

package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jedwards1230/pipelines/cmd/internal/logger"
	"github.com/jedwards1230/pipelines/config"
)

// NewVersionCommand initializes command to get version
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the version information",
		Example: "pipelines version",
		RunE: func(*cobra.Command, []string) error {
			l := logger.NewDefaultLogger()
			l.Info(fmt.Sprintf("pipelines: %s", logger.ColoredNotice("%s-%s", config.BuildVersion, config.BuildCommit)))
			if config.BuildDate != "" {
				l.Info(fmt.Sprintf("built: %s", config.BuildDate))
			}
			return nil
		},
	}
}

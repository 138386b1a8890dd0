package cmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/raystack/salt/cmdx"
	cli "github.com/spf13/cobra"

	"github.com/jedwards1230/pipelines/cmd/setup"
	"github.com/jedwards1230/pipelines/cmd/start"
	"github.com/jedwards1230/pipelines/cmd/version"
)

// New constructs the 'root' command. It houses all other sub commands
func New() *cli.Command {
	cmd := &cli.Command{
		Use: "pipelines <command> [flags]",
		Long: heredoc.Doc(`
			Pipelines bootstraps a plugin-style runtime: it fetches pipeline
			files from remote sources, installs the dependencies each of them
			declares, and only then starts the service process.

			Sources are configured through PIPELINES_URLS as a ';'-separated
			list of GitHub blob/tree/archive URLs, direct script URLs, or
			repository URLs.`),
		SilenceUsage: true,
		Example: heredoc.Doc(`
			$ pipelines setup
			$ pipelines start
			$ PIPELINES_URLS="https://github.com/org/repo/blob/main/pipe.py" pipelines setup
		`),
		Annotations: map[string]string{
			"group:core": "true",
			"help:learn": heredoc.Doc(`
				Use 'pipelines <command> --help' for more information about a command.
			`),
		},
	}

	cmdx.SetHelp(cmd)

	cmd.AddCommand(
		setup.NewSetupCommand(),
		start.NewStartCommand(),
		version.NewVersionCommand(),
	)
	return cmd
}

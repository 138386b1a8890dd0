package setup

import (
	"context"

	"github.com/raystack/salt/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jedwards1230/pipelines/cmd/internal/logger"
	"github.com/jedwards1230/pipelines/cmd/internal/progressbar"
	"github.com/jedwards1230/pipelines/config"
	"github.com/jedwards1230/pipelines/pipeline"
)

type setupCommand struct {
	logger         log.Logger
	configFilePath string
	verbose        bool
	conf           *config.Pipelines
}

// NewSetupCommand initializes command to bootstrap the pipelines dir
func NewSetupCommand() *cobra.Command {
	s := &setupCommand{}
	cmd := &cobra.Command{
		Use:     "setup",
		Short:   "Fetch pipelines and install their dependencies",
		Example: "pipelines setup [--config ./pipelines.yaml]",
		RunE:    s.RunE,
		PreRunE: s.PreRunE,
	}
	cmd.Flags().StringVarP(&s.configFilePath, "config", "c", config.EmptyPath, "File path for bootstrap configuration")
	cmd.Flags().BoolVarP(&s.verbose, "verbose", "v", false, "Stream dependency installer output")
	return cmd
}

func (s *setupCommand) PreRunE(_ *cobra.Command, _ []string) error {
	conf, err := config.LoadConfig(s.configFilePath)
	if err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	if s.verbose {
		conf.VerboseInstall = true
	}
	s.conf = conf
	s.logger = logger.NewClientLogger(conf.Log)
	return nil
}

func (s *setupCommand) RunE(cmd *cobra.Command, _ []string) error {
	return Run(cmd.Context(), s.logger, s.conf)
}

// Run executes one full acquisition run with the given configuration.
// Shared with the start command, which performs it before handing off.
func Run(ctx context.Context, l log.Logger, conf *config.Pipelines) error {
	fetcher, err := pipeline.NewGetterFetcher(l)
	if err != nil {
		return err
	}
	installer, err := pipeline.NewPipInstaller(afero.NewOsFs(), l, pipeline.NewExecCommandRunner(), conf.VerboseInstall)
	if err != nil {
		return err
	}
	orchestrator, err := pipeline.NewOrchestrator(afero.NewOsFs(), l, fetcher, installer)
	if err != nil {
		return err
	}

	bar := progressbar.NewProgressBar()
	bar.Start("bootstrapping pipelines")
	defer bar.Stop()

	runCfg := pipeline.RunConfig{
		Dir:              conf.Dir,
		Reset:            conf.Reset,
		Locators:         pipeline.SplitList(conf.URLs),
		RequirementsPath: conf.RequirementsPath,
		Progress: func(done, total int) {
			if done == 0 {
				bar.Stop()
				bar.StartProgress(total, "fetching pipeline sources")
				return
			}
			_ = bar.SetProgress(done)
		},
	}
	if err := orchestrator.Run(ctx, runCfg); err != nil {
		bar.Stop()
		l.Error(logger.ColoredError("pipelines bootstrap failed: %s", err))
		return err
	}
	bar.Stop()
	l.Info(logger.ColoredSuccess("pipelines dir [%s] is ready", conf.Dir))
	return nil
}

package start

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/raystack/salt/log"
	"github.com/spf13/cobra"

	"github.com/jedwards1230/pipelines/cmd/internal/logger"
	"github.com/jedwards1230/pipelines/cmd/setup"
	"github.com/jedwards1230/pipelines/config"
)

type startCommand struct {
	logger         log.Logger
	configFilePath string
	conf           *config.Pipelines
}

// NewStartCommand initializes command to bootstrap and then hand off to
// the pipelines service process
func NewStartCommand() *cobra.Command {
	s := &startCommand{}
	cmd := &cobra.Command{
		Use:     "start",
		Short:   "Bootstrap the pipelines dir and start the service",
		Example: "pipelines start [--config ./pipelines.yaml]",
		RunE:    s.RunE,
		PreRunE: s.PreRunE,
	}
	cmd.Flags().StringVarP(&s.configFilePath, "config", "c", config.EmptyPath, "File path for bootstrap configuration")
	return cmd
}

func (s *startCommand) PreRunE(_ *cobra.Command, _ []string) error {
	conf, err := config.LoadConfig(s.configFilePath)
	if err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	s.conf = conf
	s.logger = logger.NewClientLogger(conf.Log)
	return nil
}

func (s *startCommand) RunE(cmd *cobra.Command, _ []string) error {
	// the service must never start against a partially provisioned dir
	if err := setup.Run(cmd.Context(), s.logger, s.conf); err != nil {
		return err
	}
	return s.handOff(cmd)
}

func (s *startCommand) handOff(cmd *cobra.Command) error {
	argv := strings.Fields(s.conf.Serve.Command)
	if len(argv) == 0 {
		return fmt.Errorf("serve command [%s] is empty", s.conf.Serve.Command)
	}
	argv = append(argv,
		"--host", s.conf.Serve.Host,
		"--port", strconv.Itoa(s.conf.Serve.Port),
		"--forwarded-allow-ips", "*",
	)
	s.logger.Info(logger.ColoredNotice("starting service on %s:%d", s.conf.Serve.Host, s.conf.Serve.Port))

	service := exec.CommandContext(cmd.Context(), argv[0], argv[1:]...)
	service.Stdin = os.Stdin
	service.Stdout = os.Stdout
	service.Stderr = os.Stderr
	if err := service.Run(); err != nil {
		return fmt.Errorf("service process exited: %w", err)
	}
	return nil
}

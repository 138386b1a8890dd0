package pipeline

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/raystack/salt/log"
	"github.com/spf13/afero"
)

const defaultPipBinary = "pip"

// CommandRunner executes a command and waits for it to finish. The
// returned error carries the non-zero exit status.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

type execCommandRunner struct{}

// NewExecCommandRunner initializes a runner backed by os/exec
func NewExecCommandRunner() CommandRunner {
	return execCommandRunner{}
}

func (execCommandRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Installer installs dependency manifests and package lists into the
// runtime environment
type Installer interface {
	InstallManifest(ctx context.Context, manifestPath, sourceLabel string) error
	InstallPackages(ctx context.Context, packages []string, sourceLabel string) error
}

// PipInstaller shells out to pip. In verbose mode installer output is
// streamed to the logger writer, otherwise it is discarded.
type PipInstaller struct {
	fs      afero.Fs
	logger  log.Logger
	runner  CommandRunner
	verbose bool
	binary  string
}

// NewPipInstaller initializes the default installer
func NewPipInstaller(fs afero.Fs, logger log.Logger, runner CommandRunner, verbose bool) (*PipInstaller, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if runner == nil {
		return nil, ErrNilCommandRunner
	}
	return &PipInstaller{
		fs:      fs,
		logger:  logger,
		runner:  runner,
		verbose: verbose,
		binary:  defaultPipBinary,
	}, nil
}

// InstallManifest installs a requirements manifest file. A missing
// manifest is not an error, only a logged skip.
func (p *PipInstaller) InstallManifest(ctx context.Context, manifestPath, sourceLabel string) error {
	if manifestPath == "" {
		p.logger.Info(fmt.Sprintf("no requirements file configured, skipping install for [%s]", sourceLabel))
		return nil
	}
	info, err := p.fs.Stat(manifestPath)
	if err != nil || info.IsDir() {
		p.logger.Info(fmt.Sprintf("requirements file [%s] not found, skipping install for [%s]", manifestPath, sourceLabel))
		return nil
	}
	p.logger.Info(fmt.Sprintf("installing requirements from [%s]", manifestPath))
	if err := p.run(ctx, "install", "-r", manifestPath); err != nil {
		return fmt.Errorf("error installing requirements for [%s]: %w", sourceLabel, err)
	}
	return nil
}

// InstallPackages installs an ordered package list. An empty list is a
// logged no-op.
func (p *PipInstaller) InstallPackages(ctx context.Context, packages []string, sourceLabel string) error {
	if len(packages) == 0 {
		p.logger.Info(fmt.Sprintf("no requirements found for [%s]", sourceLabel))
		return nil
	}
	p.logger.Info(fmt.Sprintf("installing [%s] for [%s]", strings.Join(packages, " "), sourceLabel))
	if err := p.run(ctx, append([]string{"install"}, packages...)...); err != nil {
		return fmt.Errorf("error installing requirements for [%s]: %w", sourceLabel, err)
	}
	return nil
}

func (p *PipInstaller) run(ctx context.Context, args ...string) error {
	out := io.Discard
	if p.verbose {
		out = p.logger.Writer()
	}
	return p.runner.Run(ctx, p.binary, args, out, out)
}

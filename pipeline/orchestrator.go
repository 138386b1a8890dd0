package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/raystack/salt/log"
	"github.com/spf13/afero"
)

// pipelineExtension marks the files the runtime loads as plugins
const pipelineExtension = ".py"

// RunConfig carries the inputs of a single acquisition run
type RunConfig struct {
	Dir              string
	Reset            bool
	Locators         []string
	RequirementsPath string

	// Progress, when set, is invoked as the fetch phase advances: once
	// with (0, total) before the first fetch and once per fetched
	// locator. It is not invoked when the fetch phase is skipped.
	Progress func(done, total int)
}

// Orchestrator sequences a full acquisition run: preinstall the aggregate
// requirements, reset the destination, fetch every locator, then install
// the dependencies each discovered pipeline declares. Execution is
// strictly sequential and the first failure of any step aborts the run.
type Orchestrator struct {
	fs        afero.Fs
	logger    log.Logger
	resetter  *DirectoryResetter
	fetcher   Fetcher
	installer Installer
}

// NewOrchestrator initializes an orchestrator
func NewOrchestrator(fsys afero.Fs, logger log.Logger, fetcher Fetcher, installer Installer) (*Orchestrator, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	if installer == nil {
		return nil, ErrNilInstaller
	}
	resetter, err := NewDirectoryResetter(fsys, logger)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		fs:        fsys,
		logger:    logger,
		resetter:  resetter,
		fetcher:   fetcher,
		installer: installer,
	}, nil
}

// Run executes one acquisition run
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) error {
	if cfg.RequirementsPath != "" {
		if err := o.installer.InstallManifest(ctx, cfg.RequirementsPath, cfg.RequirementsPath); err != nil {
			return err
		}
	}
	if err := o.resetter.Reset(cfg.Dir, cfg.Reset); err != nil {
		return err
	}
	if len(cfg.Locators) == 0 {
		o.logger.Info("no pipeline sources configured, skipping download")
		return nil
	}
	if err := o.fetchAll(ctx, cfg); err != nil {
		return err
	}
	files, err := o.discover(cfg.Dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		requirements, err := ExtractRequirements(o.fs, file)
		if err != nil {
			return err
		}
		if err := o.installer.InstallPackages(ctx, requirements, file); err != nil {
			return err
		}
	}
	o.logger.Info(fmt.Sprintf("pipelines dir [%s] is ready", cfg.Dir))
	return nil
}

// fetchAll fetches every locator in list order. When reset was not
// requested and the destination is already populated, the fetch phase is
// skipped for all locators at once; partial contents are never
// re-verified per locator.
func (o *Orchestrator) fetchAll(ctx context.Context, cfg RunConfig) error {
	if !cfg.Reset {
		populated, err := o.isPopulated(cfg.Dir)
		if err != nil {
			return err
		}
		if populated {
			o.logger.Info(fmt.Sprintf("pipelines dir [%s] already has content, skipping download of all sources", cfg.Dir))
			return nil
		}
	}
	total := len(cfg.Locators)
	if cfg.Progress != nil {
		cfg.Progress(0, total)
	}
	for i, raw := range cfg.Locators {
		locator, err := Classify(raw)
		if err != nil {
			return err
		}
		if err := o.fetcher.Fetch(ctx, locator, cfg.Dir); err != nil {
			return err
		}
		if cfg.Progress != nil {
			cfg.Progress(i+1, total)
		}
	}
	return nil
}

func (o *Orchestrator) isPopulated(dir string) (bool, error) {
	exists, err := afero.DirExists(o.fs, dir)
	if err != nil {
		return false, fmt.Errorf("error inspecting [%s]: %w", dir, err)
	}
	if !exists {
		return false, nil
	}
	empty, err := afero.IsEmpty(o.fs, dir)
	if err != nil {
		return false, fmt.Errorf("error inspecting [%s]: %w", dir, err)
	}
	return !empty, nil
}

// discover lists every pipeline file under dir in lexicographic path
// order so repeated runs log and install in the same sequence
func (o *Orchestrator) discover(dir string) ([]string, error) {
	exists, err := afero.DirExists(o.fs, dir)
	if err != nil || !exists {
		return nil, err
	}
	var files []string
	walkErr := afero.Walk(o.fs, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, pipelineExtension) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("error discovering pipelines under [%s]: %w", dir, walkErr)
	}
	sort.Strings(files)
	return files, nil
}

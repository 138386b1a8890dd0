package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/raystack/salt/config"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	DefaultFilename      = "pipelines"
	DefaultFileExtension = "yaml"
	DefaultEnvPrefix     = "PIPELINES"
	EmptyPath            = ""
)

// FS is swapped in tests
var FS = afero.NewReadOnlyFs(afero.NewOsFs())

// LoadConfig loads the bootstrap config from these locations:
// 1. filepath. ./pipelines <command> -c "path/to/pipelines.yaml"
// 2. env var. eg. PIPELINES_DIR, PIPELINES_URLS, etc
// 3. current directory
// A missing config file is fine, the environment alone is enough.
func LoadConfig(filePath string) (*Pipelines, error) {
	cfg := &Pipelines{}

	v := viper.New()
	v.SetFs(FS)

	opts := []config.LoaderOption{
		config.WithViper(v),
		config.WithName(DefaultFilename),
		config.WithType(DefaultFileExtension),
		config.WithEnvPrefix(DefaultEnvPrefix),
		config.WithEnvKeyReplacer(".", "_"),
	}

	if filePath != EmptyPath {
		if err := validateFilepath(FS, filePath); err != nil {
			return nil, err
		}
		opts = append(opts, config.WithFile(filePath))
	} else {
		currPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current work directory path: %w", err)
		}
		opts = append(opts, config.WithPath(currPath))
	}

	l := config.NewLoader(opts...)
	if err := l.Load(cfg); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return cfg, nil
}

func validateFilepath(fs afero.Fs, fpath string) error {
	f, err := fs.Stat(fpath)
	if err != nil {
		return err
	}
	if !f.Mode().IsRegular() {
		return fmt.Errorf("%s not a file", fpath)
	}
	return nil
}

package mock

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/jedwards1230/pipelines/pipeline"
)

type Fetcher struct {
	mock.Mock
}

func (f *Fetcher) Fetch(ctx context.Context, locator *pipeline.Locator, dstDir string) error {
	return f.Called(ctx, locator, dstDir).Error(0)
}

type Installer struct {
	mock.Mock
}

func (i *Installer) InstallManifest(ctx context.Context, manifestPath, sourceLabel string) error {
	return i.Called(ctx, manifestPath, sourceLabel).Error(0)
}

func (i *Installer) InstallPackages(ctx context.Context, packages []string, sourceLabel string) error {
	return i.Called(ctx, packages, sourceLabel).Error(0)
}

type CommandRunner struct {
	mock.Mock
}

func (r *CommandRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	return r.Called(ctx, name, args, stdout, stderr).Error(0)
}

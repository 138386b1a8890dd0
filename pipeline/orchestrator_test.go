package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/raystack/salt/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	tMock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jedwards1230/pipelines/mock"
	"github.com/jedwards1230/pipelines/pipeline"
)

func TestNewOrchestrator(t *testing.T) {
	t.Run("should return error if fetcher is nil", func(t *testing.T) {
		actualOrchestrator, actualErr := pipeline.NewOrchestrator(afero.NewMemMapFs(), log.NewNoop(), nil, &mock.Installer{})

		assert.Nil(t, actualOrchestrator)
		assert.ErrorIs(t, actualErr, pipeline.ErrNilFetcher)
	})

	t.Run("should return error if installer is nil", func(t *testing.T) {
		actualOrchestrator, actualErr := pipeline.NewOrchestrator(afero.NewMemMapFs(), log.NewNoop(), &mock.Fetcher{}, nil)

		assert.Nil(t, actualOrchestrator)
		assert.ErrorIs(t, actualErr, pipeline.ErrNilInstaller)
	})
}

func TestOrchestratorRun(t *testing.T) {
	ctx := context.Background()

	newOrchestrator := func(t *testing.T, fs afero.Fs, fetcher *mock.Fetcher, installer *mock.Installer) *pipeline.Orchestrator {
		t.Helper()
		orchestrator, err := pipeline.NewOrchestrator(fs, log.NewNoop(), fetcher, installer)
		require.NoError(t, err)
		return orchestrator
	}

	t.Run("should install the aggregate manifest before anything else", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		fetcher := &mock.Fetcher{}
		installer := &mock.Installer{}
		installer.On("InstallManifest", ctx, "requirements.txt", "requirements.txt").Return(nil)
		orchestrator := newOrchestrator(t, fs, fetcher, installer)

		actualErr := orchestrator.Run(ctx, pipeline.RunConfig{
			Dir:              "pipelines",
			RequirementsPath: "requirements.txt",
		})

		assert.NoError(t, actualErr)
		installer.AssertExpectations(t)
		fetcher.AssertNotCalled(t, "Fetch")
	})

	t.Run("should stop the run when the aggregate manifest fails to install", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		fetcher := &mock.Fetcher{}
		installer := &mock.Installer{}
		installer.On("InstallManifest", ctx, "requirements.txt", "requirements.txt").Return(errors.New("install failed"))
		orchestrator := newOrchestrator(t, fs, fetcher, installer)

		actualErr := orchestrator.Run(ctx, pipeline.RunConfig{
			Dir:              "pipelines",
			RequirementsPath: "requirements.txt",
			Locators:         []string{"https://github.com/org/repo"},
		})

		assert.Error(t, actualErr)
		fetcher.AssertNotCalled(t, "Fetch")
	})

	t.Run("should succeed without fetching when no locators are configured", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		fetcher := &mock.Fetcher{}
		installer := &mock.Installer{}
		orchestrator := newOrchestrator(t, fs, fetcher, installer)

		actualErr := orchestrator.Run(ctx, pipeline.RunConfig{Dir: "pipelines"})

		assert.NoError(t, actualErr)
		fetcher.AssertNotCalled(t, "Fetch")
	})

	t.Run("should stop the run before fetching when a locator is invalid", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		fetcher := &mock.Fetcher{}
		installer := &mock.Installer{}
		orchestrator := newOrchestrator(t, fs, fetcher, installer)

		actualErr := orchestrator.Run(ctx, pipeline.RunConfig{
			Dir:      "pipelines",
			Locators: []string{"not-a-url", "https://github.com/org/repo"},
		})

		assert.ErrorIs(t, actualErr, pipeline.ErrInvalidLocator)
		fetcher.AssertNotCalled(t, "Fetch")
	})

	t.Run("should skip fetching every locator when the destination is already populated", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "pipelines/existing.py", []byte("\"\"\"\nrequirements: requests\n\"\"\"\n"), 0o644))
		fetcher := &mock.Fetcher{}
		installer := &mock.Installer{}
		installer.On("InstallPackages", ctx, []string{"requests"}, "pipelines/existing.py").Return(nil)
		orchestrator := newOrchestrator(t, fs, fetcher, installer)

		actualErr := orchestrator.Run(ctx, pipeline.RunConfig{
			Dir:   "pipelines",
			Reset: false,
			Locators: []string{
				"https://github.com/org/repo/blob/main/x.py",
				"https://github.com/org/repo/tree/main/sub",
			},
		})

		assert.NoError(t, actualErr)
		fetcher.AssertNotCalled(t, "Fetch")
		installer.AssertExpectations(t)
	})

	t.Run("should fetch every locator in order and install per discovered file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		fetcher := &mock.Fetcher{}
		installer := &mock.Installer{}

		blob := tMock.MatchedBy(func(l *pipeline.Locator) bool { return l.Strategy == pipeline.SingleBlobURL })
		tree := tMock.MatchedBy(func(l *pipeline.Locator) bool { return l.Strategy == pipeline.TreeFolderURL })
		fetcher.On("Fetch", ctx, blob, "pipelines").Run(func(tMock.Arguments) {
			require.NoError(t, afero.WriteFile(fs, "pipelines/x.py", []byte("\"\"\"\nrequirements: requests, anthropic\n\"\"\"\n"), 0o644))
		}).Return(nil).Once()
		fetcher.On("Fetch", ctx, tree, "pipelines").Run(func(tMock.Arguments) {
			require.NoError(t, afero.WriteFile(fs, "pipelines/sub/y.py", []byte("print(1)\n"), 0o644))
		}).Return(nil).Once()

		installer.On("InstallPackages", ctx, []string(nil), "pipelines/sub/y.py").Return(nil).Once()
		installer.On("InstallPackages", ctx, []string{"requests", "anthropic"}, "pipelines/x.py").Return(nil).Once()

		orchestrator := newOrchestrator(t, fs, fetcher, installer)

		actualErr := orchestrator.Run(ctx, pipeline.RunConfig{
			Dir:   "pipelines",
			Reset: true,
			Locators: []string{
				"https://github.com/org/repo/blob/main/x.py",
				"https://github.com/org/repo/tree/main/sub",
			},
		})

		assert.NoError(t, actualErr)
		fetcher.AssertExpectations(t)
		installer.AssertExpectations(t)
	})

	t.Run("should halt on the first fetch failure without trying later locators", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		fetcher := &mock.Fetcher{}
		installer := &mock.Installer{}

		first := tMock.MatchedBy(func(l *pipeline.Locator) bool { return l.Basename() == "a.py" })
		second := tMock.MatchedBy(func(l *pipeline.Locator) bool { return l.Basename() == "b.py" })
		fetcher.On("Fetch", ctx, first, "pipelines").Return(nil).Once()
		fetcher.On("Fetch", ctx, second, "pipelines").Return(errors.New("network down")).Once()

		orchestrator := newOrchestrator(t, fs, fetcher, installer)

		actualErr := orchestrator.Run(ctx, pipeline.RunConfig{
			Dir:   "pipelines",
			Reset: true,
			Locators: []string{
				"https://github.com/org/repo/blob/main/a.py",
				"https://github.com/org/repo/blob/main/b.py",
				"https://github.com/org/repo/blob/main/c.py",
			},
		})

		assert.Error(t, actualErr)
		fetcher.AssertExpectations(t)
		fetcher.AssertNumberOfCalls(t, "Fetch", 2)
		installer.AssertNotCalled(t, "InstallPackages")
	})

	t.Run("should report fetch progress per locator", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		fetcher := &mock.Fetcher{}
		installer := &mock.Installer{}
		fetcher.On("Fetch", ctx, tMock.Anything, "pipelines").Return(nil).Twice()
		orchestrator := newOrchestrator(t, fs, fetcher, installer)

		var reported [][2]int
		actualErr := orchestrator.Run(ctx, pipeline.RunConfig{
			Dir:   "pipelines",
			Reset: true,
			Locators: []string{
				"https://github.com/org/repo/blob/main/a.py",
				"https://github.com/org/repo/blob/main/b.py",
			},
			Progress: func(done, total int) {
				reported = append(reported, [2]int{done, total})
			},
		})

		assert.NoError(t, actualErr)
		assert.Equal(t, [][2]int{{0, 2}, {1, 2}, {2, 2}}, reported)
	})

	t.Run("should not report progress when fetching is skipped", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "pipelines/existing.py", []byte("print(1)\n"), 0o644))
		fetcher := &mock.Fetcher{}
		installer := &mock.Installer{}
		installer.On("InstallPackages", ctx, []string(nil), "pipelines/existing.py").Return(nil)
		orchestrator := newOrchestrator(t, fs, fetcher, installer)

		var reported int
		actualErr := orchestrator.Run(ctx, pipeline.RunConfig{
			Dir:      "pipelines",
			Locators: []string{"https://github.com/org/repo"},
			Progress: func(int, int) { reported++ },
		})

		assert.NoError(t, actualErr)
		assert.Zero(t, reported)
		fetcher.AssertNotCalled(t, "Fetch")
	})

	t.Run("should stop the run when resetting an unsafe destination", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		fetcher := &mock.Fetcher{}
		installer := &mock.Installer{}
		orchestrator := newOrchestrator(t, fs, fetcher, installer)

		actualErr := orchestrator.Run(ctx, pipeline.RunConfig{
			Dir:      "",
			Reset:    true,
			Locators: []string{"https://github.com/org/repo"},
		})

		assert.ErrorIs(t, actualErr, pipeline.ErrUnsafeDestination)
		fetcher.AssertNotCalled(t, "Fetch")
	})
}

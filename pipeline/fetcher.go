package pipeline

import (
	"archive/zip"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"
	"github.com/raystack/salt/log"
)

// Fetcher retrieves the content of one classified locator into a
// destination directory
type Fetcher interface {
	Fetch(ctx context.Context, locator *Locator, dstDir string) error
}

// GetterFetcher executes retrieval strategies through go-getter.
// Git-backed strategies require a git binary on the host.
type GetterFetcher struct {
	logger log.Logger
}

// NewGetterFetcher initializes the default fetcher
func NewGetterFetcher(logger log.Logger) (*GetterFetcher, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &GetterFetcher{logger: logger}, nil
}

func (f *GetterFetcher) Fetch(ctx context.Context, locator *Locator, dstDir string) error {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("error preparing destination [%s]: %w", dstDir, err)
	}
	switch locator.Strategy {
	case SingleBlobURL:
		return f.fetchFile(ctx, locator.RawContentURL(), dstDir, locator.Basename())
	case DirectScriptURL:
		return f.fetchFile(ctx, locator.Raw, dstDir, locator.Basename())
	case ArchiveZipURL:
		return f.fetchArchive(ctx, locator, dstDir)
	case TreeFolderURL:
		src := fmt.Sprintf("git::%s//%s?ref=%s&depth=1", locator.RepositoryURL, locator.Subdir, locator.Branch)
		return f.fetchDir(ctx, src, locator.Raw, dstDir)
	case GenericRepositoryURL:
		return f.fetchDir(ctx, "git::"+locator.Raw, locator.Raw, dstDir)
	}
	return fmt.Errorf("no fetch operation for strategy [%s]", locator.Strategy)
}

// fetchFile downloads a single file to <dstDir>/<name>. Decompressors are
// disabled so archives pass through untouched.
func (f *GetterFetcher) fetchFile(ctx context.Context, src, dstDir, name string) error {
	f.logger.Info(fmt.Sprintf("downloading [%s] to [%s]", src, dstDir))
	client := &getter.Client{
		Ctx:           ctx,
		Src:           src,
		Dst:           filepath.Join(dstDir, name),
		Pwd:           dstDir,
		Mode:          getter.ClientModeFile,
		Decompressors: map[string]getter.Decompressor{},
	}
	if err := client.Get(); err != nil {
		return fmt.Errorf("error downloading [%s]: %w", src, err)
	}
	return nil
}

// fetchArchive downloads the archive into the destination, extracts it in
// place and removes the archive file afterwards
func (f *GetterFetcher) fetchArchive(ctx context.Context, locator *Locator, dstDir string) error {
	archiveName := locator.Basename()
	if err := f.fetchFile(ctx, locator.Raw, dstDir, archiveName); err != nil {
		return err
	}
	archivePath := filepath.Join(dstDir, archiveName)
	defer os.Remove(archivePath)

	f.logger.Info(fmt.Sprintf("unzipping [%s] to [%s]", archivePath, dstDir))
	if err := unArchive(archivePath, dstDir); err != nil {
		return fmt.Errorf("error unzipping [%s]: %w", archivePath, err)
	}
	return nil
}

// fetchDir retrieves a directory source into a scratch location next to the
// destination and moves its contents in. The scratch directory is removed
// on success and failure alike.
func (f *GetterFetcher) fetchDir(ctx context.Context, src, label, dstDir string) (err error) {
	f.logger.Info(fmt.Sprintf("fetching [%s] to [%s]", label, dstDir))
	scratch, err := os.MkdirTemp(filepath.Dir(filepath.Clean(dstDir)), ".pipelines-scratch-")
	if err != nil {
		return fmt.Errorf("error creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	checkout := filepath.Join(scratch, "content")
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  checkout,
		Pwd:  scratch,
		Mode: getter.ClientModeDir,
	}
	if err := client.Get(); err != nil {
		return fmt.Errorf("error fetching [%s]: %w", label, err)
	}
	return moveContents(checkout, dstDir)
}

// moveContents renames every entry of srcDir into dstDir, replacing
// entries that already exist. Scratch directories are created on the same
// filesystem as the destination so a plain rename suffices.
func moveContents(srcDir, dstDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("error listing fetched content: %w", err)
	}
	for _, entry := range entries {
		target := filepath.Join(dstDir, entry.Name())
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("error replacing [%s]: %w", target, err)
		}
		if err := os.Rename(filepath.Join(srcDir, entry.Name()), target); err != nil {
			return fmt.Errorf("error moving [%s] into [%s]: %w", entry.Name(), dstDir, err)
		}
	}
	return nil
}

func sanitizeArchivePath(d, t string) (v string, err error) {
	v = filepath.Join(d, t)
	cleanDest := filepath.Clean(d)
	if v == cleanDest || strings.HasPrefix(v, cleanDest+string(filepath.Separator)) {
		return v, nil
	}
	return "", fmt.Errorf("content filepath is tainted: %s", t)
}

func unArchive(src, dest string) error {
	read, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer read.Close()
	for _, file := range read.File {
		err := func() error {
			if file.Mode().IsDir() {
				return nil
			}
			open, err := file.Open()
			if err != nil {
				return err
			}
			defer open.Close()
			destFileName, err := sanitizeArchivePath(dest, file.Name)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(destFileName), fs.FileMode(0o755)); err != nil {
				return err
			}
			create, err := os.Create(destFileName)
			if err != nil {
				return err
			}
			defer create.Close()
			_, err = create.ReadFrom(open)
			return err
		}()
		if err != nil {
			return err
		}
	}
	return nil
}

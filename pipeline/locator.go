package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Strategy is the retrieval strategy resolved for a source locator
type Strategy string

const (
	// SingleBlobURL is a repository blob-file URL, fetched through its raw-content counterpart
	SingleBlobURL Strategy = "single-blob"
	// TreeFolderURL is a repository tree URL pointing at a branch subdirectory
	TreeFolderURL Strategy = "tree-folder"
	// ArchiveZipURL is a release or archive URL ending in .zip
	ArchiveZipURL Strategy = "archive-zip"
	// DirectScriptURL is a direct URL to a single pipeline script
	DirectScriptURL Strategy = "direct-script"
	// GenericRepositoryURL is a repository URL to be cloned as a whole
	GenericRepositoryURL Strategy = "generic-repository"
)

// Locator is a single classified source locator
type Locator struct {
	Raw      string
	Strategy Strategy

	// populated for TreeFolderURL only
	RepositoryURL string
	Branch        string
	Subdir        string
}

// Basename returns the file name component of the locator URL
func (l *Locator) Basename() string {
	u, err := url.Parse(l.Raw)
	if err != nil {
		return path.Base(l.Raw)
	}
	return path.Base(u.Path)
}

// RawContentURL derives the downloadable counterpart of a blob-file URL
// by replacing the blob path segment with the raw path segment
func (l *Locator) RawContentURL() string {
	return strings.Replace(l.Raw, "/blob/", "/raw/", 1)
}

type locatorParser func(raw string) (*Locator, error)

// locatorParsers is the ordered chain of parsers; the first one that
// recognizes the locator wins, so the order here is a contract
var locatorParsers = []locatorParser{
	parseBlobURL,
	parseTreeURL,
	parseArchiveURL,
	parseScriptURL,
	parseRepositoryURL,
}

var (
	blobURLPattern    = regexp.MustCompile(`^https://github\.com/[^/]+/[^/]+/blob/.+$`)
	treeURLPattern    = regexp.MustCompile(`^(https://github\.com/[^/]+/[^/]+)/tree/([^/]+)/(.+?)/?$`)
	archiveURLPattern = regexp.MustCompile(`^https?://\S+\.zip$`)
	scriptURLPattern  = regexp.MustCompile(`^https?://\S+\.py$`)
	githubURLPattern  = regexp.MustCompile(`^https://github\.com/[^/]+/\S+$`)
	gitSuffixPattern  = regexp.MustCompile(`^https?://\S+\.git$`)
)

// Classify resolves a raw source locator into exactly one retrieval
// strategy. Surrounding quote characters are stripped before matching.
// A locator no parser recognizes fails with ErrInvalidLocator.
func Classify(raw string) (*Locator, error) {
	cleaned := strings.Trim(strings.TrimSpace(raw), `"'`)
	if cleaned == "" {
		return nil, ErrEmptyLocator
	}
	for _, parse := range locatorParsers {
		locator, err := parse(cleaned)
		if errors.Is(err, ErrUnrecognizedLocator) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing locator [%s]: %w", cleaned, err)
		}
		if locator != nil {
			return locator, nil
		}
	}
	return nil, fmt.Errorf("%w: [%s]", ErrInvalidLocator, cleaned)
}

func parseBlobURL(raw string) (*Locator, error) {
	if !blobURLPattern.MatchString(raw) {
		return nil, ErrUnrecognizedLocator
	}
	return &Locator{Raw: raw, Strategy: SingleBlobURL}, nil
}

func parseTreeURL(raw string) (*Locator, error) {
	groups := treeURLPattern.FindStringSubmatch(raw)
	if groups == nil {
		return nil, ErrUnrecognizedLocator
	}
	return &Locator{
		Raw:           raw,
		Strategy:      TreeFolderURL,
		RepositoryURL: groups[1],
		Branch:        groups[2],
		Subdir:        groups[3],
	}, nil
}

func parseArchiveURL(raw string) (*Locator, error) {
	if !archiveURLPattern.MatchString(raw) {
		return nil, ErrUnrecognizedLocator
	}
	return &Locator{Raw: raw, Strategy: ArchiveZipURL}, nil
}

func parseScriptURL(raw string) (*Locator, error) {
	if !scriptURLPattern.MatchString(raw) {
		return nil, ErrUnrecognizedLocator
	}
	return &Locator{Raw: raw, Strategy: DirectScriptURL}, nil
}

func parseRepositoryURL(raw string) (*Locator, error) {
	if !githubURLPattern.MatchString(raw) && !gitSuffixPattern.MatchString(raw) {
		return nil, ErrUnrecognizedLocator
	}
	return &Locator{Raw: raw, Strategy: GenericRepositoryURL}, nil
}

// SplitList splits a ';'-delimited locator list, dropping empty entries
func SplitList(raw string) []string {
	var locators []string
	for _, item := range strings.Split(raw, ";") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			locators = append(locators, trimmed)
		}
	}
	return locators
}

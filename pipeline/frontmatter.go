package pipeline

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

const (
	frontmatterMarker = `"""`
	requirementsKey   = "requirements:"
)

// ExtractRequirements scans a pipeline file for its first frontmatter block
// and returns the package list declared on its requirements line. A file
// without a complete block, or a block without the requirements key,
// yields an empty list. This is a deliberately narrow single-pass scan of
// the pipeline frontmatter convention, not a general markup parser.
func ExtractRequirements(fs afero.Fs, filePath string) ([]string, error) {
	content, err := afero.ReadFile(fs, filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading [%s]: %w", filePath, err)
	}
	block := firstFrontmatterBlock(string(content))
	for _, line := range block {
		if !strings.HasPrefix(strings.ToLower(line), requirementsKey) {
			continue
		}
		_, value, found := strings.Cut(line, ": ")
		if !found {
			return nil, nil
		}
		return splitRequirements(value), nil
	}
	return nil, nil
}

// firstFrontmatterBlock returns the lines between the first pair of marker
// lines. Later blocks are ignored, and an unclosed block does not count.
func firstFrontmatterBlock(content string) []string {
	var block []string
	inside := false
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == frontmatterMarker {
			if inside {
				return block
			}
			inside = true
			continue
		}
		if inside {
			block = append(block, line)
		}
	}
	return nil
}

func splitRequirements(value string) []string {
	var requirements []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(strings.ReplaceAll(item, "\r", ""))
		if item != "" {
			requirements = append(requirements, item)
		}
	}
	return requirements
}

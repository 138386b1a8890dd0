package utils

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal checks if file descriptor is terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

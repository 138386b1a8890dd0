package logger

import (
	"github.com/fatih/color"
)

var (
	// ColoredNotice formats a highlighted progress message
	ColoredNotice = color.New(color.Bold, color.FgCyan).SprintfFunc()
	// ColoredError formats a failure message
	ColoredError = color.New(color.Bold, color.FgHiRed).SprintfFunc()
	// ColoredSuccess formats a completion message
	ColoredSuccess = color.New(color.Bold, color.FgHiGreen).SprintfFunc()
)

package pipeline

import (
	"errors"
)

var (
	// ErrUnrecognizedLocator is returned by a single parser when the locator
	// does not match its pattern, so that the next parser can be tried
	ErrUnrecognizedLocator = errors.New("locator is not recognized")
	// ErrInvalidLocator is error when no parser recognizes a locator
	ErrInvalidLocator = errors.New("locator does not match any known source format")
	// ErrUnsafeDestination is error when the destination directory must not be reset
	ErrUnsafeDestination = errors.New("destination directory is unsafe to reset")
	// ErrEmptyLocator is error when locator is empty
	ErrEmptyLocator = errors.New("locator is empty")
	// ErrNilLogger is error when logger is nil
	ErrNilLogger = errors.New("logger is nil")
	// ErrNilFetcher is error when fetcher is nil
	ErrNilFetcher = errors.New("fetcher is nil")
	// ErrNilInstaller is error when installer is nil
	ErrNilInstaller = errors.New("installer is nil")
	// ErrNilCommandRunner is error when command runner is nil
	ErrNilCommandRunner = errors.New("command runner is nil")
)

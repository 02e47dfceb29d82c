package errors

import (
	"fmt"

	pkgErrors "github.com/pkg/errors"
)

// Kind classifies the failures of the sync monitor so that callers can react
// to them without matching on error messages.
type Kind int

const (
	// KindUnknown is any error that isn't one of the kinds below.
	KindUnknown Kind = iota

	// KindConfigMissing means a required configuration field was absent.
	KindConfigMissing

	// KindRepoNotFound means a repository's marker object doesn't exist.
	KindRepoNotFound

	// KindUploadedConfigNotFound means the uploader-side config object
	// doesn't exist.
	KindUploadedConfigNotFound

	// KindDownloadFailed means the external downloader exited with an error.
	KindDownloadFailed
)

func (k Kind) String() string {
	switch k {
	case KindConfigMissing:
		return "ConfigMissing"
	case KindRepoNotFound:
		return "RepoNotFound"
	case KindUploadedConfigNotFound:
		return "UploadedConfigNotFound"
	case KindDownloadFailed:
		return "DownloadFailed"
	default:
		return "Unknown"
	}
}

type kinded interface {
	Kind() Kind
}

// KindOf returns the Kind of `err`, looking through any context that was
// added with WithContext.
func KindOf(err error) Kind {
	var k kinded
	if pkgErrors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// IsNotFound returns whether `err` reports a missing remote object, either a
// repository marker or the uploaded config.
func IsNotFound(err error) bool {
	switch KindOf(err) {
	case KindRepoNotFound, KindUploadedConfigNotFound:
		return true
	}
	return false
}

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// Kind implements the kinded interface.
func (MissingFieldError) Kind() Kind { return KindConfigMissing }

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// RepoNotFound is returned when a repository has no marker object, either
// because it was deleted or because it was uploaded incorrectly.
type RepoNotFound struct {
	User string
	Repo string
}

func (err RepoNotFound) Error() string {
	return fmt.Sprintf("synccode repo %s not found for user %s or is "+
		"mal-formatted (metadata marker missing)", err.Repo, err.User)
}

// Kind implements the kinded interface.
func (RepoNotFound) Kind() Kind { return KindRepoNotFound }

// UploadedConfigNotFound is returned when the user hasn't uploaded their
// config yet.
type UploadedConfigNotFound struct {
	User string
}

func (err UploadedConfigNotFound) Error() string {
	return fmt.Sprintf("synccode uploaded config not found for user %s", err.User)
}

// Kind implements the kinded interface.
func (UploadedConfigNotFound) Kind() Kind { return KindUploadedConfigNotFound }

// DownloadFailed is returned when the downloader failed for a repository.
// The downloader's output is kept so that it can be inspected, but it isn't
// part of the error message.
type DownloadFailed struct {
	Repo   string
	Output []byte
	Err    error
}

func (err DownloadFailed) Error() string {
	return fmt.Sprintf("failed to download changes from synccode for repo %s", err.Repo)
}

// Kind implements the kinded interface.
func (DownloadFailed) Kind() Kind { return KindDownloadFailed }

// Unwrap returns the downloader's error.
func (err DownloadFailed) Unwrap() error { return err.Err }

// As is a thin wrapper so that callers don't need to import the standard
// errors package alongside this one.
func As(err error, target interface{}) bool {
	return pkgErrors.As(err, target)
}

// Is is a thin wrapper around the standard errors.Is.
func Is(err, target error) bool {
	return pkgErrors.Is(err, target)
}

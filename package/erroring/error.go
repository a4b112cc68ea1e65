package erroring

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindMissingArtifact Kind = "missing_artifact"
	KindConfigRead      Kind = "config_read"
	KindConfigWrite     Kind = "config_write"
	KindNameCollision   Kind = "name_collision"
	KindFileOperation   Kind = "file_operation"
	KindUnknown         Kind = "unknown"
)

var ErrMissingArtifact = errors.New("missing artifact")

// MissingArtifactError is the only recoverable kind; callers skip the step.
type MissingArtifactError struct {
	Path string
}

func (r *MissingArtifactError) Error() string {
	return fmt.Sprintf("missing artifact: %s", r.Path)
}

func (r *MissingArtifactError) Is(target error) bool {
	return target == ErrMissingArtifact
}

type ConfigReadError struct {
	Path string
	Err  error
}

func (r *ConfigReadError) Error() string {
	return fmt.Sprintf("unable to read config %s: %v", r.Path, r.Err)
}

func (r *ConfigReadError) Unwrap() error {
	return r.Err
}

type ConfigWriteError struct {
	Path string
	Err  error
}

func (r *ConfigWriteError) Error() string {
	return fmt.Sprintf("unable to write config %s: %v", r.Path, r.Err)
}

func (r *ConfigWriteError) Unwrap() error {
	return r.Err
}

type NameCollisionError struct {
	Name    string
	Sources []string
}

func (r *NameCollisionError) Error() string {
	return fmt.Sprintf("element name %q is claimed by %s", r.Name, strings.Join(r.Sources, ", "))
}

type FileOperationError struct {
	Op          string
	Source      string
	Destination string
	Err         error
}

func (r *FileOperationError) Error() string {
	if r.Destination == "" {
		return fmt.Sprintf("unable to %s %s: %v", r.Op, r.Source, r.Err)
	}
	return fmt.Sprintf("unable to %s %s to %s: %v", r.Op, r.Source, r.Destination, r.Err)
}

func (r *FileOperationError) Unwrap() error {
	return r.Err
}

func KindOf(err error) Kind {
	var configRead *ConfigReadError
	var configWrite *ConfigWriteError
	var collision *NameCollisionError
	var operation *FileOperationError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingArtifact):
		return KindMissingArtifact
	case errors.As(err, &collision):
		return KindNameCollision
	case errors.As(err, &configRead):
		return KindConfigRead
	case errors.As(err, &configWrite):
		return KindConfigWrite
	case errors.As(err, &operation):
		return KindFileOperation
	default:
		return KindUnknown
	}
}

func IsMissing(err error) bool {
	return errors.Is(err, ErrMissingArtifact)
}

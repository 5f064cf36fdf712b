package workflow

import (
	"context"
	"errors"
	"fmt"

	"iriverpla/internal/pla"
	"iriverpla/internal/playlist"
	"iriverpla/internal/reconcile"
)

// Kind classifies a generation failure.
type Kind string

const (
	KindDirectoryNotFound Kind = "DirectoryNotFound"
	KindUnencodablePath   Kind = "UnencodablePath"
	KindPathTooLong       Kind = "PathTooLong"
	KindFileWriteFailure  Kind = "FileWriteFailure"
	KindCanceled          Kind = "Canceled"
	KindUnknown           Kind = "Unknown"
)

// Classify maps err to its Kind.
func Classify(err error) Kind {
	var stepErr *StepError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &stepErr) && stepErr.Kind != "":
		return stepErr.Kind
	case errors.Is(err, reconcile.ErrDirectoryNotFound):
		return KindDirectoryNotFound
	case errors.Is(err, playlist.ErrUnencodablePath):
		return KindUnencodablePath
	case errors.Is(err, pla.ErrPathTooLong):
		return KindPathTooLong
	case errors.Is(err, pla.ErrFileWrite):
		return KindFileWriteFailure
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}

// StepError reports the step that ended a run.
type StepError struct {
	Step Step
	Kind Kind
	Err  error
}

func newStepError(step Step, err error) *StepError {
	return &StepError{Step: step, Kind: Classify(err), Err: err}
}

func (e *StepError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Step)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/santiagomed/krito/fs"
	"github.com/santiagomed/krito/installer"
	"github.com/santiagomed/krito/templates"
)

// Kind classifies a scaffolding failure.
type Kind string

const (
	KindInvalidInput    Kind = "invalid input"
	KindPathConflict    Kind = "path conflict"
	KindIO              Kind = "io error"
	KindProcess         Kind = "process error"
	KindUnknownTemplate Kind = "unknown template"
	KindCanceled        Kind = "canceled"
)

// ScaffoldError is returned by Engine.Run. Step is the step that failed;
// Prepare means the request was rejected before the pipeline started.
type ScaffoldError struct {
	Step StepType
	Kind Kind
	Err  error
}

func newScaffoldError(step StepType, err error) *ScaffoldError {
	return &ScaffoldError{Step: step, Kind: classify(err), Err: err}
}

func (e *ScaffoldError) Error() string {
	if e.Step == Prepare {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("step %d (%s): %s: %v", int(e.Step), e.Step, e.Kind, e.Err)
}

func (e *ScaffoldError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code of the failed installer process, if the
// failure came from one that ran to completion.
func (e *ScaffoldError) ExitCode() (int, bool) {
	var procErr *installer.ProcessError
	if errors.As(e.Err, &procErr) && !procErr.SpawnFailed {
		return procErr.ExitCode, true
	}
	return 0, false
}

func classify(err error) Kind {
	var procErr *installer.ProcessError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, fs.ErrPathConflict):
		return KindPathConflict
	case errors.As(err, &procErr):
		return KindProcess
	case errors.Is(err, templates.ErrUnknownTemplate):
		return KindUnknownTemplate
	default:
		return KindIO
	}
}

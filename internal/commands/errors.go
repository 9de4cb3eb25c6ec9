package commands

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to wrapped command failures. The toolbar surfaces these
// to editors, so they stay scoped to the edit pipeline.
const (
	editValidationCode      = "EDIT_COMMAND_VALIDATION_FAILED"
	editContextCanceledCode = "EDIT_COMMAND_CANCELED"
	editContextTimeoutCode  = "EDIT_COMMAND_TIMEOUT"
	editContextErrorCode    = "EDIT_COMMAND_CONTEXT_ERROR"
	editExecuteFailedCode   = "EDIT_COMMAND_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "edit command validation failed").
		WithTextCode(editValidationCode)
}

// wrapContextError distinguishes cancellation from deadline expiry so a save
// that timed out reads differently from one the editor abandoned.
func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch err {
	case context.Canceled:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "edit command cancelled").
			WithTextCode(editContextCanceledCode)
	case context.DeadlineExceeded:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "edit command deadline exceeded").
			WithTextCode(editContextTimeoutCode)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "edit command context error").
			WithTextCode(editContextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "edit command execution failed").
		WithTextCode(editExecuteFailedCode)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/storefront/internal/platform/logging"
)

// Operations that change state outside the session run as a pipeline of
// five steps; a step only runs when every earlier step succeeded:
//
//	validate  check inputs and preconditions, no side effects
//	perform   build the result
//	verify    independently check the result
//	archive   make the verified result durable or visible (publish, persist)
//	respond   shape the result for the caller

// ExecutionStep names a pipeline step.
type ExecutionStep string

// Pipeline steps in execution order.
const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the step an operation failed in. It unwraps to
// the cause so domain error checks keep working through it.
type ExecutionError struct {
	Operation string
	Step      ExecutionStep
	Cause     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s step failed: %v", e.Operation, e.Step, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// GetExecutionStep extracts the failed step from err.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

// Operation wires the steps of one pipeline. Nil steps are skipped; a nil
// Perform or Verify passes its zero value on.
//
// Type parameters: I is the input, P what Perform produces, V what Verify
// vouches for and O what the caller receives.
type Operation[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, in I) error
	Perform  func(ctx context.Context, in I) (P, error)
	Verify   func(ctx context.Context, in I, performed P) (V, error)
	Archive  func(ctx context.Context, in I, verified V) error
	Respond  func(ctx context.Context, in I, verified V) (O, error)
}

// Executor runs operations with step-level logging.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger means slog.Default().
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// step runs fn and wraps its failure with the step name.
func step(ctx context.Context, logger *slog.Logger, name string, s ExecutionStep, fn func() error) error {
	logger.Log(ctx, logging.LevelTrace, "step started", slog.String("step", string(s)))

	if err := fn(); err != nil {
		level := slog.LevelError
		if s == StepValidate {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "step failed", slog.String("step", string(s)), slog.Any("error", err))

		return &ExecutionError{Operation: name, Step: s, Cause: err}
	}

	return nil
}

// Execute runs op for input.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var (
		zero      O
		performed P
		verified  V
		out       O
	)

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	steps := []struct {
		name ExecutionStep
		run  func() error
	}{
		{StepValidate, func() error {
			if op.Validate == nil {
				return nil
			}
			return op.Validate(ctx, input)
		}},
		{StepPerform, func() (err error) {
			if op.Perform == nil {
				return nil
			}
			performed, err = op.Perform(ctx, input)
			return err
		}},
		{StepVerify, func() (err error) {
			if op.Verify == nil {
				return nil
			}
			verified, err = op.Verify(ctx, input, performed)
			return err
		}},
		{StepArchive, func() error {
			if op.Archive == nil {
				return nil
			}
			return op.Archive(ctx, input, verified)
		}},
		{StepRespond, func() (err error) {
			if op.Respond == nil {
				return nil
			}
			out, err = op.Respond(ctx, input, verified)
			return err
		}},
	}

	for _, s := range steps {
		if err := step(ctx, logger, op.Name, s.name, s.run); err != nil {
			return zero, err
		}
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}

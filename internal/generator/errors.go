package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-studio/internal/aiclient"
)

var (
	// ErrBusy is returned when an analysis or generation run is already in flight
	ErrBusy = errors.New("a pipeline run is already in progress")
	// ErrInvalidTransition is returned when an operation is not allowed in the current stage
	ErrInvalidTransition = errors.New("operation not allowed in current stage")
	// ErrStaleRun is returned when a run settles after the pipeline was reset
	ErrStaleRun = errors.New("pipeline run was superseded")
	// ErrNoUploader is returned when resume upload is not configured
	ErrNoUploader = errors.New("resume upload is not configured")
)

// ErrorKind classifies pipeline failures for logs and metrics
type ErrorKind string

// Error kinds
const (
	KindValidation ErrorKind = "validation"
	KindRequest    ErrorKind = "request"
	KindParse      ErrorKind = "parse"
	KindUnknown    ErrorKind = "unknown"
)

// User-facing messages
const (
	MsgAnalyzeFailed       = "Failed to analyze job description"
	MsgAnalysisParseFailed = "Failed to parse analysis results"
	MsgGenerateFailed      = "Failed to generate resume"
	MsgGenerateParseFailed = "Failed to parse generated resume"
	MsgNotPDF              = "Please upload a PDF file"
	MsgUploadParseFailed   = "Failed to parse the uploaded resume. Please try a different file."
)

// ValidationError blocks an action without changing the stage
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// PipelineError is a failed external call that moved the pipeline to the error stage
type PipelineError struct {
	Kind    ErrorKind
	Stage   Stage
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed (%s): %s: %v", e.Stage, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s failed (%s): %s", e.Stage, e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Classify maps an error to its kind. Cancelled or timed-out calls count as
// request failures.
func Classify(err error) ErrorKind {
	var (
		reqErr   *aiclient.RequestError
		parseErr *aiclient.ParseError
		valErr   *ValidationError
		pipeErr  *PipelineError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pipeErr):
		return pipeErr.Kind
	case errors.As(err, &valErr):
		return KindValidation
	case errors.As(err, &reqErr):
		return KindRequest
	case errors.As(err, &parseErr):
		return KindParse
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindRequest
	default:
		return KindUnknown
	}
}

// failure builds the PipelineError for a failed call made during stage
func failure(stage Stage, err error) *PipelineError {
	kind := Classify(err)
	return &PipelineError{
		Kind:    kind,
		Stage:   stage,
		Message: messageFor(stage, kind, err),
		Cause:   err,
	}
}

func messageFor(stage Stage, kind ErrorKind, err error) string {
	switch {
	case stage == StageAnalysis && kind == KindRequest:
		return MsgAnalyzeFailed
	case stage == StageAnalysis && kind == KindParse:
		return MsgAnalysisParseFailed
	case stage == StageGeneration && kind == KindRequest:
		return MsgGenerateFailed
	case stage == StageGeneration && kind == KindParse:
		return MsgGenerateParseFailed
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	if stage == StageAnalysis {
		return "Analysis failed"
	}
	return "Resume generation failed"
}

package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/aiclient"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "request", err: &aiclient.RequestError{Endpoint: "/x", StatusCode: 500}, want: KindRequest},
		{name: "wrapped parse", err: fmt.Errorf("call: %w", &aiclient.ParseError{Message: "no JSON"}), want: KindParse},
		{name: "validation", err: &ValidationError{Message: "empty"}, want: KindValidation},
		{name: "cancelled", err: context.Canceled, want: KindRequest},
		{name: "deadline", err: fmt.Errorf("wait: %w", context.DeadlineExceeded), want: KindRequest},
		{name: "pipeline keeps kind", err: &PipelineError{Kind: KindParse}, want: KindParse},
		{name: "anything else", err: errors.New("boom"), want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestFailureMessages(t *testing.T) {
	reqErr := &aiclient.RequestError{Endpoint: "/x", StatusCode: 503}
	parseErr := &aiclient.ParseError{Message: "no JSON"}

	assert.Equal(t, MsgAnalyzeFailed, failure(StageAnalysis, reqErr).Message)
	assert.Equal(t, MsgAnalysisParseFailed, failure(StageAnalysis, parseErr).Message)
	assert.Equal(t, MsgGenerateFailed, failure(StageGeneration, reqErr).Message)
	assert.Equal(t, MsgGenerateParseFailed, failure(StageGeneration, parseErr).Message)
	assert.Equal(t, "disk full", failure(StageGeneration, errors.New("disk full")).Message)

	pErr := failure(StageAnalysis, reqErr)
	assert.Equal(t, KindRequest, pErr.Kind)
	assert.True(t, errors.Is(pErr, reqErr))
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "validation error in file: Please upload a PDF file",
		(&ValidationError{Field: "file", Message: MsgNotPDF}).Error())
	assert.Equal(t, "validation error: bad", (&ValidationError{Message: "bad"}).Error())
}

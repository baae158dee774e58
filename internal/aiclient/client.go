// Package aiclient calls the streamed job analysis and resume generation
// services. A response body is drained completely, the first balanced JSON
// object is cut out of the text, checked against its schema and decoded.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

// Endpoint paths relative to the base URL
const (
	AnalyzeJobPath     = "/api/ai/analyze-job"
	GenerateResumePath = "/api/ai/generate-resume"
)

// maxBodyBytes bounds how much of a streamed body is buffered
const maxBodyBytes = 8 << 20

// Client talks to the AI services over HTTP
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the services rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze sends the job description and the candidate's skills to the
// analysis service and returns the decoded result.
func (c *Client) Analyze(ctx context.Context, req types.AnalyzeJobRequest) (*types.JobAnalysisResult, error) {
	if req.CurrentSkills == nil {
		req.CurrentSkills = []string{}
	}

	obj, err := c.call(ctx, AnalyzeJobPath, req)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate(schemas.JobAnalysis, obj); err != nil {
		return nil, c.parseFailure(AnalyzeJobPath, "analysis does not match schema", err)
	}

	var result types.JobAnalysisResult
	if err := json.Unmarshal(obj, &result); err != nil {
		return nil, c.parseFailure(AnalyzeJobPath, "failed to decode analysis", err)
	}
	normalizeAnalysis(&result)

	requestsTotal.WithLabelValues(AnalyzeJobPath, outcomeOK).Inc()
	return &result, nil
}

// Generate asks the generation service for enhanced resume content
func (c *Client) Generate(ctx context.Context, req types.GenerateResumeRequest) (*types.GeneratedContent, error) {
	if req.ExperienceLevel == "" {
		req.ExperienceLevel = types.DefaultExperienceLevel
	}

	obj, err := c.call(ctx, GenerateResumePath, req)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate(schemas.GeneratedContent, obj); err != nil {
		return nil, c.parseFailure(GenerateResumePath, "generated content does not match schema", err)
	}

	var content types.GeneratedContent
	if err := json.Unmarshal(obj, &content); err != nil {
		return nil, c.parseFailure(GenerateResumePath, "failed to decode generated content", err)
	}

	requestsTotal.WithLabelValues(GenerateResumePath, outcomeOK).Inc()
	return &content, nil
}

// call posts body to path, drains the streamed reply and returns the first
// JSON object found in it.
func (c *Client) call(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request for %s: %w", path, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, c.requestFailure(&RequestError{Endpoint: path, Message: "invalid request", Cause: err})
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.requestFailure(&RequestError{Endpoint: path, Cause: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.requestFailure(&RequestError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		})
	}

	text, err := Drain(resp.Body)
	if err != nil {
		msg := "stream interrupted"
		if errors.Is(err, ErrBodyTooLarge) {
			msg = "response too large"
		}
		return nil, c.requestFailure(&RequestError{Endpoint: path, Message: msg, Cause: err})
	}
	streamDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

	obj, ok := llm.FirstJSONObject(text)
	if !ok {
		return nil, c.parseFailure(path, "no JSON object in response", nil)
	}
	return []byte(obj), nil
}

// ErrBodyTooLarge is returned by Drain when a stream exceeds maxBodyBytes
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// Drain reads a streamed body to the end and concatenates every chunk.
// Individual chunks are never interpreted on their own.
func Drain(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return string(data), err
	}
	if len(data) > maxBodyBytes {
		return "", ErrBodyTooLarge
	}
	return string(data), nil
}

func (c *Client) requestFailure(err *RequestError) error {
	requestsTotal.WithLabelValues(err.Endpoint, outcomeRequestError).Inc()
	c.logger.Warn("ai request failed",
		zap.String("endpoint", err.Endpoint),
		zap.String("error_kind", "request"),
		zap.Int("status", err.StatusCode),
		zap.Error(err))
	return err
}

func (c *Client) parseFailure(path, msg string, cause error) error {
	requestsTotal.WithLabelValues(path, outcomeParseError).Inc()
	err := &ParseError{Endpoint: path, Message: msg, Cause: cause}
	c.logger.Warn("ai response unusable",
		zap.String("endpoint", path),
		zap.String("error_kind", "parse"),
		zap.Error(err))
	return err
}

// errorMessage pulls {"error": "..."} out of a failed response, if present
func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body types.ErrorResponse
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}

// normalizeAnalysis trims names, drops skills whose name is blank and
// defaults a missing importance to medium.
func normalizeAnalysis(result *types.JobAnalysisResult) {
	kept := make([]types.ExtractedSkill, 0, len(result.ExtractedSkills))
	for _, s := range result.ExtractedSkills {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			continue
		}
		s.Importance = types.Importance(strings.ToLower(string(s.Importance)))
		if s.Importance == "" {
			s.Importance = types.ImportanceMedium
		}
		kept = append(kept, s)
	}
	result.ExtractedSkills = kept
}

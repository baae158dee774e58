// Package intake turns an uploaded resume file into the editor's resume shape.
// Only PDFs are accepted. The upload is written to a temporary file for the
// parser and the file is removed whether parsing succeeds or not.
package intake

import (
	"context"
	"fmt"
	"mime"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/jonathan/resume-studio/internal/types"
)

// PDFContentType is the only accepted upload type
const PDFContentType = "application/pdf"

// NotPDFMessage is shown when an upload is not a PDF
const NotPDFMessage = "Please upload a PDF file"

// File is an uploaded resume. ContentType is the type the client declared;
// when empty it is detected from Data.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Parser converts the file at path into a structured resume
type Parser interface {
	Parse(ctx context.Context, path string) (*types.StructuredResume, error)
}

// ValidationError rejects an upload before any parsing happens
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid upload: %s", e.Message)
}

// ParseError is any failure after the upload was accepted
type ParseError struct {
	File  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse resume %q: %v", e.File, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Service validates, parses and remaps uploaded resumes
type Service struct {
	parser  Parser
	tempDir string
	logger  *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithTempDir sets where upload files are staged. Defaults to os.TempDir().
func WithTempDir(dir string) Option {
	return func(s *Service) { s.tempDir = dir }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates an intake service backed by parser
func NewService(parser Parser, opts ...Option) *Service {
	s := &Service{parser: parser, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload checks the file is a PDF, parses it and returns it as a resume document
func (s *Service) Upload(ctx context.Context, file File) (*types.ResumeDocument, error) {
	if !IsPDF(file) {
		return nil, &ValidationError{Message: NotPDFMessage}
	}

	structured, err := s.parseStaged(ctx, file)
	if err != nil {
		s.logger.Warn("resume parse failed", zap.String("file", file.Name), zap.Error(err))
		return nil, &ParseError{File: file.Name, Cause: err}
	}

	doc := Remap(structured)
	s.logger.Info("resume parsed",
		zap.String("file", file.Name),
		zap.Int("work_experiences", len(doc.WorkExperiences)),
		zap.Int("skill_sections", len(doc.SkillSections)))
	return &doc, nil
}

// parseStaged writes the upload to a temporary file, parses it, and always removes the file
func (s *Service) parseStaged(ctx context.Context, file File) (*types.StructuredResume, error) {
	tmp, err := os.CreateTemp(s.tempDir, "resume-upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	path := tmp.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn("failed to remove staged upload", zap.String("path", path), zap.Error(rmErr))
		}
	}()

	if _, err := tmp.Write(file.Data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	return s.parser.Parse(ctx, path)
}

// IsPDF reports whether the file is a PDF. A declared type is trusted as is;
// without one the type is sniffed from the content.
func IsPDF(file File) bool {
	declared := strings.TrimSpace(file.ContentType)
	if declared == "" {
		return mimetype.Detect(file.Data).Is(PDFContentType)
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return false
	}
	return mediaType == PDFContentType
}

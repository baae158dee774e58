package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/prompts"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

// ErrNoText is returned for PDFs without an extractable text layer
var ErrNoText = errors.New("pdf contains no extractable text")

// maxResumeText bounds how much extracted text is sent to the model
const maxResumeText = 60_000

// TextExtractor pulls plain text out of a file
type TextExtractor func(path string) (string, error)

// PDFParser extracts the text layer of a PDF and has the LLM structure it
type PDFParser struct {
	llm     llm.Client
	tier    llm.ModelTier
	extract TextExtractor
}

// NewPDFParser creates a parser that structures text with client at the lite tier
func NewPDFParser(client llm.Client) *PDFParser {
	return &PDFParser{llm: client, tier: llm.TierLite, extract: ExtractPDFText}
}

// Parse implements Parser
func (p *PDFParser) Parse(ctx context.Context, path string) (*types.StructuredResume, error) {
	text, err := p.extract(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	if len(text) > maxResumeText {
		text = text[:maxResumeText]
	}

	prompt, err := prompts.Render(prompts.ParsingFile, prompts.StructureResume, map[string]string{
		"ResumeText": text,
	})
	if err != nil {
		return nil, err
	}

	raw, err := p.llm.GenerateJSON(ctx, prompt, p.tier)
	if err != nil {
		return nil, fmt.Errorf("failed to structure resume text: %w", err)
	}

	obj, ok := llm.FirstJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("structured resume is not a JSON object")
	}
	if err := schemas.Validate(schemas.StructuredResume, []byte(obj)); err != nil {
		return nil, err
	}

	var resume types.StructuredResume
	if err := json.Unmarshal([]byte(obj), &resume); err != nil {
		return nil, fmt.Errorf("failed to decode structured resume: %w", err)
	}
	return &resume, nil
}

// ExtractPDFText reads the plain text layer of the PDF at path
func ExtractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}

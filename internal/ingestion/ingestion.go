// Package ingestion turns a job posting file or URL into normalized text
// ready for analysis.
package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/resume-studio/internal/fetch"
)

// Posting is a job description with where it came from
type Posting struct {
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	Hash      string    `json:"hash"` // SHA256 hex digest of Text
	FetchedAt time.Time `json:"fetchedAt"`
}

// FromFile reads and cleans a job description stored as text
func FromFile(path string) (*Posting, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("job description file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read job description: %w", err)
	}
	return newPosting(string(content), path), nil
}

// FromURL fetches a job posting page and keeps its main text
func FromURL(ctx context.Context, url string, opts *fetch.Options) (*Posting, error) {
	text, err := fetch.JobDescription(ctx, url, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job posting: %w", err)
	}
	return newPosting(text, url), nil
}

// Load prefers url when both are given
func Load(ctx context.Context, path, url string, opts *fetch.Options) (*Posting, error) {
	if url != "" {
		return FromURL(ctx, url, opts)
	}
	return FromFile(path)
}

func newPosting(content, source string) *Posting {
	text := CleanText(content)
	sum := sha256.Sum256([]byte(text))
	return &Posting{
		Text:      text,
		Source:    source,
		Hash:      hex.EncodeToString(sum[:]),
		FetchedAt: time.Now().UTC(),
	}
}

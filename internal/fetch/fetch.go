// Package fetch downloads a job posting and reduces it to plain text that can
// be pasted into the job description field.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a single fetch
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent with every request
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeStudio/1.0)"

// maxPageBytes caps how much of a page is read
const maxPageBytes = 4 << 20

// noise is removed before any text is taken
const noise = "nav, footer, header, script, style, noscript, svg, form, .ad, .ads, .cookie-banner, .popup, [aria-hidden='true']"

// Page is a fetched document
type Page struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error describes a failed fetch
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a fetch
type Options struct {
	Client    *http.Client
	UserAgent string
}

func (o *Options) withDefaults() Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.Client == nil {
		out.Client = &http.Client{Timeout: DefaultTimeout}
	}
	if out.UserAgent == "" {
		out.UserAgent = DefaultUserAgent
	}
	return out
}

// Get downloads a page. A non-200 status returns the page along with an error.
func Get(ctx context.Context, rawURL string, opts *Options) (*Page, error) {
	o := opts.withDefaults()

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", o.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read body", Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// JobDescription fetches a job posting and returns its main text
func JobDescription(ctx context.Context, rawURL string, opts *Options) (string, error) {
	page, err := Get(ctx, rawURL, opts)
	if err != nil {
		return "", err
	}

	text, err := MainText(page.HTML, JobPostingSelectors())
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to parse page", Cause: err}
	}
	if text == "" {
		return "", &Error{URL: rawURL, Message: "page has no readable text"}
	}
	return text, nil
}

// MainText strips noise elements and returns the text of the first selector
// that matches, or of the body when none does.
func MainText(html string, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(noise).Remove()

	content := doc.Find("body")
	for _, sel := range selectors {
		if found := doc.Find(sel); found.Length() > 0 {
			content = found.First()
			break
		}
	}

	// block elements otherwise run together in Text()
	content.Find("p, li, br, h1, h2, h3, h4, div, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return cleanWhitespace(content.Text()), nil
}

// JobPostingSelectors are tried in order to find the posting body on common
// job boards.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		"#job-description",
		"[data-testid='job-description']",
		".posting-page .content",
		"#content .job-body",
		".job-details",
		".job-content",
		"main",
		"article",
	}
}

// cleanWhitespace trims lines, collapses runs of spaces and drops blank lines
func cleanWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

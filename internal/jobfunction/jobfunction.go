// Package jobfunction is the client side of the job function picker: it loads
// the category tree, filters it by a search term and keeps the selected tags.
package jobfunction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-studio/internal/types"
)

// CategoriesPath is the category lookup endpoint
const CategoriesPath = "/api/categories"

// Category is a category reduced to what the picker shows
type Category struct {
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory is a subcategory reduced to what the picker shows
type Subcategory struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// Client loads job function categories
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, hc *http.Client, logger *zap.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc, logger: logger}
}

// Fetch loads the job function categories. Any failure is logged and yields
// an empty list so the picker still renders.
func (c *Client) Fetch(ctx context.Context) []Category {
	cats, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("failed to fetch job functions", zap.Error(err))
		return []Category{}
	}
	return cats
}

func (c *Client) fetch(ctx context.Context) ([]Category, error) {
	u := c.baseURL + CategoriesPath + "?" + url.Values{"type": {types.CategoryTypeJobFunction}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("category lookup returned status %d", resp.StatusCode)
	}

	var body types.CategoriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return Transform(body.Categories), nil
}

// Transform drops ids, types and descriptions from stored categories
func Transform(in []types.Category) []Category {
	out := make([]Category, 0, len(in))
	for _, cat := range in {
		subs := make([]Subcategory, 0, len(cat.Subcategories))
		for _, sub := range cat.Subcategories {
			subs = append(subs, Subcategory{Name: sub.Name, Roles: append([]string{}, sub.Roles...)})
		}
		out = append(out, Category{Name: cat.Name, Subcategories: subs})
	}
	return out
}

// Filter keeps the roles matching term. A role matches when the lower-cased
// term is a substring of the role, its subcategory name or its category
// name. Subcategories and categories left without roles are dropped.
func Filter(categories []Category, term string) []Category {
	needle := strings.ToLower(term)
	out := make([]Category, 0, len(categories))
	for _, cat := range categories {
		catMatch := strings.Contains(strings.ToLower(cat.Name), needle)
		var subs []Subcategory
		for _, sub := range cat.Subcategories {
			subMatch := catMatch || strings.Contains(strings.ToLower(sub.Name), needle)
			var roles []string
			for _, role := range sub.Roles {
				if subMatch || strings.Contains(strings.ToLower(role), needle) {
					roles = append(roles, role)
				}
			}
			if len(roles) > 0 {
				subs = append(subs, Subcategory{Name: sub.Name, Roles: roles})
			}
		}
		if len(subs) > 0 {
			out = append(out, Category{Name: cat.Name, Subcategories: subs})
		}
	}
	return out
}

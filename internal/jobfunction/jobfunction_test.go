package jobfunction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/types"
)

func sampleCategories() []Category {
	return []Category{
		{Name: "Engineering", Subcategories: []Subcategory{
			{Name: "Backend", Roles: []string{"Go Developer", "Java Developer"}},
			{Name: "Frontend", Roles: []string{"React Developer"}},
		}},
		{Name: "Data", Subcategories: []Subcategory{
			{Name: "Analytics", Roles: []string{"Data Analyst", "BI Developer"}},
			{Name: "Empty", Roles: nil},
		}},
	}
}

func TestClient_Fetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("type")
		_ = json.NewEncoder(w).Encode(types.CategoriesResponse{Categories: []types.Category{{
			ID: "c1", Type: types.CategoryTypeJobFunction, Name: "Engineering",
			Subcategories: []types.Subcategory{{ID: "s1", Name: "Backend", Roles: []string{"Go Developer"}}},
		}}})
	}))
	defer srv.Close()

	cats := NewClient(srv.URL+"/", nil, nil).Fetch(context.Background())

	assert.Equal(t, types.CategoryTypeJobFunction, gotQuery)
	assert.Equal(t, []Category{{Name: "Engineering", Subcategories: []Subcategory{
		{Name: "Backend", Roles: []string{"Go Developer"}},
	}}}, cats)
}

func TestClient_FetchFailuresYieldEmptyList(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "server error", handler: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{name: "bad body", handler: func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			cats := NewClient(srv.URL, nil, nil).Fetch(context.Background())
			require.NotNil(t, cats)
			assert.Empty(t, cats)
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		assert.Empty(t, NewClient(srv.URL, nil, nil).Fetch(context.Background()))
	})
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []Category
	}{
		{
			name: "empty term keeps every non-empty subcategory",
			term: "",
			want: []Category{
				sampleCategories()[0],
				{Name: "Data", Subcategories: []Subcategory{
					{Name: "Analytics", Roles: []string{"Data Analyst", "BI Developer"}},
				}},
			},
		},
		{
			name: "role match is case insensitive",
			term: "REACT",
			want: []Category{{Name: "Engineering", Subcategories: []Subcategory{
				{Name: "Frontend", Roles: []string{"React Developer"}},
			}}},
		},
		{
			name: "subcategory match keeps all its roles",
			term: "backend",
			want: []Category{{Name: "Engineering", Subcategories: []Subcategory{
				{Name: "Backend", Roles: []string{"Go Developer", "Java Developer"}},
			}}},
		},
		{
			name: "category match keeps the whole category",
			term: "data",
			want: []Category{{Name: "Data", Subcategories: []Subcategory{
				{Name: "Analytics", Roles: []string{"Data Analyst", "BI Developer"}},
			}}},
		},
		{
			name: "role match across categories",
			term: "developer",
			want: []Category{
				sampleCategories()[0],
				{Name: "Data", Subcategories: []Subcategory{
					{Name: "Analytics", Roles: []string{"BI Developer"}},
				}},
			},
		},
		{
			name: "no match",
			term: "chef",
			want: []Category{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(sampleCategories(), tt.term))
		})
	}
}

func TestSelector(t *testing.T) {
	s := NewSelector()

	assert.Equal(t, "Go Developer", s.Select("Go Developer"))
	assert.Equal(t, "Go Developer, Data Analyst", s.Select("Data Analyst"))
	assert.Equal(t, "Go Developer, Data Analyst", s.Select("Go Developer"), "duplicates are ignored")
	assert.True(t, s.Has("Data Analyst"))

	assert.Equal(t, "Data Analyst", s.Remove("Go Developer"))
	assert.Equal(t, "Data Analyst", s.Remove("Unknown"))
	assert.Equal(t, "", s.Remove("Data Analyst"))
	assert.Empty(t, s.Tags())
}

func TestParseValue(t *testing.T) {
	s := ParseValue(" Go Developer, ,Data Analyst,Go Developer ")
	assert.Equal(t, []string{"Go Developer", "Data Analyst"}, s.Tags())
	assert.Equal(t, "Go Developer, Data Analyst", s.Value())
}

package types

// CategoryTypeJobFunction is the category type used by the job function picker
const CategoryTypeJobFunction = "JOB_FUNCTION"

// Category is a top-level category row with its subcategories
type Category struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	Name          string        `json:"name"`
	Description   *string       `json:"description"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory groups roles under a category
type Subcategory struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Roles       []string `json:"roles"`
}

// CategoriesResponse is the body of GET /api/categories
type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}

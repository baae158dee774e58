package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/types"
)

// ListCategories returns every category of the given type with its
// subcategories, ordered by name.
func (db *DB) ListCategories(ctx context.Context, categoryType string) ([]types.Category, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.type, c.name, c.description,
		        s.id, s.name, s.description, COALESCE(s.roles, '{}')
		 FROM categories c
		 LEFT JOIN subcategories s ON s.category_id = c.id
		 WHERE c.type = $1
		 ORDER BY c.name, s.name`, categoryType)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	out := []types.Category{}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			catID    uuid.UUID
			cat      types.Category
			subID    *uuid.UUID
			subName  *string
			subDesc  *string
			subRoles []string
		)
		if err := rows.Scan(&catID, &cat.Type, &cat.Name, &cat.Description,
			&subID, &subName, &subDesc, &subRoles); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		i, ok := index[catID]
		if !ok {
			cat.ID = catID.String()
			cat.Subcategories = []types.Subcategory{}
			out = append(out, cat)
			i = len(out) - 1
			index[catID] = i
		}
		if subID == nil {
			continue
		}
		if subRoles == nil {
			subRoles = []string{}
		}
		out[i].Subcategories = append(out[i].Subcategories, types.Subcategory{
			ID:          subID.String(),
			Name:        derefString(subName),
			Description: subDesc,
			Roles:       subRoles,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return out, nil
}

// UpsertCategory stores a category and replaces its subcategories.
// Categories are keyed by (type, name); the stored ID is returned.
func (db *DB) UpsertCategory(ctx context.Context, cat types.Category) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO categories (id, type, name, description)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (type, name) DO UPDATE SET description = EXCLUDED.description
		 RETURNING id`,
		uuid.New(), cat.Type, cat.Name, cat.Description,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert category: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM subcategories WHERE category_id = $1`, id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to clear subcategories: %w", err)
	}
	for _, sub := range cat.Subcategories {
		roles := sub.Roles
		if roles == nil {
			roles = []string{}
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO subcategories (id, category_id, name, description, roles)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), id, sub.Name, sub.Description, roles,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert subcategory %q: %w", sub.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit category: %w", err)
	}
	return id, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

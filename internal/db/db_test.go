package db

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	stmts := Statements()
	require.Len(t, stmts, 4)

	for _, stmt := range stmts {
		assert.True(t, strings.HasPrefix(stmt, "CREATE"), stmt)
		assert.Contains(t, stmt, "IF NOT EXISTS")
	}
	assert.Contains(t, stmts[0], "resumes")
	assert.Contains(t, stmts[3], "roles        TEXT[]")
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), "")
	assert.ErrorContains(t, err, "database URL is required")
}

func TestDerefString(t *testing.T) {
	s := "x"
	assert.Equal(t, "x", derefString(&s))
	assert.Equal(t, "", derefString(nil))
}

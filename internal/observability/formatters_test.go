package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/jobfunction"
	"github.com/jonathan/resume-studio/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	analysis := &types.JobAnalysisResult{ExperienceLevel: "senior"}
	matches := []types.SkillMatch{
		{ExtractedSkill: types.ExtractedSkill{Name: "Go", Required: true, Importance: types.ImportanceHigh}, Present: true},
		{ExtractedSkill: types.ExtractedSkill{Name: "Terraform", Importance: types.ImportanceLow}},
	}

	p.PrintAnalysis(analysis, matches, []string{"Terraform"})
	output := buf.String()

	assert.Contains(t, output, "JOB ANALYSIS")
	assert.Contains(t, output, "Experience level: senior")
	assert.Contains(t, output, "[✓] Go - high (required)")
	assert.Contains(t, output, "[ ] Terraform - low ")
	assert.Contains(t, output, "Selected: Terraform")
}

func TestPrintAnalysis_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(nil, nil, nil)
	assert.Empty(t, buf.String())

	p.PrintAnalysis(&types.JobAnalysisResult{}, nil, nil)
	assert.Contains(t, buf.String(), "No skills extracted")
	assert.NotContains(t, buf.String(), "Selected:")
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	doc := &types.ResumeDocument{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Summary:   "Engineer who turns analytical engines into production systems at scale",
		SkillSections: []types.SkillGroup{
			{Name: "Languages", Skills: []string{"Go", "SQL"}},
		},
		WorkExperiences: []types.WorkExperience{
			{Position: "Engineer", Company: "Acme"},
			{Position: "Intern"},
		},
		Projects: []types.Project{{Name: "engine"}},
	}

	p.PrintResume(doc)
	output := buf.String()

	assert.Contains(t, output, "Name:     Ada Lovelace")
	assert.Contains(t, output, "...")
	assert.Contains(t, output, "• Languages: Go, SQL")
	assert.Contains(t, output, "• Engineer at Acme")
	assert.Contains(t, output, "• Intern ")
	assert.Contains(t, output, "Projects: 1")
}

func TestPrintResume_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResume(nil)
	assert.Empty(t, buf.String())
}

func TestPrintJobFunctions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobFunctions([]jobfunction.Category{{
		Name: "Engineering",
		Subcategories: []jobfunction.Subcategory{
			{Name: "Backend", Roles: []string{"Go Developer", "API Engineer"}},
		},
	}})

	assert.Equal(t, "Engineering\n  Backend\n    - Go Developer\n    - API Engineer\n", buf.String())

	buf.Reset()
	p.PrintJobFunctions(nil)
	assert.Equal(t, "No job functions found\n", buf.String())
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TEST", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), "line %q", line)
	}
	assert.Contains(t, buf.String(), "...")
}

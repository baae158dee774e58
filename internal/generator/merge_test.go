package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/types"
)

func strPtr(s string) *string { return &s }

func baseResume() types.ResumeDocument {
	return types.ResumeDocument{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Summary:   "Original summary",
		SkillSections: []types.SkillGroup{
			{Name: "Languages", Skills: []string{"Go", "SQL"}},
		},
		WorkExperiences: []types.WorkExperience{
			{Position: "Engineer", Company: "Analytical Engines Ltd"},
		},
		Projects: []types.Project{
			{Name: "Difference Engine"},
		},
		SelectedTemplate: "modern",
	}
}

func TestMerge_AllFieldsAbsent(t *testing.T) {
	base := baseResume()

	merged := Merge(base, &types.GeneratedContent{})

	expected := baseResume()
	expected.SkillSections = []types.SkillGroup{}
	assert.Equal(t, expected, merged, "only skillSections changes, and it becomes empty")
	assert.NotEmpty(t, base.SkillSections, "base is not modified")
}

func TestMerge_NilContentMatchesAllAbsent(t *testing.T) {
	assert.Equal(t, Merge(baseResume(), &types.GeneratedContent{}), Merge(baseResume(), nil))
}

func TestMerge_Fields(t *testing.T) {
	tests := []struct {
		name      string
		generated types.GeneratedContent
		check     func(t *testing.T, merged types.ResumeDocument)
	}{
		{
			name:      "summary replaced",
			generated: types.GeneratedContent{Summary: strPtr("X")},
			check: func(t *testing.T, merged types.ResumeDocument) {
				assert.Equal(t, "X", merged.Summary)
			},
		},
		{
			name:      "empty summary keeps base",
			generated: types.GeneratedContent{Summary: strPtr("")},
			check: func(t *testing.T, merged types.ResumeDocument) {
				assert.Equal(t, "Original summary", merged.Summary)
			},
		},
		{
			name:      "empty skillSections sent replaces base",
			generated: types.GeneratedContent{SkillSections: []types.SkillGroup{}},
			check: func(t *testing.T, merged types.ResumeDocument) {
				assert.NotNil(t, merged.SkillSections)
				assert.Empty(t, merged.SkillSections)
			},
		},
		{
			name: "skillSections replaced",
			generated: types.GeneratedContent{SkillSections: []types.SkillGroup{
				{Name: "Cloud", Skills: []string{"Kubernetes"}},
			}},
			check: func(t *testing.T, merged types.ResumeDocument) {
				assert.Equal(t, []types.SkillGroup{{Name: "Cloud", Skills: []string{"Kubernetes"}}}, merged.SkillSections)
			},
		},
		{
			name:      "empty workExperiences falls back to base",
			generated: types.GeneratedContent{WorkExperiences: []types.WorkExperience{}},
			check: func(t *testing.T, merged types.ResumeDocument) {
				assert.Equal(t, baseResume().WorkExperiences, merged.WorkExperiences)
			},
		},
		{
			name: "workExperiences replaced",
			generated: types.GeneratedContent{WorkExperiences: []types.WorkExperience{
				{Position: "Staff Engineer", Company: "Analytical Engines Ltd"},
			}},
			check: func(t *testing.T, merged types.ResumeDocument) {
				assert.Equal(t, "Staff Engineer", merged.WorkExperiences[0].Position)
				assert.Len(t, merged.WorkExperiences, 1)
			},
		},
		{
			name:      "empty projects falls back to base",
			generated: types.GeneratedContent{Projects: []types.Project{}},
			check: func(t *testing.T, merged types.ResumeDocument) {
				assert.Equal(t, baseResume().Projects, merged.Projects)
			},
		},
		{
			name:      "projects replaced",
			generated: types.GeneratedContent{Projects: []types.Project{{Name: "Analytical Engine"}}},
			check: func(t *testing.T, merged types.ResumeDocument) {
				assert.Equal(t, []types.Project{{Name: "Analytical Engine"}}, merged.Projects)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generated := tt.generated
			merged := Merge(baseResume(), &generated)
			tt.check(t, merged)
			assert.Equal(t, "Ada", merged.FirstName)
			assert.Equal(t, "modern", merged.SelectedTemplate)
		})
	}
}

func TestMerge_MissingBaseListsBecomeEmpty(t *testing.T) {
	merged := Merge(types.ResumeDocument{}, &types.GeneratedContent{
		WorkExperiences: []types.WorkExperience{},
	})

	assert.NotNil(t, merged.WorkExperiences)
	assert.Empty(t, merged.WorkExperiences)
	assert.NotNil(t, merged.Projects)
	assert.Empty(t, merged.Projects)
	assert.NotNil(t, merged.SkillSections)
}

func TestMerge_DoesNotAliasGeneratedSlices(t *testing.T) {
	generated := &types.GeneratedContent{
		SkillSections: []types.SkillGroup{{Name: "Core", Skills: []string{"Go"}}},
	}
	merged := Merge(baseResume(), generated)

	generated.SkillSections[0].Skills[0] = "mutated"
	assert.Equal(t, "Go", merged.SkillSections[0].Skills[0])
}

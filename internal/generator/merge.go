package generator

import "github.com/jonathan/resume-studio/internal/types"

// Merge applies generated content to a copy of base.
//
//   - summary is replaced only by a non-empty generated value.
//   - skillSections is replaced by the generated value whenever one was sent,
//     even an empty one. When none was sent the result is empty, not base.
//   - workExperiences and projects are replaced only by a non-empty generated
//     list, otherwise base is kept (empty if base has none).
//
// Every other field comes from base unchanged.
func Merge(base types.ResumeDocument, generated *types.GeneratedContent) types.ResumeDocument {
	merged := base.Clone()
	if generated == nil {
		generated = &types.GeneratedContent{}
	}

	if generated.Summary != nil && *generated.Summary != "" {
		merged.Summary = *generated.Summary
	}

	if generated.SkillSections != nil {
		merged.SkillSections = types.ResumeDocument{SkillSections: generated.SkillSections}.Clone().SkillSections
	} else {
		merged.SkillSections = []types.SkillGroup{}
	}

	if len(generated.WorkExperiences) > 0 {
		merged.WorkExperiences = append([]types.WorkExperience{}, generated.WorkExperiences...)
	} else if merged.WorkExperiences == nil {
		merged.WorkExperiences = []types.WorkExperience{}
	}

	if len(generated.Projects) > 0 {
		merged.Projects = append([]types.Project{}, generated.Projects...)
	} else if merged.Projects == nil {
		merged.Projects = []types.Project{}
	}

	return merged
}

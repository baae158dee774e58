package types

// Importance ranks how much a job posting emphasizes a skill
type Importance string

// Importance levels reported by the job analysis service
const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// ExtractedSkill is a single skill requirement pulled out of a job description.
// The wire name of the skill is "skill".
type ExtractedSkill struct {
	Name       string     `json:"skill"`
	Required   bool       `json:"required"`
	Importance Importance `json:"importance"`
	Category   string     `json:"category,omitempty"`
}

// SkillMatch pairs an extracted skill with whether the candidate already covers it
type SkillMatch struct {
	ExtractedSkill
	Present bool `json:"present"`
}

// JobAnalysisResult is the structured output of the job analysis service
type JobAnalysisResult struct {
	ExtractedSkills []ExtractedSkill `json:"extractedSkills"`
	ExperienceLevel string           `json:"experienceLevel,omitempty"`
	KeyRequirements []string         `json:"keyRequirements,omitempty"`
	MatchAnalysis   MatchAnalysis    `json:"matchAnalysis"`
}

// MatchAnalysis summarizes how the candidate's skills line up with the posting
type MatchAnalysis struct {
	TotalSkills     int      `json:"totalSkills"`
	MatchingSkills  int      `json:"matchingSkills"`
	MissingCritical []string `json:"missingCritical"`
	Strengths       []string `json:"strengths"`
}

// GeneratedContent is the loosely-typed output of the generation service.
// Every field is optional: a nil pointer or nil slice means the service did not
// send it, while an empty non-nil slice means it sent [].
type GeneratedContent struct {
	Summary         *string          `json:"summary,omitempty"`
	SkillSections   []SkillGroup     `json:"skillSections,omitempty"`
	WorkExperiences []WorkExperience `json:"workExperiences,omitempty"`
	Projects        []Project        `json:"projects,omitempty"`
}

// Clone returns a deep copy that shares no slices with r
func (r JobAnalysisResult) Clone() JobAnalysisResult {
	out := r
	out.ExtractedSkills = cloneSlice(r.ExtractedSkills)
	out.KeyRequirements = cloneSlice(r.KeyRequirements)
	out.MatchAnalysis.MissingCritical = cloneSlice(r.MatchAnalysis.MissingCritical)
	out.MatchAnalysis.Strengths = cloneSlice(r.MatchAnalysis.Strengths)
	return out
}

// cloneSlice copies s, keeping nil distinct from empty
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

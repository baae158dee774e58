package types

// DefaultExperienceLevel is sent when the analysis did not report a level
const DefaultExperienceLevel = "mid"

// AnalyzeJobRequest is the body of POST /api/ai/analyze-job
type AnalyzeJobRequest struct {
	JobDescription string   `json:"jobDescription" validate:"required,notblank"`
	CurrentSkills  []string `json:"currentSkills"`
}

// GenerateResumeRequest is the body of POST /api/ai/generate-resume
type GenerateResumeRequest struct {
	JobDescription  string         `json:"jobDescription" validate:"required,notblank"`
	SelectedSkills  []string       `json:"selectedSkills" validate:"required,min=1,dive,required"`
	CurrentResume   ResumeDocument `json:"currentResume"`
	ExperienceLevel string         `json:"experienceLevel"`
}

// ErrorResponse is the JSON body of every API error
type ErrorResponse struct {
	Error string `json:"error"`
}

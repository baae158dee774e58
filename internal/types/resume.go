// Package types provides type definitions for structured data used throughout the resume-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeDocument is the canonical working resume edited by the host editor and
// rewritten by the generation merge step.
type ResumeDocument struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Personal info
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	JobTitle  string `json:"jobTitle,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`

	Summary         string           `json:"summary,omitempty"`
	SkillSections   []SkillGroup     `json:"skillSections"`
	WorkExperiences []WorkExperience `json:"workExperiences"`
	Projects        []Project        `json:"projects"`
	Educations      []Education      `json:"educations,omitempty"`

	SelectedTemplate string `json:"selectedTemplate,omitempty"`
}

// SkillGroup is a named category with an ordered list of skills.
type SkillGroup struct {
	Name   string   `json:"name" validate:"required"`
	Skills []string `json:"skills"`
}

// WorkExperience is a single position in the work history section
type WorkExperience struct {
	Position    string `json:"position,omitempty"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// Project is a single entry in the projects section
type Project struct {
	Name        string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is a single entry in the education section
type Education struct {
	Degree    string `json:"degree,omitempty"`
	School    string `json:"school,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Clone returns a deep copy of the document so callers can hand out
// snapshots without sharing slice backing arrays.
func (r ResumeDocument) Clone() ResumeDocument {
	out := r
	if r.SkillSections != nil {
		out.SkillSections = make([]SkillGroup, len(r.SkillSections))
		for i, g := range r.SkillSections {
			out.SkillSections[i] = SkillGroup{Name: g.Name, Skills: append([]string(nil), g.Skills...)}
		}
	}
	if r.WorkExperiences != nil {
		out.WorkExperiences = append([]WorkExperience{}, r.WorkExperiences...)
	}
	if r.Projects != nil {
		out.Projects = append([]Project{}, r.Projects...)
	}
	if r.Educations != nil {
		out.Educations = append([]Education{}, r.Educations...)
	}
	return out
}

// StructuredResume is the output of the resume parser. Field names follow the
// parser's own shape and are remapped into a ResumeDocument by the intake step.
type StructuredResume struct {
	Profile         ParsedProfile          `json:"profile"`
	WorkExperiences []ParsedWorkExperience `json:"workExperiences"`
	Educations      []ParsedEducation      `json:"educations"`
	Projects        []ParsedProject        `json:"projects"`
	Skills          ParsedSkills           `json:"skills"`
}

// ParsedProfile holds the contact block of a parsed resume
type ParsedProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	URL      string `json:"url"`
	Summary  string `json:"summary"`
	Location string `json:"location"`
}

// ParsedWorkExperience is a work entry as produced by the parser
type ParsedWorkExperience struct {
	Company      string   `json:"company"`
	JobTitle     string   `json:"jobTitle"`
	Date         string   `json:"date"`
	Descriptions []string `json:"descriptions"`
}

// ParsedEducation is an education entry as produced by the parser
type ParsedEducation struct {
	School       string   `json:"school"`
	Degree       string   `json:"degree"`
	Date         string   `json:"date"`
	GPA          string   `json:"gpa"`
	Descriptions []string `json:"descriptions"`
}

// ParsedProject is a project entry as produced by the parser
type ParsedProject struct {
	Project      string   `json:"project"`
	Date         string   `json:"date"`
	Descriptions []string `json:"descriptions"`
}

// ParsedSkills holds featured skills and free-form skill lines
type ParsedSkills struct {
	FeaturedSkills []FeaturedSkill `json:"featuredSkills"`
	Descriptions   []string        `json:"descriptions"`
}

// FeaturedSkill is a highlighted skill with a self-rating
type FeaturedSkill struct {
	Skill  string `json:"skill"`
	Rating int    `json:"rating"`
}

package intake

import (
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// skillsGroupName names the group parsed skills are collected into
const skillsGroupName = "Skills"

// dateSeparators split "start - end" ranges, tried in order
var dateSeparators = []string{" – ", " — ", "–", "—", " - ", " to "}

// Remap converts parser output to the editor's resume fields
func Remap(s *types.StructuredResume) types.ResumeDocument {
	doc := types.ResumeDocument{
		SkillSections:   []types.SkillGroup{},
		WorkExperiences: []types.WorkExperience{},
		Projects:        []types.Project{},
		Educations:      []types.Education{},
	}
	if s == nil {
		return doc
	}

	p := s.Profile
	doc.FirstName, doc.LastName = splitName(p.Name)
	doc.Email = strings.TrimSpace(p.Email)
	doc.Phone = strings.TrimSpace(p.Phone)
	doc.Summary = strings.TrimSpace(p.Summary)
	doc.City, doc.Country = splitLocation(p.Location)

	for _, w := range s.WorkExperiences {
		if isBlank(w.Company, w.JobTitle, w.Date) && len(w.Descriptions) == 0 {
			continue
		}
		start, end := SplitDateRange(w.Date)
		doc.WorkExperiences = append(doc.WorkExperiences, types.WorkExperience{
			Position:    strings.TrimSpace(w.JobTitle),
			Company:     strings.TrimSpace(w.Company),
			StartDate:   start,
			EndDate:     end,
			Description: joinLines(w.Descriptions),
		})
	}
	if len(doc.WorkExperiences) > 0 {
		doc.JobTitle = doc.WorkExperiences[0].Position
	}

	for _, e := range s.Educations {
		if isBlank(e.School, e.Degree, e.Date) {
			continue
		}
		start, end := SplitDateRange(e.Date)
		degree := strings.TrimSpace(e.Degree)
		if gpa := strings.TrimSpace(e.GPA); gpa != "" {
			degree = strings.TrimSpace(degree + " (GPA " + gpa + ")")
		}
		doc.Educations = append(doc.Educations, types.Education{
			Degree:    degree,
			School:    strings.TrimSpace(e.School),
			StartDate: start,
			EndDate:   end,
		})
	}

	for _, pr := range s.Projects {
		if isBlank(pr.Project, pr.Date) && len(pr.Descriptions) == 0 {
			continue
		}
		start, end := SplitDateRange(pr.Date)
		doc.Projects = append(doc.Projects, types.Project{
			Name:        strings.TrimSpace(pr.Project),
			StartDate:   start,
			EndDate:     end,
			Description: joinLines(pr.Descriptions),
		})
	}

	if skills := collectSkills(s.Skills); len(skills) > 0 {
		doc.SkillSections = append(doc.SkillSections, types.SkillGroup{Name: skillsGroupName, Skills: skills})
	}

	return doc
}

// SplitDateRange splits "Jan 2020 - Present" into its two ends. A value with
// no separator is all start date.
func SplitDateRange(date string) (string, string) {
	date = strings.TrimSpace(date)
	for _, sep := range dateSeparators {
		if idx := strings.Index(date, sep); idx >= 0 {
			return strings.TrimSpace(date[:idx]), strings.TrimSpace(date[idx+len(sep):])
		}
	}
	return date, ""
}

func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

// splitLocation treats the last comma-separated part as the country
func splitLocation(location string) (string, string) {
	location = strings.TrimSpace(location)
	idx := strings.LastIndex(location, ",")
	if idx < 0 {
		return location, ""
	}
	return strings.TrimSpace(location[:idx]), strings.TrimSpace(location[idx+1:])
}

// collectSkills flattens featured skills and skill description lines into one
// de-duplicated list. "Languages: Go, Python" contributes Go and Python.
func collectSkills(s types.ParsedSkills) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(skill string) {
		skill = strings.TrimSpace(strings.Trim(strings.TrimSpace(skill), "•-*"))
		key := strings.ToLower(skill)
		if skill == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, skill)
	}

	for _, f := range s.FeaturedSkills {
		add(f.Skill)
	}
	for _, line := range s.Descriptions {
		if idx := strings.Index(line, ":"); idx >= 0 {
			line = line[idx+1:]
		}
		for _, part := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ';' || r == '•' || r == '|' }) {
			add(part)
		}
	}
	return out
}

func joinLines(lines []string) string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

func isBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Package skills correlates skills extracted from a job description with the
// candidate's resume and tracks which of them the user chose to emphasize.
package skills

import (
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// Current flattens every skill group of the document into a single list,
// preserving group and skill order. Blank entries are skipped.
func Current(doc *types.ResumeDocument) []string {
	if doc == nil {
		return []string{}
	}
	out := make([]string, 0)
	for _, group := range doc.SkillSections {
		for _, skill := range group.Skills {
			if strings.TrimSpace(skill) == "" {
				continue
			}
			out = append(out, skill)
		}
	}
	return out
}

// IsPresent reports whether skill is covered by any of current. The match is
// case-insensitive and bidirectional: either string containing the other counts.
// Blank strings never match, on either side.
func IsPresent(skill string, current []string) bool {
	needle := strings.ToLower(strings.TrimSpace(skill))
	if needle == "" {
		return false
	}
	for _, c := range current {
		have := strings.ToLower(strings.TrimSpace(c))
		if have == "" {
			continue
		}
		if strings.Contains(have, needle) || strings.Contains(needle, have) {
			return true
		}
	}
	return false
}

// Match marks every extracted skill as present or missing against current.
func Match(extracted []types.ExtractedSkill, current []string) []types.SkillMatch {
	matches := make([]types.SkillMatch, 0, len(extracted))
	for _, s := range extracted {
		matches = append(matches, types.SkillMatch{
			ExtractedSkill: s,
			Present:        IsPresent(s.Name, current),
		})
	}
	return matches
}

// InitialSelection pre-selects every required skill the candidate is missing.
func InitialSelection(matches []types.SkillMatch) *Selection {
	sel := NewSelection()
	for _, m := range matches {
		if m.Required && !m.Present {
			sel.Add(m.Name)
		}
	}
	return sel
}

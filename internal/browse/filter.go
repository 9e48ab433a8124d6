package browse

import (
	"strings"

	"github.com/maurobossio/portfolio/internal/models"
)

// AllTag is the sentinel tag meaning "no tag filter". It is always the
// first entry of the tag universe and never compares against stored tags.
const AllTag = "ALL"

// TagUniverse returns AllTag followed by every distinct project tag in
// first-seen order. Recomputed whenever the project set changes; never
// persisted.
func TagUniverse(projects []models.Project) []string {
	tags := []string{AllTag}
	seen := make(map[string]struct{})
	for _, p := range projects {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}

// FilterProjects returns the order-preserving subsequence of projects
// matching both the active tag and the search query.
//
// The tag stage matches stored tags exactly (case-sensitive); AllTag keeps
// everything, and a project without tags only passes AllTag. The text stage
// applies when the query normalizes to something non-empty: the normalized
// query must be a substring of the normalized title or description. The
// query is trimmed first, so pure whitespace applies no text filter.
func FilterProjects(projects []models.Project, activeTag, query string) []models.Project {
	needle := Normalize(strings.TrimSpace(query))

	var out []models.Project
	for _, p := range projects {
		if activeTag != AllTag && !hasTag(p, activeTag) {
			continue
		}
		if needle != "" && !matchesText(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasTag(p models.Project, tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func matchesText(p models.Project, needle string) bool {
	return strings.Contains(Normalize(p.Title), needle) ||
		strings.Contains(Normalize(p.Description), needle)
}

package browse

import (
	"strings"

	"github.com/maurobossio/portfolio/internal/models"
)

// TagButton is one clickable entry in the tag bar. Exactly one button in a
// rendered bar is active.
type TagButton struct {
	Label  string
	Active bool
}

// ProjectCard is the display projection of a single project.
type ProjectCard struct {
	Title       string
	Description string
	Tags        []string
	Year        string
	Link        string
	Repo        string
}

// EmptyState is the placeholder shown instead of the grid when filtering
// leaves nothing. It names the query and tag that produced it so the UI can
// explain the result.
type EmptyState struct {
	Query string
	Tag   string
}

// View is one complete render snapshot. The engine emits data, not markup;
// the presentation layer decides how it is drawn.
type View struct {
	TagBar []TagButton
	Cards  []ProjectCard
	// Empty is non-nil exactly when Cards is empty.
	Empty *EmptyState
	// FocusSearch is set on the view produced by a search clear, telling
	// the presentation layer to return focus to the search field.
	FocusSearch bool
}

// RenderTagBar projects the tag universe into buttons, marking activeTag as
// the single active one.
func RenderTagBar(universe []string, activeTag string) []TagButton {
	bar := make([]TagButton, len(universe))
	for i, tag := range universe {
		bar[i] = TagButton{Label: tag, Active: tag == activeTag}
	}
	return bar
}

// RenderProjectGrid projects the filtered set into cards, or an EmptyState
// naming the current query and tag when nothing matched. Zero results is a
// UI state, not an error.
func RenderProjectGrid(filtered []models.Project, activeTag, query string) ([]ProjectCard, *EmptyState) {
	if len(filtered) == 0 {
		return nil, &EmptyState{Query: strings.TrimSpace(query), Tag: activeTag}
	}
	cards := make([]ProjectCard, len(filtered))
	for i, p := range filtered {
		cards[i] = ProjectCard{
			Title:       p.Title,
			Description: p.Description,
			Tags:        p.Tags,
			Year:        p.Year,
			Link:        p.Link,
			Repo:        p.Repo,
		}
	}
	return cards, nil
}

package script

import (
	"strings"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

// DefaultProjectTitle names projects whose source has no H1.
const DefaultProjectTitle = "Untitled Project"

// DefaultSungMarker wraps paragraphs that are sung.
const DefaultSungMarker = "~"

// BuildOptions tunes how nodes become a project.
type BuildOptions struct {
	// FallbackTitle is used when no H1 appears. Empty means DefaultProjectTitle.
	FallbackTitle string
	// SungMarker wraps sung paragraphs. Empty disables sung detection.
	SungMarker string
}

// BuildProject folds block nodes into a project in a single forward pass.
//
// H1 sets the project title (the last H1 wins), H2 opens a scene, H3 sets the
// speaking character, and a paragraph becomes a line only once both a scene
// and a character are set. Anything else is dropped.
func BuildProject(nodes []Node, opts BuildOptions) entities.Project {
	title := opts.FallbackTitle
	if title == "" {
		title = DefaultProjectTitle
	}

	scenes := make([]entities.Scene, 0)
	var current *entities.Scene
	character := ""
	hasCharacter := false

	for _, node := range nodes {
		switch node.Kind {
		case NodeHeading:
			switch node.Depth {
			case 1:
				title = strings.TrimSpace(node.Text)
			case 2:
				if current != nil {
					scenes = append(scenes, *current)
				}
				current = &entities.Scene{Title: strings.TrimSpace(node.Text), Lines: []entities.Line{}}
			case 3:
				character = strings.TrimSpace(node.Text)
				hasCharacter = true
			}
		case NodeParagraph:
			if current == nil || !hasCharacter {
				continue
			}
			text, sung := splitSung(strings.TrimSpace(node.Text), opts.SungMarker)
			current.Lines = append(current.Lines, entities.Line{
				Characters: []string{character},
				Text:       text,
				Sung:       sung,
			})
		}
	}
	if current != nil {
		scenes = append(scenes, *current)
	}

	project := entities.Project{Name: title, Scenes: scenes}
	project.RecomputeCharacters()
	return project
}

func splitSung(text, marker string) (string, bool) {
	if marker == "" || len(text) <= 2*len(marker) {
		return text, false
	}
	if !strings.HasPrefix(text, marker) || !strings.HasSuffix(text, marker) {
		return text, false
	}
	return strings.TrimSpace(text[len(marker) : len(text)-len(marker)]), true
}

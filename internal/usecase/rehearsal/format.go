package rehearsal

import "github.com/johnquangdev/linerunner/internal/domain/entities"

// DisplayLine is a line prepared for rendering.
type DisplayLine struct {
	Index      int      `json:"index"`
	Characters []string `json:"characters"`
	Text       string   `json:"text"`
	Sung       bool     `json:"sung,omitempty"`
	Ensemble   bool     `json:"ensemble,omitempty"`
	ShowHeader bool     `json:"show_header"`
	Own        bool     `json:"own,omitempty"`
}

// FormatScene marks ensemble lines and hides the character header when a
// line has the same speakers as the one before it.
func FormatScene(scene entities.Scene, character string) []DisplayLine {
	out := make([]DisplayLine, 0, len(scene.Lines))
	for i, line := range scene.Lines {
		out = append(out, DisplayLine{
			Index:      i,
			Characters: line.Characters,
			Text:       line.Text,
			Sung:       line.Sung,
			Ensemble:   line.IsEnsemble(),
			ShowHeader: i == 0 || !line.SameCharacters(scene.Lines[i-1]),
			Own:        character != "" && line.HasCharacter(character),
		})
	}
	return out
}

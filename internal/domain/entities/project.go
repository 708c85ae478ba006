package entities

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Line is one utterance attributed to one or more characters.
type Line struct {
	Characters []string `json:"characters"`
	Text       string   `json:"line"`
	Sung       bool     `json:"sung,omitempty"`
}

// lineDocument is the persisted line shape, which older documents wrote with a
// singular character field.
type lineDocument struct {
	Characters []string `json:"characters"`
	Character  *string  `json:"character"`
	Line       string   `json:"line"`
	Sung       bool     `json:"sung"`
}

// UnmarshalJSON accepts both characters and the legacy character field.
func (l *Line) UnmarshalJSON(data []byte) error {
	var doc lineDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Field: "line", Reason: err.Error()}
	}

	characters := doc.Characters
	if len(characters) == 0 && doc.Character != nil && strings.TrimSpace(*doc.Character) != "" {
		characters = []string{*doc.Character}
	}
	if len(characters) == 0 {
		return &ValidationError{Field: "characters", Reason: "line has neither characters nor character"}
	}

	l.Characters = characters
	l.Text = doc.Line
	l.Sung = doc.Sung
	return nil
}

// Validate implements validation.Validatable.
func (l Line) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Characters, validation.Required, validation.Each(validation.Required)),
	)
}

// HasCharacter reports whether name speaks this line.
func (l Line) HasCharacter(name string) bool {
	for _, c := range l.Characters {
		if c == name {
			return true
		}
	}
	return false
}

// IsEnsemble reports whether the line is spoken by more than one character.
func (l Line) IsEnsemble() bool {
	return len(l.Characters) > 1
}

// Words splits the line text on whitespace.
func (l Line) Words() []string {
	return strings.Fields(l.Text)
}

// SameCharacters reports whether two lines are spoken by the same set of characters.
func (l Line) SameCharacters(other Line) bool {
	a := characterSet(l.Characters)
	b := characterSet(other.Characters)
	if len(a) != len(b) {
		return false
	}
	for name := range a {
		if _, ok := b[name]; !ok {
			return false
		}
	}
	return true
}

func characterSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Scene is an ordered run of lines identified by title.
type Scene struct {
	Title string `json:"title"`
	Lines []Line `json:"lines"`
}

// Validate implements validation.Validatable.
func (s Scene) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.Lines),
	)
}

// Project is a complete script.
type Project struct {
	Name       string   `json:"project"`
	Scenes     []Scene  `json:"scenes"`
	Characters []string `json:"characters,omitempty"`
}

// DeriveCharacters returns every character across all scenes in first-appearance order.
func DeriveCharacters(scenes []Scene) []string {
	seen := make(map[string]struct{})
	characters := make([]string, 0)
	for _, scene := range scenes {
		for _, line := range scene.Lines {
			for _, name := range line.Characters {
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				characters = append(characters, name)
			}
		}
	}
	return characters
}

// RecomputeCharacters refreshes the derived character list.
func (p *Project) RecomputeCharacters() {
	p.Characters = DeriveCharacters(p.Scenes)
}

// HasCharacter reports whether any line in the project belongs to name.
func (p *Project) HasCharacter(name string) bool {
	for _, c := range DeriveCharacters(p.Scenes) {
		if c == name {
			return true
		}
	}
	return false
}

// Scene looks up a scene by title.
func (p *Project) Scene(title string) (*Scene, error) {
	for i := range p.Scenes {
		if p.Scenes[i].Title == title {
			return &p.Scenes[i], nil
		}
	}
	return nil, &NotFoundError{Kind: NotFoundScene, Key: title}
}

// UpsertScene replaces the scene with the same title or appends it.
func (p *Project) UpsertScene(scene Scene) {
	defer p.RecomputeCharacters()
	for i := range p.Scenes {
		if p.Scenes[i].Title == scene.Title {
			p.Scenes[i] = scene
			return
		}
	}
	p.Scenes = append(p.Scenes, scene)
}

// RemoveScene deletes a scene by title.
func (p *Project) RemoveScene(title string) error {
	for i := range p.Scenes {
		if p.Scenes[i].Title == title {
			p.Scenes = append(p.Scenes[:i], p.Scenes[i+1:]...)
			p.RecomputeCharacters()
			return nil
		}
	}
	return &NotFoundError{Kind: NotFoundScene, Key: title}
}

// SetLine replaces the line at index, or appends when index equals the line count.
func (p *Project) SetLine(sceneTitle string, index int, line Line) error {
	scene, err := p.Scene(sceneTitle)
	if err != nil {
		return err
	}
	if len(line.Characters) == 0 {
		return &ValidationError{Field: "characters", Reason: "line must have at least one character"}
	}

	switch {
	case index >= 0 && index < len(scene.Lines):
		scene.Lines[index] = line
	case index == len(scene.Lines):
		scene.Lines = append(scene.Lines, line)
	default:
		return &NotFoundError{Kind: NotFoundLine, Key: fmt.Sprintf("%s[%d]", sceneTitle, index)}
	}

	p.RecomputeCharacters()
	return nil
}

// Validate checks the project shape and scene title uniqueness.
func (p *Project) Validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Scenes, validation.By(uniqueSceneTitles)),
	)
	if err == nil {
		return nil
	}
	return toValidationError(err)
}

func uniqueSceneTitles(value any) error {
	scenes, _ := value.([]Scene)
	seen := make(map[string]struct{}, len(scenes))
	for _, s := range scenes {
		if _, ok := seen[s.Title]; ok {
			return validation.NewError("validation_scene_title_duplicate", fmt.Sprintf("duplicate scene title %q", s.Title))
		}
		seen[s.Title] = struct{}{}
	}
	return nil
}

func toValidationError(err error) error {
	var errs validation.Errors
	if stdErrors.As(err, &errs) && len(errs) > 0 {
		fields := make([]string, 0, len(errs))
		for field := range errs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		return &ValidationError{Field: fields[0], Reason: errs[fields[0]].Error()}
	}
	return &ValidationError{Reason: err.Error()}
}

// DecodeProject reads a persisted project document, normalising legacy line
// shapes and recomputing the derived characters.
func DecodeProject(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		var ve *ValidationError
		if stdErrors.As(err, &ve) {
			return nil, ve
		}
		return nil, &ValidationError{Reason: err.Error()}
	}
	p.RecomputeCharacters()
	return &p, nil
}

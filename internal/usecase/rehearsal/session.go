package rehearsal

import (
	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

// ProjectRef identifies a project within one of the backing sources.
type ProjectRef struct {
	Source entities.ProjectSource `json:"source"`
	ID     string                 `json:"id"`
}

// IsZero reports whether no project is referenced.
func (r ProjectRef) IsZero() bool {
	return r.Source == "" && r.ID == ""
}

// SessionState is what a rehearsal client renders after every command.
type SessionState struct {
	Project    ProjectRef                  `json:"project"`
	Scene      string                      `json:"scene,omitempty"`
	Character  string                      `json:"character,omitempty"`
	Characters []string                    `json:"characters,omitempty"`
	Scenes     []string                    `json:"scenes,omitempty"`
	Cursor     CursorState                 `json:"cursor"`
	Lines      []DisplayLine               `json:"lines,omitempty"`
	Prefs      entities.DisplayPreferences `json:"preferences"`
}

// Session owns the selection and cursor of one rehearsal. It starts empty
// and is cleared by Reset when the user signs out or switches data source.
type Session struct {
	ref       ProjectRef
	project   *entities.Project
	scene     string
	character string
	prefs     entities.DisplayPreferences
	cursor    *Cursor
}

// NewSession creates an empty session.
func NewSession(prefs entities.DisplayPreferences) *Session {
	return &Session{prefs: prefs}
}

// SelectProject loads a project and clears scene and character.
func (s *Session) SelectProject(ref ProjectRef, project *entities.Project) {
	s.ref = ref
	s.project = project
	s.scene = ""
	s.character = ""
	s.cursor = nil
}

// SelectScene chooses the scene to rehearse and rebuilds the cursor.
func (s *Session) SelectScene(title string) error {
	if s.project == nil {
		return &entities.NotFoundError{Kind: entities.NotFoundProject, Key: s.ref.ID}
	}
	scene, err := s.project.Scene(title)
	if err != nil {
		return err
	}
	s.scene = scene.Title
	s.cursor = NewCursor(*scene, s.character)
	return nil
}

// SelectCharacter chooses the character the user plays and rebuilds the cursor.
func (s *Session) SelectCharacter(name string) error {
	if s.project == nil {
		return &entities.NotFoundError{Kind: entities.NotFoundProject, Key: s.ref.ID}
	}
	if !s.project.HasCharacter(name) {
		return &entities.NotFoundError{Kind: entities.NotFoundCharacter, Key: name}
	}
	s.character = name
	if s.scene != "" {
		scene, err := s.project.Scene(s.scene)
		if err != nil {
			return err
		}
		s.cursor = NewCursor(*scene, name)
	}
	return nil
}

// SetPreferences replaces the display preferences.
func (s *Session) SetPreferences(prefs entities.DisplayPreferences) {
	s.prefs = prefs
}

// Reset clears every selection.
func (s *Session) Reset() {
	s.ref = ProjectRef{}
	s.project = nil
	s.scene = ""
	s.character = ""
	s.cursor = nil
}

// Cursor returns the active cursor, or nil when no scene is selected.
func (s *Session) Cursor() *Cursor {
	return s.cursor
}

// Play starts playback if a scene is selected.
func (s *Session) Play() {
	if s.cursor != nil {
		s.cursor.Play()
	}
}

// Stop stops playback if a scene is selected.
func (s *Session) Stop() {
	if s.cursor != nil {
		s.cursor.Stop()
	}
}

// AdvanceLine forwards to the cursor.
func (s *Session) AdvanceLine(dir LineDirection) {
	if s.cursor != nil {
		s.cursor.AdvanceLine(dir)
	}
}

// AdvanceWord forwards to the cursor.
func (s *Session) AdvanceWord(dir WordDirection) {
	if s.cursor != nil {
		s.cursor.AdvanceWord(dir)
	}
}

// SetInput forwards to the cursor.
func (s *Session) SetInput(text string) {
	if s.cursor != nil {
		s.cursor.SetInput(text)
	}
}

// SubmitLine forwards to the cursor.
func (s *Session) SubmitLine(candidate string) bool {
	if s.cursor == nil {
		return false
	}
	return s.cursor.SubmitLine(candidate)
}

// State returns a snapshot for rendering.
func (s *Session) State() SessionState {
	state := SessionState{
		Project:   s.ref,
		Scene:     s.scene,
		Character: s.character,
		Prefs:     s.prefs,
	}
	if s.project != nil {
		state.Characters = s.project.Characters
		state.Scenes = make([]string, 0, len(s.project.Scenes))
		for _, sc := range s.project.Scenes {
			state.Scenes = append(state.Scenes, sc.Title)
		}
	}
	if s.cursor != nil {
		state.Cursor = s.cursor.State()
		state.Lines = FormatScene(s.cursor.scene, s.character)
	}
	return state
}

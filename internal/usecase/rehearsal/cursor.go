package rehearsal

import (
	"strings"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

// LineDirection moves the cursor between lines.
type LineDirection string

const (
	LineUp   LineDirection = "up"
	LineDown LineDirection = "down"
)

// WordDirection moves the word reveal within a line.
type WordDirection string

const (
	WordLeft  WordDirection = "left"
	WordRight WordDirection = "right"
)

// CursorState is a snapshot of the playback position.
type CursorState struct {
	Playing   bool   `json:"is_playing"`
	LineIndex int    `json:"current_line_index"`
	LineCount int    `json:"line_count"`
	WordIndex int    `json:"word_index"`
	WordCount int    `json:"word_count"`
	Awaiting  bool   `json:"is_awaiting_input"`
	Input     string `json:"input"`
	Revealed  string `json:"revealed"`
}

// Cursor walks a scene line by line and word by word for one character.
// It never fails: commands whose preconditions do not hold leave it unchanged.
// A Cursor is not safe for concurrent use.
type Cursor struct {
	scene     entities.Scene
	character string

	playing   bool
	lineIndex int
	wordIndex int
	awaiting  bool
	input     string
}

// NewCursor creates a stopped cursor at the first line.
func NewCursor(scene entities.Scene, character string) *Cursor {
	return &Cursor{scene: scene, character: character}
}

// Play starts playback without moving the cursor.
func (c *Cursor) Play() {
	if c.playing {
		return
	}
	c.playing = true
	c.recomputeAwaiting()
}

// Stop halts playback and rewinds to the first line.
func (c *Cursor) Stop() {
	if !c.playing {
		return
	}
	c.playing = false
	c.lineIndex = 0
	c.wordIndex = 0
	c.awaiting = false
	c.input = ""
}

// AdvanceLine moves one line up or down and reveals the new line in full.
// Moving down from the last line keeps the index and re-reveals that line.
// Moving up from the first line does nothing.
func (c *Cursor) AdvanceLine(dir LineDirection) {
	if !c.playing {
		return
	}
	n := len(c.scene.Lines)
	if n == 0 {
		return
	}

	switch dir {
	case LineDown:
		if c.lineIndex >= n-1 {
			c.lineIndex = n - 1
		} else {
			c.lineIndex++
		}
	case LineUp:
		if c.lineIndex == 0 {
			return
		}
		c.lineIndex = min(c.lineIndex-1, n-1)
	default:
		return
	}

	c.wordIndex = c.wordCount()
	c.recomputeAwaiting()
}

// AdvanceWord reveals or hides one word of the current line.
func (c *Cursor) AdvanceWord(dir WordDirection) {
	if !c.playing {
		return
	}
	switch dir {
	case WordRight:
		if c.wordIndex < c.wordCount() {
			c.wordIndex++
		}
	case WordLeft:
		if c.wordIndex > 0 {
			c.wordIndex--
		}
	}
}

// SetInput replaces the input buffer.
func (c *Cursor) SetInput(text string) {
	c.input = text
}

// SubmitLine matches candidate against the current line. On a match the
// input buffer is cleared and the cursor moves to the next line with no words
// revealed. It reports whether the candidate matched.
func (c *Cursor) SubmitLine(candidate string) bool {
	if !c.playing {
		return false
	}
	line, ok := c.Current()
	if !ok {
		return false
	}
	if strings.TrimSpace(candidate) != line.Text {
		return false
	}

	c.awaiting = false
	c.input = ""
	c.lineIndex++
	c.wordIndex = 0
	c.recomputeAwaiting()
	return true
}

// Current returns the line under the cursor, if any.
func (c *Cursor) Current() (entities.Line, bool) {
	if c.lineIndex < 0 || c.lineIndex >= len(c.scene.Lines) {
		return entities.Line{}, false
	}
	return c.scene.Lines[c.lineIndex], true
}

// Reveal returns the revealed prefix of the current line.
func (c *Cursor) Reveal() string {
	line, ok := c.Current()
	if !ok {
		return ""
	}
	words := line.Words()
	return strings.Join(words[:min(c.wordIndex, len(words))], " ")
}

func (c *Cursor) Playing() bool       { return c.playing }
func (c *Cursor) LineIndex() int      { return c.lineIndex }
func (c *Cursor) WordIndex() int      { return c.wordIndex }
func (c *Cursor) AwaitingInput() bool { return c.awaiting }
func (c *Cursor) Input() string       { return c.input }

// State returns a snapshot of the cursor.
func (c *Cursor) State() CursorState {
	return CursorState{
		Playing:   c.playing,
		LineIndex: c.lineIndex,
		LineCount: len(c.scene.Lines),
		WordIndex: c.wordIndex,
		WordCount: c.wordCount(),
		Awaiting:  c.awaiting,
		Input:     c.input,
		Revealed:  c.Reveal(),
	}
}

func (c *Cursor) wordCount() int {
	line, ok := c.Current()
	if !ok {
		return 0
	}
	return len(line.Words())
}

// recomputeAwaiting applies the gating rule: past the end of the scene there
// is nothing left to show, so the viewer waits.
func (c *Cursor) recomputeAwaiting() {
	if !c.playing {
		c.awaiting = false
		return
	}
	line, ok := c.Current()
	if !ok {
		c.awaiting = true
		return
	}
	c.awaiting = line.HasCharacter(c.character)
}

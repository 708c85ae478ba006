package entities

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestLineUnmarshal_LegacyCharacter(t *testing.T) {
	var l Line
	if err := json.Unmarshal([]byte(`{"character":"Alice","line":"Hi"}`), &l); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(l.Characters, []string{"Alice"}) {
		t.Fatalf("expected [Alice] got %v", l.Characters)
	}
	if l.Text != "Hi" {
		t.Fatalf("expected text Hi got %q", l.Text)
	}
}

func TestLineUnmarshal_CharactersWinOverLegacy(t *testing.T) {
	var l Line
	data := []byte(`{"characters":["A","B"],"character":"C","line":"Together!","sung":true}`)
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(l.Characters, []string{"A", "B"}) {
		t.Fatalf("unexpected characters %v", l.Characters)
	}
	if !l.Sung || !l.IsEnsemble() {
		t.Fatalf("expected sung ensemble line, got %+v", l)
	}
}

func TestLineUnmarshal_MissingCharacters(t *testing.T) {
	var l Line
	err := json.Unmarshal([]byte(`{"line":"Who said this?"}`), &l)
	if err == nil {
		t.Fatalf("expected error for line without characters")
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeProject_RecomputesCharacters(t *testing.T) {
	data := []byte(`{
		"project": "Play",
		"characters": ["Stale"],
		"scenes": [
			{"title": "One", "lines": [{"character": "Bob", "line": "Hi"}, {"characters": ["Alice", "Bob"], "line": "Both"}]},
			{"title": "Two", "lines": [{"characters": ["Carol"], "line": "Later"}]}
		]
	}`)
	p, err := DecodeProject(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := []string{"Bob", "Alice", "Carol"}
	if !reflect.DeepEqual(p.Characters, want) {
		t.Fatalf("expected %v got %v", want, p.Characters)
	}
}

func TestDecodeProject_InvalidLine(t *testing.T) {
	_, err := DecodeProject([]byte(`{"project":"P","scenes":[{"title":"S","lines":[{"line":"x"}]}]}`))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError got %v", err)
	}
	if ve.Field != "characters" {
		t.Fatalf("expected field characters got %q", ve.Field)
	}
}

func TestProject_SetLineRecomputesCharacters(t *testing.T) {
	p := Project{Name: "P", Scenes: []Scene{{Title: "S", Lines: []Line{{Characters: []string{"A"}, Text: "one"}}}}}
	p.RecomputeCharacters()

	if err := p.SetLine("S", 0, Line{Characters: []string{"B"}, Text: "two"}); err != nil {
		t.Fatalf("set line failed: %v", err)
	}
	if !reflect.DeepEqual(p.Characters, []string{"B"}) {
		t.Fatalf("expected [B] got %v", p.Characters)
	}

	if err := p.SetLine("S", 1, Line{Characters: []string{"C"}, Text: "three"}); err != nil {
		t.Fatalf("append line failed: %v", err)
	}
	if len(p.Scenes[0].Lines) != 2 {
		t.Fatalf("expected 2 lines got %d", len(p.Scenes[0].Lines))
	}

	err := p.SetLine("S", 5, Line{Characters: []string{"C"}, Text: "x"})
	if !IsNotFoundKind(err, NotFoundLine) {
		t.Fatalf("expected line not found got %v", err)
	}

	err = p.SetLine("Missing", 0, Line{Characters: []string{"C"}, Text: "x"})
	if !IsNotFoundKind(err, NotFoundScene) {
		t.Fatalf("expected scene not found got %v", err)
	}
}

func TestProject_UpsertAndRemoveScene(t *testing.T) {
	p := Project{Name: "P"}
	p.UpsertScene(Scene{Title: "S", Lines: []Line{{Characters: []string{"A"}, Text: "x"}}})
	p.UpsertScene(Scene{Title: "S", Lines: []Line{{Characters: []string{"B"}, Text: "y"}}})

	if len(p.Scenes) != 1 {
		t.Fatalf("expected upsert to replace, got %d scenes", len(p.Scenes))
	}
	if !reflect.DeepEqual(p.Characters, []string{"B"}) {
		t.Fatalf("expected [B] got %v", p.Characters)
	}

	if err := p.RemoveScene("S"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(p.Characters) != 0 {
		t.Fatalf("expected no characters got %v", p.Characters)
	}
	if err := p.RemoveScene("S"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestProject_Validate(t *testing.T) {
	p := Project{Name: "P", Scenes: []Scene{{Title: "S"}, {Title: "S"}}}
	err := p.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError got %v", err)
	}
	if ve.Field != "scenes" {
		t.Fatalf("expected scenes field got %q", ve.Field)
	}

	p = Project{Scenes: []Scene{}}
	if err := p.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected missing name to fail, got %v", err)
	}

	p = Project{Name: "P", Scenes: []Scene{{Title: "S", Lines: []Line{{Characters: []string{"A"}, Text: "x"}}}}}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid project got %v", err)
	}
}

func TestLine_SameCharacters(t *testing.T) {
	a := Line{Characters: []string{"A", "B"}}
	b := Line{Characters: []string{"B", "A"}}
	c := Line{Characters: []string{"A"}}
	if !a.SameCharacters(b) {
		t.Fatalf("expected order-insensitive match")
	}
	if a.SameCharacters(c) {
		t.Fatalf("expected mismatch")
	}
}

func TestProjectRecord_RoundTrip(t *testing.T) {
	owner := uuid.New()
	in := Project{Name: "P", Scenes: []Scene{{Title: "S", Lines: []Line{{Characters: []string{"A"}, Text: "x", Sung: true}}}}}
	rec, err := NewProjectRecord(owner, in)
	if err != nil {
		t.Fatalf("new record failed: %v", err)
	}
	if rec.Visibility != VisibilityPrivate {
		t.Fatalf("expected private got %s", rec.Visibility)
	}
	out, err := rec.ToProject()
	if err != nil {
		t.Fatalf("to project failed: %v", err)
	}
	if out.Name != "P" || !out.Scenes[0].Lines[0].Sung {
		t.Fatalf("unexpected project %+v", out)
	}
	if !reflect.DeepEqual(out.Characters, []string{"A"}) {
		t.Fatalf("expected [A] got %v", out.Characters)
	}
}

func TestProjectRecord_Access(t *testing.T) {
	owner := &User{ID: uuid.New(), Role: RoleActor}
	other := &User{ID: uuid.New(), Role: RoleActor}
	admin := &User{ID: uuid.New(), Role: RoleAdmin}
	rec := &ProjectRecord{OwnerID: owner.ID, Visibility: VisibilityPrivate}

	if !rec.CanRead(owner, false) || rec.CanRead(other, false) {
		t.Fatalf("private project access wrong")
	}
	if !rec.CanRead(other, true) {
		t.Fatalf("shared user should read")
	}
	if rec.CanWrite(other) || !rec.CanWrite(admin) {
		t.Fatalf("write access wrong")
	}
	rec.Visibility = VisibilityPublic
	if !rec.CanRead(nil, false) {
		t.Fatalf("public project should be readable anonymously")
	}
}

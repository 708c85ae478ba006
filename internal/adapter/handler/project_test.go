package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/linerunner/errors"
	"github.com/johnquangdev/linerunner/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/linerunner/internal/usecase/errors"
	projectUsecase "github.com/johnquangdev/linerunner/internal/usecase/project"
	pkgvalidator "github.com/johnquangdev/linerunner/pkg/validator"
)

// stubProjects overrides the service methods a test needs. Calling any other
// method panics on the nil embedded interface.
type stubProjects struct {
	projectUsecase.Service

	list           func(source entities.ProjectSource) ([]projectUsecase.Summary, error)
	get            func(id uuid.UUID) (*entities.ProjectRecord, error)
	createFromDoc  func(data []byte) (*entities.ProjectRecord, error)
	importMarkdown func(in projectUsecase.ImportInput) (*entities.ProjectRecord, error)
	updateLine     func(sceneTitle string, index int, line entities.Line) (*entities.ProjectRecord, error)
	resolve        func(source entities.ProjectSource, id string) (*entities.Project, error)
}

func (s *stubProjects) List(_ context.Context, _ *entities.User, source entities.ProjectSource) ([]projectUsecase.Summary, error) {
	return s.list(source)
}

func (s *stubProjects) Get(_ context.Context, _ *entities.User, id uuid.UUID) (*entities.ProjectRecord, error) {
	return s.get(id)
}

func (s *stubProjects) CreateFromDocument(_ context.Context, _ *entities.User, data []byte) (*entities.ProjectRecord, error) {
	return s.createFromDoc(data)
}

func (s *stubProjects) ImportMarkdown(_ context.Context, _ *entities.User, in projectUsecase.ImportInput) (*entities.ProjectRecord, error) {
	return s.importMarkdown(in)
}

func (s *stubProjects) UpdateLine(_ context.Context, _ *entities.User, _ uuid.UUID, sceneTitle string, index int, line entities.Line) (*entities.ProjectRecord, error) {
	return s.updateLine(sceneTitle, index, line)
}

func (s *stubProjects) Resolve(_ context.Context, _ *entities.User, source entities.ProjectSource, id string) (*entities.Project, error) {
	return s.resolve(source, id)
}

func sampleProject() entities.Project {
	p := entities.Project{
		Name: "Play",
		Scenes: []entities.Scene{{
			Title: "Scene 1",
			Lines: []entities.Line{
				{Characters: []string{"Alice"}, Text: "Hello there"},
				{Characters: []string{"Bob"}, Text: "Hi Alice"},
			},
		}},
	}
	p.RecomputeCharacters()
	return p
}

func sampleRecord(t *testing.T, owner uuid.UUID) *entities.ProjectRecord {
	t.Helper()
	record, err := entities.NewProjectRecord(owner, sampleProject())
	if err != nil {
		t.Fatalf("NewProjectRecord: %v", err)
	}
	return record
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	return e
}

func doRequest(e *echo.Echo, method, target, body string, user *entities.User, h echo.HandlerFunc, route string) *httptest.ResponseRecorder {
	if user != nil {
		inner := h
		h = func(c echo.Context) error {
			c.Set("user", user)
			c.Set("user_id", user.ID)
			return inner(c)
		}
	}
	e.Add(method, route, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestProject_GetProject(t *testing.T) {
	owner := entities.NewUser("owner@example.com", "Owner")
	record := sampleRecord(t, owner.ID)

	stub := &stubProjects{
		get: func(id uuid.UUID) (*entities.ProjectRecord, error) {
			if id == record.ID {
				return record, nil
			}
			return nil, &entities.NotFoundError{Kind: entities.NotFoundProject, Key: id.String()}
		},
	}
	h := NewProjectHandler(stub, zap.NewNop(), 1<<20)

	t.Run("found", func(t *testing.T) {
		rec := doRequest(newEcho(), http.MethodGet, "/projects/"+record.ID.String(), "", owner, h.GetProject, "/projects/:id")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var data map[string]any
		if err := json.Unmarshal(decode(t, rec).Data, &data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if data["project"] != "Play" {
			t.Fatalf("unexpected project payload %v", data)
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := doRequest(newEcho(), http.MethodGet, "/projects/"+uuid.NewString(), "", owner, h.GetProject, "/projects/:id")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if got := decode(t, rec).Code; got != int(errors.ErrorCode_PROJECT_NOT_FOUND) {
			t.Fatalf("expected PROJECT_NOT_FOUND, got %d", got)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := doRequest(newEcho(), http.MethodGet, "/projects/nope", "", owner, h.GetProject, "/projects/:id")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProject_ListProjectsDefaultsSource(t *testing.T) {
	var seen entities.ProjectSource
	stub := &stubProjects{
		list: func(source entities.ProjectSource) ([]projectUsecase.Summary, error) {
			seen = source
			return []projectUsecase.Summary{}, nil
		},
	}
	h := NewProjectHandler(stub, zap.NewNop(), 1<<20)

	rec := doRequest(newEcho(), http.MethodGet, "/projects", "", nil, h.ListProjects, "/projects")
	if rec.Code != http.StatusOK || seen != entities.SourcePublic {
		t.Fatalf("anonymous list: got %d source %q", rec.Code, seen)
	}

	user := entities.NewUser("actor@example.com", "Actor")
	rec = doRequest(newEcho(), http.MethodGet, "/projects", "", user, h.ListProjects, "/projects")
	if rec.Code != http.StatusOK || seen != entities.SourceUser {
		t.Fatalf("signed-in list: got %d source %q", rec.Code, seen)
	}

	rec = doRequest(newEcho(), http.MethodGet, "/projects?source=elsewhere", "", user, h.ListProjects, "/projects")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown source: expected 400, got %d", rec.Code)
	}
}

func TestProject_CreateProjectValidation(t *testing.T) {
	stub := &stubProjects{
		createFromDoc: func(data []byte) (*entities.ProjectRecord, error) {
			return nil, &entities.ValidationError{Field: "/scenes/0/lines/0", Reason: "missing characters"}
		},
	}
	h := NewProjectHandler(stub, zap.NewNop(), 1<<20)
	user := entities.NewUser("actor@example.com", "Actor")

	rec := doRequest(newEcho(), http.MethodPost, "/projects", `{"project":"P"}`, user, h.CreateProject, "/projects")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body errs
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Details["field"] != "/scenes/0/lines/0" {
		t.Fatalf("expected field detail, got %+v", body)
	}

	rec = doRequest(newEcho(), http.MethodPost, "/projects", "", user, h.CreateProject, "/projects")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty body: expected 400, got %d", rec.Code)
	}
}

func TestProject_ImportProject(t *testing.T) {
	user := entities.NewUser("actor@example.com", "Actor")
	var got projectUsecase.ImportInput
	stub := &stubProjects{
		importMarkdown: func(in projectUsecase.ImportInput) (*entities.ProjectRecord, error) {
			got = in
			if strings.Contains(string(in.Source), "broken") {
				return nil, &entities.ParseError{Err: context.DeadlineExceeded}
			}
			return sampleRecord(t, user.ID), nil
		},
	}
	h := NewProjectHandler(stub, zap.NewNop(), 1<<20)

	rec := doRequest(newEcho(), http.MethodPost, "/projects/import", "# Play\n## Scene 1", user, h.ImportProject, "/projects/import")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(string(got.Source), "# Play") {
		t.Fatalf("markdown not forwarded: %q", got.Source)
	}

	rec = doRequest(newEcho(), http.MethodPost, "/projects/import", "broken", user, h.ImportProject, "/projects/import")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("parse failure: expected 422, got %d", rec.Code)
	}
}

func TestProject_PutLine(t *testing.T) {
	user := entities.NewUser("actor@example.com", "Actor")
	var gotIndex int
	var gotLine entities.Line
	stub := &stubProjects{
		updateLine: func(sceneTitle string, index int, line entities.Line) (*entities.ProjectRecord, error) {
			if sceneTitle != "Scene 1" {
				return nil, &entities.NotFoundError{Kind: entities.NotFoundScene, Key: sceneTitle}
			}
			gotIndex, gotLine = index, line
			return sampleRecord(t, user.ID), nil
		},
	}
	h := NewProjectHandler(stub, zap.NewNop(), 1<<20)
	route := "/projects/:id/scenes/:title/lines/:index"
	id := uuid.NewString()

	body := `{"characters":["Alice"],"line":"New words","sung":true}`
	rec := doRequest(newEcho(), http.MethodPut, "/projects/"+id+"/scenes/Scene%201/lines/2", body, user, h.PutLine, route)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotIndex != 2 || gotLine.Text != "New words" || !gotLine.Sung {
		t.Fatalf("unexpected forwarded line %d %+v", gotIndex, gotLine)
	}

	rec = doRequest(newEcho(), http.MethodPut, "/projects/"+id+"/scenes/Scene%201/lines/x", body, user, h.PutLine, route)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad index: expected 400, got %d", rec.Code)
	}

	rec = doRequest(newEcho(), http.MethodPut, "/projects/"+id+"/scenes/Other/lines/0", body, user, h.PutLine, route)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown scene: expected 404, got %d", rec.Code)
	}

	rec = doRequest(newEcho(), http.MethodPut, "/projects/"+id+"/scenes/Scene%201/lines/0", `{"characters":[],"line":"x"}`, user, h.PutLine, route)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("no characters: expected 400, got %d", rec.Code)
	}
}

func TestToAppError(t *testing.T) {
	tests := map[string]struct {
		err    error
		status int
	}{
		"validation":   {err: &entities.ValidationError{Reason: "bad"}, status: http.StatusBadRequest},
		"scene":        {err: &entities.NotFoundError{Kind: entities.NotFoundScene, Key: "S"}, status: http.StatusNotFound},
		"parse":        {err: &entities.ParseError{Err: context.Canceled}, status: http.StatusUnprocessableEntity},
		"access":       {err: usecaseErrors.ErrProjectAccessDenied, status: http.StatusForbidden},
		"not owner":    {err: usecaseErrors.ErrNotProjectOwner, status: http.StatusForbidden},
		"admin only":   {err: usecaseErrors.ErrAdminOnly, status: http.StatusForbidden},
		"unauthorized": {err: usecaseErrors.ErrUnauthorized, status: http.StatusUnauthorized},
		"no storage":   {err: usecaseErrors.ErrStorageDisabled, status: http.StatusNotFound},
		"app error":    {err: errors.ErrForbidden("x"), status: http.StatusForbidden},
		"unknown":      {err: context.DeadlineExceeded, status: http.StatusInternalServerError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// nil context is what the websocket path passes
			if got := toAppError(nil, tt.err).HTTPCode; got != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, got)
			}
		})
	}
}

package project

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	"github.com/johnquangdev/linerunner/internal/infrastructure/localstore"
	usecaseErrors "github.com/johnquangdev/linerunner/internal/usecase/errors"
	"github.com/johnquangdev/linerunner/internal/usecase/script"
)

type fakeProjects struct {
	records   map[uuid.UUID]*entities.ProjectRecord
	shares    map[[2]uuid.UUID]*entities.ProjectShare
	createErr error
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{
		records: make(map[uuid.UUID]*entities.ProjectRecord),
		shares:  make(map[[2]uuid.UUID]*entities.ProjectShare),
	}
}

func (f *fakeProjects) Create(_ context.Context, r *entities.ProjectRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *r
	f.records[r.ID] = &copied
	return nil
}

func (f *fakeProjects) FindByID(_ context.Context, id uuid.UUID) (*entities.ProjectRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, &entities.NotFoundError{Kind: entities.NotFoundProject, Key: id.String()}
	}
	copied := *r
	return &copied, nil
}

func (f *fakeProjects) Update(_ context.Context, r *entities.ProjectRecord) error {
	if _, ok := f.records[r.ID]; !ok {
		return &entities.NotFoundError{Kind: entities.NotFoundProject, Key: r.ID.String()}
	}
	copied := *r
	f.records[r.ID] = &copied
	return nil
}

func (f *fakeProjects) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.records[id]; !ok {
		return &entities.NotFoundError{Kind: entities.NotFoundProject, Key: id.String()}
	}
	delete(f.records, id)
	for k := range f.shares {
		if k[0] == id {
			delete(f.shares, k)
		}
	}
	return nil
}

func (f *fakeProjects) filter(keep func(*entities.ProjectRecord) bool) []*entities.ProjectRecord {
	out := []*entities.ProjectRecord{}
	for _, r := range f.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeProjects) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*entities.ProjectRecord, error) {
	return f.filter(func(r *entities.ProjectRecord) bool { return r.OwnerID == ownerID }), nil
}

func (f *fakeProjects) ListPublic(_ context.Context) ([]*entities.ProjectRecord, error) {
	return f.filter(func(r *entities.ProjectRecord) bool { return r.Visibility == entities.VisibilityPublic }), nil
}

func (f *fakeProjects) ListSharedWith(_ context.Context, userID uuid.UUID) ([]*entities.ProjectRecord, error) {
	return f.filter(func(r *entities.ProjectRecord) bool {
		_, ok := f.shares[[2]uuid.UUID{r.ID, userID}]
		return ok
	}), nil
}

func (f *fakeProjects) Share(_ context.Context, s *entities.ProjectShare) error {
	f.shares[[2]uuid.UUID{s.ProjectID, s.UserID}] = s
	return nil
}

func (f *fakeProjects) Unshare(_ context.Context, projectID, userID uuid.UUID) error {
	key := [2]uuid.UUID{projectID, userID}
	if _, ok := f.shares[key]; !ok {
		return &entities.NotFoundError{Kind: entities.NotFoundShare, Key: userID.String()}
	}
	delete(f.shares, key)
	return nil
}

func (f *fakeProjects) ListShares(_ context.Context, projectID uuid.UUID) ([]*entities.ProjectShare, error) {
	out := []*entities.ProjectShare{}
	for k, s := range f.shares {
		if k[0] == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeProjects) IsSharedWith(_ context.Context, projectID, userID uuid.UUID) (bool, error) {
	_, ok := f.shares[[2]uuid.UUID{projectID, userID}]
	return ok, nil
}

type fakeUsers struct {
	byID map[uuid.UUID]*entities.User
}

func (f *fakeUsers) add(u *entities.User) *entities.User {
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsers) Create(_ context.Context, u *entities.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, entities.ErrUserNotFound
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (f *fakeUsers) FindByOAuth(_ context.Context, _, _ string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}

func (f *fakeUsers) Update(_ context.Context, u *entities.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) UpdateLastLogin(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeUsers) List(_ context.Context, _, _ int) ([]*entities.User, error) {
	return nil, nil
}

type fakeObjects struct {
	objects map[string][]byte
}

func (f *fakeObjects) Put(_ context.Context, key string, data []byte, _ string) error {
	f.objects[key] = data
	return nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) URL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://objects.test/" + key, nil
}

type fixture struct {
	service  *ProjectService
	projects *fakeProjects
	users    *fakeUsers
	objects  *fakeObjects
	local    *localstore.Store
	owner    *entities.User
	other    *entities.User
	admin    *entities.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	schema, err := NewSchemaValidator()
	if err != nil {
		t.Fatalf("NewSchemaValidator: %v", err)
	}

	f := &fixture{
		projects: newFakeProjects(),
		users:    &fakeUsers{byID: make(map[uuid.UUID]*entities.User)},
		objects:  &fakeObjects{objects: make(map[string][]byte)},
		local:    localstore.New(t.TempDir()),
	}
	f.owner = f.users.add(entities.NewUser("owner@example.com", "Owner"))
	f.other = f.users.add(entities.NewUser("other@example.com", "Other"))
	f.admin = entities.NewUser("admin@example.com", "Admin")
	f.admin.Role = entities.RoleAdmin
	f.users.add(f.admin)

	f.service = NewProjectService(
		f.projects,
		f.projects,
		f.users,
		script.NewParser(nil, script.DefaultOptions()),
		schema,
		f.local,
		f.objects,
		zap.NewNop(),
	)
	return f
}

const twoLineScript = "# Play\n\n## Scene 1\n\n### Alice\n\nHello there\n\n### Bob\n\nHi Alice\n"

func (f *fixture) importScript(t *testing.T) *entities.ProjectRecord {
	t.Helper()
	record, err := f.service.ImportMarkdown(context.Background(), f.owner, ImportInput{
		Source:   []byte(twoLineScript),
		Filename: "play.md",
	})
	if err != nil {
		t.Fatalf("ImportMarkdown: %v", err)
	}
	return record
}

func TestImportMarkdownStoresProjectAndSource(t *testing.T) {
	f := newFixture(t)
	record := f.importScript(t)

	if record.Name != "Play" {
		t.Fatalf("expected project name Play, got %q", record.Name)
	}
	if record.Visibility != entities.VisibilityPrivate {
		t.Fatalf("expected new project to be private, got %s", record.Visibility)
	}

	wantKey := SourceKey(f.owner.ID, record.ID)
	if record.SourceObject == nil || *record.SourceObject != wantKey {
		t.Fatalf("expected source object %q, got %v", wantKey, record.SourceObject)
	}
	if string(f.objects.objects[wantKey]) != twoLineScript {
		t.Fatalf("expected markdown stored under %q", wantKey)
	}

	project, err := record.ToProject()
	if err != nil {
		t.Fatalf("ToProject: %v", err)
	}
	if len(project.Scenes) != 1 || len(project.Scenes[0].Lines) != 2 {
		t.Fatalf("unexpected scenes: %+v", project.Scenes)
	}
	if got := project.Characters; len(got) != 2 || got[0] != "Alice" || got[1] != "Bob" {
		t.Fatalf("expected characters [Alice Bob], got %v", got)
	}
}

func TestImportMarkdownRemovesSourceWhenCreateFails(t *testing.T) {
	f := newFixture(t)
	dbErr := errors.New("insert failed")
	f.projects.createErr = dbErr

	_, err := f.service.ImportMarkdown(context.Background(), f.owner, ImportInput{
		Source:   []byte(twoLineScript),
		Filename: "play.md",
	})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected create error, got %v", err)
	}
	if len(f.objects.objects) != 0 {
		t.Fatalf("expected no stored sources, got %d", len(f.objects.objects))
	}
}

func TestImportMarkdownWithoutObjectStore(t *testing.T) {
	f := newFixture(t)
	f.service.objects = nil

	record := f.importScript(t)
	if record.SourceObject != nil {
		t.Fatalf("expected no source object, got %q", *record.SourceObject)
	}

	_, err := f.service.SourceURL(context.Background(), f.owner, record.ID)
	if !errors.Is(err, usecaseErrors.ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}
}

func TestCreateFromDocumentNormalizesLegacyLines(t *testing.T) {
	f := newFixture(t)
	doc := `{"project":"Legacy","scenes":[{"title":"S1","lines":[{"character":"Alice","line":"Hi"},{"characters":["Alice","Bob"],"line":"Together"}]}]}`

	record, err := f.service.CreateFromDocument(context.Background(), f.owner, []byte(doc))
	if err != nil {
		t.Fatalf("CreateFromDocument: %v", err)
	}
	project, err := record.ToProject()
	if err != nil {
		t.Fatalf("ToProject: %v", err)
	}
	first := project.Scenes[0].Lines[0]
	if len(first.Characters) != 1 || first.Characters[0] != "Alice" || first.Text != "Hi" {
		t.Fatalf("expected legacy line normalised, got %+v", first)
	}
	if got := project.Characters; len(got) != 2 || got[1] != "Bob" {
		t.Fatalf("expected characters [Alice Bob], got %v", got)
	}
}

func TestCreateFromDocumentRejectsInvalidDocuments(t *testing.T) {
	f := newFixture(t)
	cases := map[string]string{
		"missing characters": `{"project":"P","scenes":[{"title":"S","lines":[{"line":"Hi"}]}]}`,
		"empty characters":   `{"project":"P","scenes":[{"title":"S","lines":[{"characters":[],"line":"Hi"}]}]}`,
		"missing name":       `{"scenes":[]}`,
		"not json":           `{"project":`,
		"duplicate scenes":   `{"project":"P","scenes":[{"title":"S","lines":[]},{"title":"S","lines":[]}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.CreateFromDocument(context.Background(), f.owner, []byte(doc))
			if !errors.Is(err, entities.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(f.projects.records) != 0 {
		t.Fatalf("expected nothing stored, got %d records", len(f.projects.records))
	}
}

func TestGetEnforcesAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.importScript(t)

	if _, err := f.service.Get(ctx, f.owner, record.ID); err != nil {
		t.Fatalf("owner should read own project: %v", err)
	}
	if _, err := f.service.Get(ctx, f.admin, record.ID); err != nil {
		t.Fatalf("admin should read any project: %v", err)
	}
	if _, err := f.service.Get(ctx, f.other, record.ID); !errors.Is(err, usecaseErrors.ErrProjectAccessDenied) {
		t.Fatalf("expected access denied for other user, got %v", err)
	}
	if _, err := f.service.Get(ctx, nil, record.ID); !errors.Is(err, usecaseErrors.ErrProjectAccessDenied) {
		t.Fatalf("expected access denied for anonymous, got %v", err)
	}

	if _, err := f.service.Share(ctx, f.admin, record.ID, f.other.ID); err != nil {
		t.Fatalf("Share: %v", err)
	}
	if _, err := f.service.Get(ctx, f.other, record.ID); err != nil {
		t.Fatalf("shared user should read project: %v", err)
	}

	if _, err := f.service.SetVisibility(ctx, f.owner, record.ID, entities.VisibilityPublic); err != nil {
		t.Fatalf("SetVisibility: %v", err)
	}
	if _, err := f.service.Get(ctx, nil, record.ID); err != nil {
		t.Fatalf("anonymous should read public project: %v", err)
	}

	if _, err := f.service.Get(ctx, f.owner, uuid.New()); !entities.IsNotFoundKind(err, entities.NotFoundProject) {
		t.Fatalf("expected project not found, got %v", err)
	}
}

func TestShareRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.importScript(t)

	if _, err := f.service.Share(ctx, f.owner, record.ID, f.other.ID); !errors.Is(err, usecaseErrors.ErrAdminOnly) {
		t.Fatalf("expected ErrAdminOnly, got %v", err)
	}
	if _, err := f.service.Share(ctx, f.admin, record.ID, f.owner.ID); !errors.Is(err, usecaseErrors.ErrShareWithSelf) {
		t.Fatalf("expected ErrShareWithSelf, got %v", err)
	}
	if _, err := f.service.Share(ctx, f.admin, record.ID, uuid.New()); !errors.Is(err, entities.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	share, err := f.service.Share(ctx, f.admin, record.ID, f.other.ID)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if share.GrantedBy != f.admin.ID || share.User == nil || share.User.ID != f.other.ID {
		t.Fatalf("unexpected share: %+v", share)
	}

	shares, err := f.service.ListShares(ctx, f.owner, record.ID)
	if err != nil || len(shares) != 1 {
		t.Fatalf("expected one share, got %d (%v)", len(shares), err)
	}

	summaries, err := f.service.List(ctx, f.other, entities.SourceShared)
	if err != nil || len(summaries) != 1 || summaries[0].Source != entities.SourceShared {
		t.Fatalf("expected one shared summary, got %+v (%v)", summaries, err)
	}

	if err := f.service.Unshare(ctx, f.admin, record.ID, f.other.ID); err != nil {
		t.Fatalf("Unshare: %v", err)
	}
	if err := f.service.Unshare(ctx, f.admin, record.ID, f.other.ID); !entities.IsNotFoundKind(err, entities.NotFoundShare) {
		t.Fatalf("expected share not found, got %v", err)
	}
	if err := f.service.Unshare(ctx, f.admin, uuid.New(), f.other.ID); !entities.IsNotFoundKind(err, entities.NotFoundProject) {
		t.Fatalf("expected project not found, got %v", err)
	}
}

func TestWritesRequireOwnerOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.importScript(t)

	if _, err := f.service.SetVisibility(ctx, f.other, record.ID, entities.VisibilityPublic); !errors.Is(err, usecaseErrors.ErrNotProjectOwner) {
		t.Fatalf("expected ErrNotProjectOwner, got %v", err)
	}
	if _, err := f.service.SetVisibility(ctx, f.owner, record.ID, "everyone"); !errors.Is(err, usecaseErrors.ErrInvalidVisibility) {
		t.Fatalf("expected ErrInvalidVisibility, got %v", err)
	}
	if err := f.service.Delete(ctx, nil, record.ID); !errors.Is(err, usecaseErrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.service.UpsertScene(ctx, f.admin, record.ID, entities.Scene{Title: "Scene 2"}); err != nil {
		t.Fatalf("admin should edit any project: %v", err)
	}
}

func TestUpdateLineRecomputesCharacters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.importScript(t)

	updated, err := f.service.UpdateLine(ctx, f.owner, record.ID, "Scene 1", 2, entities.Line{
		Characters: []string{"Carol"},
		Text:       "Me too",
	})
	if err != nil {
		t.Fatalf("UpdateLine append: %v", err)
	}
	project, _ := updated.ToProject()
	if got := project.Characters; len(got) != 3 || got[2] != "Carol" {
		t.Fatalf("expected Carol appended to characters, got %v", got)
	}

	updated, err = f.service.UpdateLine(ctx, f.owner, record.ID, "Scene 1", 1, entities.Line{
		Characters: []string{"Alice"},
		Text:       "Hi again",
	})
	if err != nil {
		t.Fatalf("UpdateLine replace: %v", err)
	}
	project, _ = updated.ToProject()
	if got := project.Characters; len(got) != 2 || got[0] != "Alice" || got[1] != "Carol" {
		t.Fatalf("expected Bob dropped from characters, got %v", got)
	}

	_, err = f.service.UpdateLine(ctx, f.owner, record.ID, "Scene 1", 9, entities.Line{Characters: []string{"Alice"}})
	if !entities.IsNotFoundKind(err, entities.NotFoundLine) {
		t.Fatalf("expected line not found, got %v", err)
	}
	_, err = f.service.UpdateLine(ctx, f.owner, record.ID, "Nope", 0, entities.Line{Characters: []string{"Alice"}})
	if !entities.IsNotFoundKind(err, entities.NotFoundScene) {
		t.Fatalf("expected scene not found, got %v", err)
	}
	_, err = f.service.UpdateLine(ctx, f.owner, record.ID, "Scene 1", 0, entities.Line{Text: "nobody"})
	if !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListBySource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.importScript(t)

	if _, err := f.local.Save("demo", entities.Project{
		Name: "Demo",
		Scenes: []entities.Scene{{
			Title: "Intro",
			Lines: []entities.Line{{Characters: []string{"Narrator"}, Text: "Welcome"}},
		}},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	mine, err := f.service.List(ctx, f.owner, entities.SourceUser)
	if err != nil || len(mine) != 1 || mine[0].ID != record.ID.String() || mine[0].SceneCount != 1 {
		t.Fatalf("unexpected user listing %+v (%v)", mine, err)
	}

	public, err := f.service.List(ctx, nil, entities.SourcePublic)
	if err != nil || len(public) != 0 {
		t.Fatalf("expected no public projects, got %+v (%v)", public, err)
	}

	local, err := f.service.List(ctx, nil, entities.SourceLocal)
	if err != nil || len(local) != 1 || local[0].ID != "demo" || local[0].Name != "Demo" {
		t.Fatalf("unexpected local listing %+v (%v)", local, err)
	}

	if _, err := f.service.List(ctx, nil, entities.SourceUser); !errors.Is(err, usecaseErrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.service.List(ctx, f.owner, "mars"); !errors.Is(err, usecaseErrors.ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.importScript(t)

	project, err := f.service.Resolve(ctx, f.owner, entities.SourceUser, record.ID.String())
	if err != nil || project.Name != "Play" {
		t.Fatalf("Resolve user project: %v %+v", err, project)
	}

	if _, err := f.service.Resolve(ctx, f.other, entities.SourceShared, record.ID.String()); !entities.IsNotFoundKind(err, entities.NotFoundProject) {
		t.Fatalf("expected unshared project to be not found, got %v", err)
	}
	if _, err := f.service.Resolve(ctx, f.owner, entities.SourceUser, "not-a-uuid"); !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.service.Resolve(ctx, nil, entities.SourceLocal, "missing"); !entities.IsNotFoundKind(err, entities.NotFoundProject) {
		t.Fatalf("expected missing local project, got %v", err)
	}
}

func TestDeleteRemovesSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	record := f.importScript(t)

	if err := f.service.Delete(ctx, f.owner, record.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.objects.objects) != 0 {
		t.Fatalf("expected source object removed, got %d objects", len(f.objects.objects))
	}
	if _, err := f.service.Get(ctx, f.owner, record.ID); !entities.IsNotFoundKind(err, entities.NotFoundProject) {
		t.Fatalf("expected project gone, got %v", err)
	}
}

func TestExportWritesDocument(t *testing.T) {
	f := newFixture(t)
	record := f.importScript(t)

	data, err := f.service.Export(context.Background(), f.owner, record.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	project, err := entities.DecodeProject(data)
	if err != nil {
		t.Fatalf("exported document should decode: %v", err)
	}
	if project.Name != "Play" || len(project.Scenes[0].Lines) != 2 {
		t.Fatalf("unexpected export %+v", project)
	}
}

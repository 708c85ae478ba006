package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	"github.com/johnquangdev/linerunner/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/linerunner/internal/usecase/errors"
)

// SourceURLExpiry is how long a source download URL stays valid
const SourceURLExpiry = 15 * time.Minute

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repositories.ProjectRepository
	shareRepo   repositories.ShareRepository
	userRepo    repositories.UserRepository
	parser      ScriptParser
	schema      DocumentValidator
	local       LocalProjects
	objects     ObjectStore
	logger      *zap.Logger
}

// NewProjectService creates a new project service. objects may be nil when
// object storage is disabled.
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	shareRepo repositories.ShareRepository,
	userRepo repositories.UserRepository,
	parser ScriptParser,
	schema DocumentValidator,
	local LocalProjects,
	objects ObjectStore,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		shareRepo:   shareRepo,
		userRepo:    userRepo,
		parser:      parser,
		schema:      schema,
		local:       local,
		objects:     objects,
		logger:      logger,
	}
}

// List returns project summaries from one source
func (s *ProjectService) List(ctx context.Context, user *entities.User, source entities.ProjectSource) ([]Summary, error) {
	var (
		records []*entities.ProjectRecord
		err     error
	)

	switch source {
	case entities.SourceLocal:
		return s.listLocal()
	case entities.SourcePublic:
		records, err = s.projectRepo.ListPublic(ctx)
	case entities.SourceUser:
		if user == nil {
			return nil, usecaseErrors.ErrUnauthorized
		}
		records, err = s.projectRepo.ListByOwner(ctx, user.ID)
	case entities.SourceShared:
		if user == nil {
			return nil, usecaseErrors.ErrUnauthorized
		}
		records, err = s.projectRepo.ListSharedWith(ctx, user.ID)
	default:
		return nil, usecaseErrors.ErrInvalidSource
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s projects: %w", source, err)
	}

	summaries := make([]Summary, 0, len(records))
	for _, r := range records {
		summary, err := summarizeRecord(r, source)
		if err != nil {
			s.logger.Warn("skipping unreadable project",
				zap.String("project_id", r.ID.String()),
				zap.Error(err),
			)
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *ProjectService) listLocal() ([]Summary, error) {
	entries, err := s.local.List()
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(entries))
	for _, e := range entries {
		p, err := s.local.Load(e.Name)
		if err != nil {
			continue
		}
		summaries = append(summaries, Summary{
			ID:         e.Name,
			Name:       p.Name,
			Source:     entities.SourceLocal,
			SceneCount: len(p.Scenes),
			Characters: p.Characters,
		})
	}
	return summaries, nil
}

func summarizeRecord(r *entities.ProjectRecord, source entities.ProjectSource) (Summary, error) {
	p, err := r.ToProject()
	if err != nil {
		return Summary{}, err
	}
	ownerID := r.OwnerID
	updatedAt := r.UpdatedAt
	return Summary{
		ID:         r.ID.String(),
		Name:       r.Name,
		Source:     source,
		Visibility: r.Visibility,
		OwnerID:    &ownerID,
		SceneCount: len(p.Scenes),
		Characters: p.Characters,
		UpdatedAt:  &updatedAt,
	}, nil
}

// Get returns a stored project the user may read
func (s *ProjectService) Get(ctx context.Context, user *entities.User, id uuid.UUID) (*entities.ProjectRecord, error) {
	record, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.CanRead(user, false) {
		return record, nil
	}
	if user == nil {
		return nil, usecaseErrors.ErrProjectAccessDenied
	}

	shared, err := s.shareRepo.IsSharedWith(ctx, id, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project share: %w", err)
	}
	if !record.CanRead(user, shared) {
		return nil, usecaseErrors.ErrProjectAccessDenied
	}
	return record, nil
}

// Create stores a structured project owned by the user
func (s *ProjectService) Create(ctx context.Context, user *entities.User, project entities.Project) (*entities.ProjectRecord, error) {
	if user == nil {
		return nil, usecaseErrors.ErrUnauthorized
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	record, err := entities.NewProjectRecord(user.ID, project)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}
	if err := s.projectRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// CreateFromDocument validates a JSON document against the schema and stores it
func (s *ProjectService) CreateFromDocument(ctx context.Context, user *entities.User, data []byte) (*entities.ProjectRecord, error) {
	project, err := s.decodeDocument(data)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, user, *project)
}

func (s *ProjectService) decodeDocument(data []byte) (*entities.Project, error) {
	if err := s.schema.Validate(data); err != nil {
		return nil, err
	}
	return entities.DecodeProject(data)
}

// ImportMarkdown parses a markdown script and stores the resulting project.
// When object storage is configured the markdown is kept alongside it.
func (s *ProjectService) ImportMarkdown(ctx context.Context, user *entities.User, input ImportInput) (*entities.ProjectRecord, error) {
	if user == nil {
		return nil, usecaseErrors.ErrUnauthorized
	}

	projects, err := s.parser.Parse(input.Source)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, &entities.ValidationError{Field: "source", Reason: "script produced no project"}
	}
	project := projects[0]
	if err := project.Validate(); err != nil {
		return nil, err
	}

	record, err := entities.NewProjectRecord(user.ID, project)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}

	if s.objects != nil {
		key := SourceKey(user.ID, record.ID)
		if err := s.objects.Put(ctx, key, input.Source, "text/markdown; charset=utf-8"); err != nil {
			return nil, fmt.Errorf("failed to store script source: %w", err)
		}
		record.SourceObject = &key
	}

	if err := s.projectRepo.Create(ctx, record); err != nil {
		if record.SourceObject != nil {
			if delErr := s.objects.Delete(ctx, *record.SourceObject); delErr != nil {
				s.logger.Warn("failed to delete orphaned script source",
					zap.String("project_id", record.ID.String()),
					zap.String("object", *record.SourceObject),
					zap.Error(delErr),
				)
			}
		}
		return nil, err
	}

	s.logger.Info("script imported",
		zap.String("project_id", record.ID.String()),
		zap.String("filename", input.Filename),
		zap.Int("scenes", len(project.Scenes)),
	)
	return record, nil
}

// Replace overwrites a project body with a JSON document
func (s *ProjectService) Replace(ctx context.Context, user *entities.User, id uuid.UUID, data []byte) (*entities.ProjectRecord, error) {
	project, err := s.decodeDocument(data)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, user, id, func(current *entities.Project) error {
		*current = *project
		return nil
	})
}

// mutate loads a writable project, applies change and stores the result
func (s *ProjectService) mutate(ctx context.Context, user *entities.User, id uuid.UUID, change func(*entities.Project) error) (*entities.ProjectRecord, error) {
	record, err := s.writable(ctx, user, id)
	if err != nil {
		return nil, err
	}
	project, err := record.ToProject()
	if err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}
	if err := change(project); err != nil {
		return nil, err
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if err := record.SetProject(*project); err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}
	if err := s.projectRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *ProjectService) writable(ctx context.Context, user *entities.User, id uuid.UUID) (*entities.ProjectRecord, error) {
	if user == nil {
		return nil, usecaseErrors.ErrUnauthorized
	}
	record, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.CanWrite(user) {
		return nil, usecaseErrors.ErrNotProjectOwner
	}
	return record, nil
}

// Delete removes a project and its stored source
func (s *ProjectService) Delete(ctx context.Context, user *entities.User, id uuid.UUID) error {
	record, err := s.writable(ctx, user, id)
	if err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	if record.SourceObject != nil && s.objects != nil {
		if err := s.objects.Delete(ctx, *record.SourceObject); err != nil {
			s.logger.Warn("failed to delete script source",
				zap.String("project_id", id.String()),
				zap.String("object", *record.SourceObject),
				zap.Error(err),
			)
		}
	}
	return nil
}

// UpsertScene adds or replaces a scene by title
func (s *ProjectService) UpsertScene(ctx context.Context, user *entities.User, id uuid.UUID, scene entities.Scene) (*entities.ProjectRecord, error) {
	if err := scene.Validate(); err != nil {
		return nil, &entities.ValidationError{Field: "scene", Reason: err.Error()}
	}
	return s.mutate(ctx, user, id, func(p *entities.Project) error {
		p.UpsertScene(scene)
		return nil
	})
}

// UpdateLine replaces or appends one line of a scene
func (s *ProjectService) UpdateLine(ctx context.Context, user *entities.User, id uuid.UUID, sceneTitle string, index int, line entities.Line) (*entities.ProjectRecord, error) {
	if err := line.Validate(); err != nil {
		return nil, &entities.ValidationError{Field: "characters", Reason: err.Error()}
	}
	return s.mutate(ctx, user, id, func(p *entities.Project) error {
		return p.SetLine(sceneTitle, index, line)
	})
}

// SetVisibility toggles a project between private and public
func (s *ProjectService) SetVisibility(ctx context.Context, user *entities.User, id uuid.UUID, visibility entities.Visibility) (*entities.ProjectRecord, error) {
	if !visibility.IsValid() {
		return nil, usecaseErrors.ErrInvalidVisibility
	}
	record, err := s.writable(ctx, user, id)
	if err != nil {
		return nil, err
	}
	record.Visibility = visibility
	if err := s.projectRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Share grants another user read access (admin only)
func (s *ProjectService) Share(ctx context.Context, user *entities.User, id, targetUserID uuid.UUID) (*entities.ProjectShare, error) {
	if user == nil {
		return nil, usecaseErrors.ErrUnauthorized
	}
	if !user.IsAdmin() {
		return nil, usecaseErrors.ErrAdminOnly
	}

	record, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.OwnerID == targetUserID {
		return nil, usecaseErrors.ErrShareWithSelf
	}

	target, err := s.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	share := entities.NewProjectShare(record.ID, target.ID, user.ID)
	if err := s.shareRepo.Share(ctx, share); err != nil {
		return nil, err
	}
	share.User = target
	return share, nil
}

// Unshare revokes a share (admin only)
func (s *ProjectService) Unshare(ctx context.Context, user *entities.User, id, targetUserID uuid.UUID) error {
	if user == nil {
		return usecaseErrors.ErrUnauthorized
	}
	if !user.IsAdmin() {
		return usecaseErrors.ErrAdminOnly
	}
	if _, err := s.projectRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.shareRepo.Unshare(ctx, id, targetUserID)
}

// ListShares lists the users a project is shared with
func (s *ProjectService) ListShares(ctx context.Context, user *entities.User, id uuid.UUID) ([]*entities.ProjectShare, error) {
	if _, err := s.writable(ctx, user, id); err != nil {
		return nil, err
	}
	return s.shareRepo.ListShares(ctx, id)
}

// Export returns the persisted document JSON
func (s *ProjectService) Export(ctx context.Context, user *entities.User, id uuid.UUID) ([]byte, error) {
	record, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	project, err := record.ToProject()
	if err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}
	return json.MarshalIndent(project, "", "  ")
}

// SourceURL returns a temporary download URL for the imported markdown
func (s *ProjectService) SourceURL(ctx context.Context, user *entities.User, id uuid.UUID) (string, error) {
	if s.objects == nil {
		return "", usecaseErrors.ErrStorageDisabled
	}
	record, err := s.Get(ctx, user, id)
	if err != nil {
		return "", err
	}
	if record.SourceObject == nil {
		return "", usecaseErrors.ErrNoSourceObject
	}
	return s.objects.URL(ctx, *record.SourceObject, SourceURLExpiry)
}

// LoadLocal reads a bundled fallback project
func (s *ProjectService) LoadLocal(name string) (*entities.Project, error) {
	return s.local.Load(name)
}

// Resolve loads a project from any source for rehearsal
func (s *ProjectService) Resolve(ctx context.Context, user *entities.User, source entities.ProjectSource, id string) (*entities.Project, error) {
	if !source.IsValid() {
		return nil, usecaseErrors.ErrInvalidSource
	}
	if source == entities.SourceLocal {
		return s.LoadLocal(id)
	}

	projectID, err := uuid.Parse(id)
	if err != nil {
		return nil, &entities.ValidationError{Field: "id", Reason: "must be a UUID"}
	}
	record, err := s.Get(ctx, user, projectID)
	if err != nil {
		if errors.Is(err, usecaseErrors.ErrProjectAccessDenied) && source == entities.SourceShared {
			return nil, &entities.NotFoundError{Kind: entities.NotFoundProject, Key: id}
		}
		return nil, err
	}
	project, err := record.ToProject()
	if err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}
	return project, nil
}

// SourceKey builds the object key for a project's markdown source
func SourceKey(ownerID, projectID uuid.UUID) string {
	return fmt.Sprintf("scripts/%s/%s.md", ownerID, projectID)
}

package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	"github.com/johnquangdev/linerunner/internal/infrastructure/localstore"
)

// Service defines the interface for project use case
type Service interface {
	// List returns project summaries from one source
	List(ctx context.Context, user *entities.User, source entities.ProjectSource) ([]Summary, error)

	// Get returns a stored project the user may read
	Get(ctx context.Context, user *entities.User, id uuid.UUID) (*entities.ProjectRecord, error)

	// Create stores a structured project owned by the user
	Create(ctx context.Context, user *entities.User, project entities.Project) (*entities.ProjectRecord, error)

	// CreateFromDocument validates a JSON document against the schema and stores it
	CreateFromDocument(ctx context.Context, user *entities.User, data []byte) (*entities.ProjectRecord, error)

	// ImportMarkdown parses a markdown script and stores the resulting project
	ImportMarkdown(ctx context.Context, user *entities.User, input ImportInput) (*entities.ProjectRecord, error)

	// Replace overwrites a project body with a JSON document
	Replace(ctx context.Context, user *entities.User, id uuid.UUID, data []byte) (*entities.ProjectRecord, error)

	// Delete removes a project and its stored source
	Delete(ctx context.Context, user *entities.User, id uuid.UUID) error

	// UpsertScene adds or replaces a scene by title
	UpsertScene(ctx context.Context, user *entities.User, id uuid.UUID, scene entities.Scene) (*entities.ProjectRecord, error)

	// UpdateLine replaces or appends one line of a scene
	UpdateLine(ctx context.Context, user *entities.User, id uuid.UUID, sceneTitle string, index int, line entities.Line) (*entities.ProjectRecord, error)

	// SetVisibility toggles a project between private and public
	SetVisibility(ctx context.Context, user *entities.User, id uuid.UUID, visibility entities.Visibility) (*entities.ProjectRecord, error)

	// Share grants another user read access (admin only)
	Share(ctx context.Context, user *entities.User, id, targetUserID uuid.UUID) (*entities.ProjectShare, error)

	// Unshare revokes a share (admin only)
	Unshare(ctx context.Context, user *entities.User, id, targetUserID uuid.UUID) error

	// ListShares lists the users a project is shared with
	ListShares(ctx context.Context, user *entities.User, id uuid.UUID) ([]*entities.ProjectShare, error)

	// Export returns the persisted document JSON
	Export(ctx context.Context, user *entities.User, id uuid.UUID) ([]byte, error)

	// SourceURL returns a temporary download URL for the imported markdown
	SourceURL(ctx context.Context, user *entities.User, id uuid.UUID) (string, error)

	// LoadLocal reads a bundled fallback project
	LoadLocal(name string) (*entities.Project, error)

	// Resolve loads a project from any source for rehearsal
	Resolve(ctx context.Context, user *entities.User, source entities.ProjectSource, id string) (*entities.Project, error)
}

// ScriptParser turns markdown into projects
type ScriptParser interface {
	Parse(source []byte) ([]entities.Project, error)
}

// LocalProjects is the bundled fallback store
type LocalProjects interface {
	List() ([]localstore.Entry, error)
	Load(name string) (*entities.Project, error)
}

// ObjectStore keeps imported markdown sources
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// DocumentValidator checks structured uploads
type DocumentValidator interface {
	Validate(data []byte) error
}

// ImportInput represents a markdown upload
type ImportInput struct {
	Source   []byte
	Filename string
}

// Summary is one row of a project listing
type Summary struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"project"`
	Source     entities.ProjectSource `json:"source"`
	Visibility entities.Visibility    `json:"visibility,omitempty"`
	OwnerID    *uuid.UUID             `json:"owner_id,omitempty"`
	SceneCount int                    `json:"scene_count"`
	Characters []string               `json:"characters"`
	UpdatedAt  *time.Time             `json:"updated_at,omitempty"`
}

var _ Service = (*ProjectService)(nil)

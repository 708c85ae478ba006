package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

// ProjectRepository defines the interface for stored project documents
type ProjectRepository interface {
	// Create stores a new project document
	Create(ctx context.Context, record *entities.ProjectRecord) error

	// FindByID finds a project document by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ProjectRecord, error)

	// Update overwrites a project document (last write wins)
	Update(ctx context.Context, record *entities.ProjectRecord) error

	// Delete removes a project document and its shares
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByOwner lists every project the user owns
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.ProjectRecord, error)

	// ListPublic lists every public project
	ListPublic(ctx context.Context) ([]*entities.ProjectRecord, error)

	// ListSharedWith lists projects shared with the user
	ListSharedWith(ctx context.Context, userID uuid.UUID) ([]*entities.ProjectRecord, error)
}

// ShareRepository defines the interface for admin project shares
type ShareRepository interface {
	// Share grants a user access to a project, idempotently
	Share(ctx context.Context, share *entities.ProjectShare) error

	// Unshare removes a share
	Unshare(ctx context.Context, projectID, userID uuid.UUID) error

	// ListShares lists users a project is shared with
	ListShares(ctx context.Context, projectID uuid.UUID) ([]*entities.ProjectShare, error)

	// IsSharedWith reports whether the project is shared with the user
	IsSharedWith(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}

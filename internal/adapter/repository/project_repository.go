package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	"github.com/johnquangdev/linerunner/internal/domain/repositories"
)

var (
	_ repositories.ProjectRepository = (*ProjectRepository)(nil)
	_ repositories.ShareRepository   = (*ProjectRepository)(nil)
)

// ProjectRepository stores project documents in PostgreSQL JSONB columns
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{
		db: db,
	}
}

// Create creates a new project document
func (r *ProjectRepository) Create(ctx context.Context, record *entities.ProjectRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// FindByID finds a project document by ID
func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ProjectRecord, error) {
	var record entities.ProjectRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &entities.NotFoundError{Kind: entities.NotFoundProject, Key: id.String()}
		}
		return nil, fmt.Errorf("failed to find project by ID: %w", err)
	}
	return &record, nil
}

// Update overwrites a project document
func (r *ProjectRepository) Update(ctx context.Context, record *entities.ProjectRecord) error {
	result := r.db.WithContext(ctx).
		Model(&entities.ProjectRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"name":          record.Name,
			"visibility":    record.Visibility,
			"scenes":        record.Scenes,
			"characters":    record.Characters,
			"source_object": record.SourceObject,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &entities.NotFoundError{Kind: entities.NotFoundProject, Key: record.ID.String()}
	}
	return nil
}

// Delete removes a project document and its shares
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&entities.ProjectShare{}).Error; err != nil {
			return fmt.Errorf("failed to delete project shares: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&entities.ProjectRecord{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return &entities.NotFoundError{Kind: entities.NotFoundProject, Key: id.String()}
		}
		return nil
	})
}

// ListByOwner lists projects owned by the user
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.ProjectRecord, error) {
	var records []*entities.ProjectRecord
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects by owner: %w", err)
	}
	return records, nil
}

// ListPublic lists public projects
func (r *ProjectRepository) ListPublic(ctx context.Context) ([]*entities.ProjectRecord, error) {
	var records []*entities.ProjectRecord
	if err := r.db.WithContext(ctx).
		Where("visibility = ?", entities.VisibilityPublic).
		Order("updated_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list public projects: %w", err)
	}
	return records, nil
}

// ListSharedWith lists projects shared with the user
func (r *ProjectRepository) ListSharedWith(ctx context.Context, userID uuid.UUID) ([]*entities.ProjectRecord, error) {
	var records []*entities.ProjectRecord
	if err := r.db.WithContext(ctx).
		Joins("JOIN project_shares ON project_shares.project_id = projects.id").
		Where("project_shares.user_id = ?", userID).
		Order("projects.updated_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list shared projects: %w", err)
	}
	return records, nil
}

// Share grants a user access to a project
func (r *ProjectRepository) Share(ctx context.Context, share *entities.ProjectShare) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(share).Error; err != nil {
		return fmt.Errorf("failed to share project: %w", err)
	}
	return nil
}

// Unshare removes a share
func (r *ProjectRepository) Unshare(ctx context.Context, projectID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&entities.ProjectShare{})
	if result.Error != nil {
		return fmt.Errorf("failed to unshare project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &entities.NotFoundError{Kind: entities.NotFoundShare, Key: projectID.String() + "/" + userID.String()}
	}
	return nil
}

// ListShares lists users a project is shared with
func (r *ProjectRepository) ListShares(ctx context.Context, projectID uuid.UUID) ([]*entities.ProjectShare, error) {
	var shares []*entities.ProjectShare
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&shares).Error; err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	return shares, nil
}

// IsSharedWith reports whether the project is shared with the user
func (r *ProjectRepository) IsSharedWith(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ProjectShare{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check share: %w", err)
	}
	return count > 0, nil
}

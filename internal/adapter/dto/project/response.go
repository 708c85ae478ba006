package project

import (
	"time"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	projectUsecase "github.com/johnquangdev/linerunner/internal/usecase/project"
)

// ProjectResponse represents a stored project with its document body
type ProjectResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"project"`
	Visibility string           `json:"visibility"`
	OwnerID    string           `json:"owner_id"`
	HasSource  bool             `json:"has_source"`
	Scenes     []entities.Scene `json:"scenes"`
	Characters []string         `json:"characters"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// LocalProjectResponse represents a bundled fallback project
type LocalProjectResponse struct {
	Name       string           `json:"name"`
	Project    string           `json:"project"`
	Scenes     []entities.Scene `json:"scenes"`
	Characters []string         `json:"characters"`
}

// ListProjectsResponse represents a project listing for one source
type ListProjectsResponse struct {
	Source   string                   `json:"source"`
	Projects []projectUsecase.Summary `json:"projects"`
}

// ShareResponse represents a granted share
type ShareResponse struct {
	ProjectID string               `json:"project_id"`
	User      *entities.PublicUser `json:"user,omitempty"`
	UserID    string               `json:"user_id"`
	GrantedBy string               `json:"granted_by"`
	CreatedAt time.Time            `json:"created_at"`
}

// SourceURLResponse carries a temporary download URL
type SourceURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

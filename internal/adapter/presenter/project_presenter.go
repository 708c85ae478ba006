package presenter

import (
	projectDTO "github.com/johnquangdev/linerunner/internal/adapter/dto/project"
	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

// ToProjectResponse converts a stored project to ProjectResponse DTO
func ToProjectResponse(r *entities.ProjectRecord) (*projectDTO.ProjectResponse, error) {
	if r == nil {
		return nil, nil
	}
	project, err := r.ToProject()
	if err != nil {
		return nil, err
	}

	return &projectDTO.ProjectResponse{
		ID:         r.ID.String(),
		Name:       r.Name,
		Visibility: string(r.Visibility),
		OwnerID:    r.OwnerID.String(),
		HasSource:  r.SourceObject != nil,
		Scenes:     project.Scenes,
		Characters: project.Characters,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

// ToLocalProjectResponse converts a bundled project to LocalProjectResponse DTO
func ToLocalProjectResponse(name string, p *entities.Project) *projectDTO.LocalProjectResponse {
	if p == nil {
		return nil
	}
	return &projectDTO.LocalProjectResponse{
		Name:       name,
		Project:    p.Name,
		Scenes:     p.Scenes,
		Characters: p.Characters,
	}
}

// ToShareResponse converts a ProjectShare entity to ShareResponse DTO
func ToShareResponse(s *entities.ProjectShare) *projectDTO.ShareResponse {
	if s == nil {
		return nil
	}
	response := &projectDTO.ShareResponse{
		ProjectID: s.ProjectID.String(),
		UserID:    s.UserID.String(),
		GrantedBy: s.GrantedBy.String(),
		CreatedAt: s.CreatedAt,
	}
	if s.User != nil {
		response.User = s.User.ToPublic()
	}
	return response
}

// ToShareResponses converts a list of shares
func ToShareResponses(shares []*entities.ProjectShare) []*projectDTO.ShareResponse {
	out := make([]*projectDTO.ShareResponse, 0, len(shares))
	for _, s := range shares {
		out = append(out, ToShareResponse(s))
	}
	return out
}

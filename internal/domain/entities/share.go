package entities

import (
	"time"

	"github.com/google/uuid"
)

// ProjectShare grants a user read access to an admin's project
type ProjectShare struct {
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey;index"`
	GrantedBy uuid.UUID `json:"granted_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name
func (ProjectShare) TableName() string {
	return "project_shares"
}

// NewProjectShare creates a share entry
func NewProjectShare(projectID, userID, grantedBy uuid.UUID) *ProjectShare {
	return &ProjectShare{
		ProjectID: projectID,
		UserID:    userID,
		GrantedBy: grantedBy,
		CreatedAt: time.Now(),
	}
}

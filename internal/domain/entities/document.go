package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Visibility controls whether a project appears in the public source.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// IsValid checks if the visibility is valid
func (v Visibility) IsValid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// ProjectSource names the backing store a project is resolved from.
type ProjectSource string

const (
	SourceUser   ProjectSource = "user"
	SourcePublic ProjectSource = "public"
	SourceShared ProjectSource = "shared"
	SourceLocal  ProjectSource = "local"
)

// IsValid checks if the source is valid
func (s ProjectSource) IsValid() bool {
	switch s {
	case SourceUser, SourcePublic, SourceShared, SourceLocal:
		return true
	}
	return false
}

// ProjectRecord is the stored project document
type ProjectRecord struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID    uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index"`
	Visibility Visibility `json:"visibility" gorm:"type:varchar(20);default:'private';not null;index"`
	Name       string     `json:"project" gorm:"column:name;type:varchar(255);not null"`

	// Document body (stored as JSONB in PostgreSQL)
	Scenes     datatypes.JSON `json:"scenes" gorm:"type:jsonb;not null;default:'[]'"`
	Characters datatypes.JSON `json:"characters" gorm:"type:jsonb;not null;default:'[]'"`

	// Object-store key of the markdown the project was imported from
	SourceObject *string `json:"source_object,omitempty" gorm:"type:varchar(500)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

// TableName specifies the table name
func (ProjectRecord) TableName() string {
	return "projects"
}

// NewProjectRecord stores a project for owner as a private document.
func NewProjectRecord(ownerID uuid.UUID, project Project) (*ProjectRecord, error) {
	record := &ProjectRecord{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Visibility: VisibilityPrivate,
	}
	if err := record.SetProject(project); err != nil {
		return nil, err
	}
	return record, nil
}

// SetProject replaces the document body, recomputing characters.
func (r *ProjectRecord) SetProject(project Project) error {
	project.RecomputeCharacters()

	scenes := project.Scenes
	if scenes == nil {
		scenes = []Scene{}
	}
	scenesJSON, err := json.Marshal(scenes)
	if err != nil {
		return err
	}
	charactersJSON, err := json.Marshal(project.Characters)
	if err != nil {
		return err
	}

	r.Name = project.Name
	r.Scenes = scenesJSON
	r.Characters = charactersJSON
	return nil
}

// ToProject decodes the document body into the canonical project shape.
func (r *ProjectRecord) ToProject() (*Project, error) {
	project := &Project{Name: r.Name, Scenes: []Scene{}}
	if len(r.Scenes) > 0 {
		if err := json.Unmarshal(r.Scenes, &project.Scenes); err != nil {
			return nil, err
		}
	}
	project.RecomputeCharacters()
	return project, nil
}

// CanRead reports whether user may read the project given its share state.
func (r *ProjectRecord) CanRead(user *User, shared bool) bool {
	if r.Visibility == VisibilityPublic {
		return true
	}
	if user == nil {
		return false
	}
	return r.OwnerID == user.ID || user.IsAdmin() || shared
}

// CanWrite reports whether user may modify the project.
func (r *ProjectRecord) CanWrite(user *User) bool {
	if user == nil {
		return false
	}
	return r.OwnerID == user.ID || user.IsAdmin()
}

package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is an actor or admin who rehearses and owns projects
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email    string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name     string    `json:"name" gorm:"type:varchar(255);not null"`
	Role     UserRole  `json:"role" gorm:"type:varchar(50);default:'actor';not null"`
	IsActive bool      `json:"is_active" gorm:"default:true;not null"`

	// OAuth fields
	OAuthProvider *string `json:"oauth_provider,omitempty" gorm:"column:oauth_provider;type:varchar(50);index:idx_oauth"`
	OAuthID       *string `json:"oauth_id,omitempty" gorm:"column:oauth_id;type:varchar(255);index:idx_oauth"`

	AvatarURL   *string    `json:"avatar_url,omitempty" gorm:"type:varchar(500)"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" gorm:"type:timestamp"`

	// Rehearsal display preferences (stored as JSONB in PostgreSQL)
	DisplayPreferences datatypes.JSON `json:"display_preferences" gorm:"type:jsonb;default:'{}'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UserRole defines user roles
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleActor UserRole = "actor"
)

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleActor:
		return true
	}
	return false
}

// DisplayPreferences controls how a rehearsal renders lines.
type DisplayPreferences struct {
	HideOwnLines   bool `json:"hide_own_lines"`
	ShowSungMarker bool `json:"show_sung_marker"`
	WordByWord     bool `json:"word_by_word"`
}

// DefaultDisplayPreferences returns the preferences new users start with
func DefaultDisplayPreferences() DisplayPreferences {
	return DisplayPreferences{
		HideOwnLines:   true,
		ShowSungMarker: true,
		WordByWord:     false,
	}
}

// NewUser creates a new user with default values
func NewUser(email, name string) *User {
	now := time.Now()
	prefs, _ := json.Marshal(DefaultDisplayPreferences())

	return &User{
		ID:                 uuid.New(),
		Email:              email,
		Name:               name,
		Role:               RoleActor,
		IsActive:           true,
		DisplayPreferences: prefs,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// NewOAuthUser creates a new user from OAuth provider
func NewOAuthUser(email, name, provider, oauthID string) *User {
	user := NewUser(email, name)
	user.OAuthProvider = &provider
	user.OAuthID = &oauthID
	return user
}

// UpdateLastLogin updates the last login timestamp
func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// IsAdmin checks if user is admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Preferences decodes the stored display preferences, falling back to defaults.
func (u *User) Preferences() DisplayPreferences {
	prefs := DefaultDisplayPreferences()
	if len(u.DisplayPreferences) == 0 {
		return prefs
	}
	if err := json.Unmarshal(u.DisplayPreferences, &prefs); err != nil {
		return DefaultDisplayPreferences()
	}
	return prefs
}

// Validate validates user data
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if u.Name == "" {
		return ErrInvalidName
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}

// PublicUser returns a user with sensitive fields removed
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPublic converts User to PublicUser
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

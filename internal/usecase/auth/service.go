package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	"github.com/johnquangdev/linerunner/internal/infrastructure/external/oauth"
)

// Service defines the interface for the authentication use case
type Service interface {
	// LoginURL returns the provider consent URL with a fresh state token
	LoginURL(ctx context.Context) (*LoginURLResponse, error)

	// HandleCallback completes an OAuth login and opens a session
	HandleCallback(ctx context.Context, req CallbackRequest) (*AuthResponse, error)

	// Refresh issues a new access token for a valid refresh token
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)

	// Logout revokes the session holding refreshToken
	Logout(ctx context.Context, refreshToken string) error

	// LogoutAll revokes every session of a user
	LogoutAll(ctx context.Context, userID uuid.UUID) error

	// ValidateSession resolves the user behind an access token
	ValidateSession(ctx context.Context, accessToken string) (*entities.User, error)

	// UpdatePreferences stores the user's rehearsal display preferences
	UpdatePreferences(ctx context.Context, user *entities.User, prefs entities.DisplayPreferences) (*entities.User, error)
}

// IdentityProvider authenticates users with an external OAuth provider
type IdentityProvider interface {
	Name() string
	AuthURL(state string) string
	Identify(ctx context.Context, code string) (*oauth.UserInfo, error)
}

// StateStore issues and consumes OAuth state tokens
type StateStore interface {
	GenerateState(ctx context.Context) (string, error)
	ValidateState(ctx context.Context, state string) (bool, error)
}

var (
	_ Service          = (*OAuthService)(nil)
	_ IdentityProvider = (*oauth.GoogleProvider)(nil)
	_ StateStore       = (*oauth.StateManager)(nil)
)

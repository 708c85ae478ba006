package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	"github.com/johnquangdev/linerunner/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/linerunner/internal/usecase/errors"
	"github.com/johnquangdev/linerunner/pkg/jwt"
)

// OAuthService handles OAuth authentication and refresh sessions
type OAuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	provider    IdentityProvider
	states      StateStore
	jwtManager  *jwt.Manager
	adminEmails map[string]struct{}
}

// NewOAuthService creates a new OAuth service. Users signing in with one of
// adminEmails are granted the admin role.
func NewOAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	provider IdentityProvider,
	states StateStore,
	jwtManager *jwt.Manager,
	adminEmails []string,
) *OAuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &OAuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		provider:    provider,
		states:      states,
		jwtManager:  jwtManager,
		adminEmails: admins,
	}
}

// LoginURLResponse represents the response for auth URL request
type LoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// CallbackRequest carries the provider callback parameters
type CallbackRequest struct {
	Code      string
	State     string
	IPAddress string
	UserAgent string
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User         *entities.User `json:"user"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	ExpiresIn    int64          `json:"expires_in"`
	SessionID    string         `json:"session_id,omitempty"`
}

// LoginURL generates the provider OAuth URL
func (s *OAuthService) LoginURL(ctx context.Context) (*LoginURLResponse, error) {
	state, err := s.states.GenerateState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	return &LoginURLResponse{
		URL:   s.provider.AuthURL(state),
		State: state,
	}, nil
}

// HandleCallback handles the OAuth callback from the provider
func (s *OAuthService) HandleCallback(ctx context.Context, req CallbackRequest) (*AuthResponse, error) {
	ok, err := s.states.ValidateState(ctx, req.State)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, entities.ErrOAuthStateMismatch
	}

	info, err := s.provider.Identify(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to identify user: %w", err)
	}

	user, err := s.findOrCreateUser(ctx, info.ID, info.Email, info.Name, info.Picture)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, usecaseErrors.ErrUserNotActive
	}

	return s.openSession(ctx, user, req.IPAddress, req.UserAgent)
}

func (s *OAuthService) findOrCreateUser(ctx context.Context, oauthID, email, name, picture string) (*entities.User, error) {
	provider := s.provider.Name()

	user, err := s.userRepo.FindByOAuth(ctx, provider, oauthID)
	switch {
	case err == nil:
		user.UpdateLastLogin()
		if picture != "" {
			user.AvatarURL = &picture
		}
		s.applyAdmin(user)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return user, nil
	case !errors.Is(err, entities.ErrUserNotFound):
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Link an existing account with the same email
	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		existing.OAuthProvider = &provider
		existing.OAuthID = &oauthID
		if picture != "" {
			existing.AvatarURL = &picture
		}
		existing.UpdateLastLogin()
		s.applyAdmin(existing)
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to link accounts: %w", err)
		}
		return existing, nil
	case !errors.Is(err, entities.ErrUserNotFound):
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	user = entities.NewOAuthUser(email, name, provider, oauthID)
	if picture != "" {
		user.AvatarURL = &picture
	}
	user.UpdateLastLogin()
	s.applyAdmin(user)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *OAuthService) applyAdmin(user *entities.User) {
	if _, ok := s.adminEmails[strings.ToLower(user.Email)]; ok {
		user.Role = entities.RoleAdmin
	}
}

func (s *OAuthService) openSession(ctx context.Context, user *entities.User, ip, userAgent string) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	hash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}

	session := entities.NewSession(user.ID, hash, time.Now().Add(s.jwtManager.GetRefreshExpiry()))
	if ip != "" || userAgent != "" {
		session.WithDeviceInfo(ip, userAgent)
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
		SessionID:    session.ID.String(),
	}, nil
}

// Refresh refreshes the access token using a refresh token
func (s *OAuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrTokenInvalid, err)
	}

	session, err := s.findSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, usecaseErrors.ErrTokenInvalid
	}
	if !session.IsValid() {
		return nil, usecaseErrors.ErrSessionExpired
	}

	// Non-fatal
	_ = s.sessionRepo.UpdateLastUsed(ctx, session.ID)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, usecaseErrors.ErrUserNotActive
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtManager.GetAccessExpiry().Seconds()),
		SessionID:   session.ID.String(),
	}, nil
}

// Logout revokes the session holding refreshToken
func (s *OAuthService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.findSession(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.sessionRepo.Revoke(ctx, session.ID)
}

// LogoutAll revokes all sessions for a user
func (s *OAuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.RevokeAllByUserID(ctx, userID)
}

// ValidateSession validates an access token and loads its user
func (s *OAuthService) ValidateSession(ctx context.Context, accessToken string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, usecaseErrors.ErrTokenExpired
		}
		return nil, usecaseErrors.ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, usecaseErrors.ErrUserNotActive
	}
	return user, nil
}

// UpdatePreferences stores the user's rehearsal display preferences
func (s *OAuthService) UpdatePreferences(ctx context.Context, user *entities.User, prefs entities.DisplayPreferences) (*entities.User, error) {
	if user == nil {
		return nil, usecaseErrors.ErrUnauthorized
	}
	encoded, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}
	user.DisplayPreferences = encoded
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return user, nil
}

func (s *OAuthService) findSession(ctx context.Context, refreshToken string) (*entities.Session, error) {
	hash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, usecaseErrors.ErrTokenInvalid
	}
	session, err := s.sessionRepo.FindByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			return nil, usecaseErrors.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

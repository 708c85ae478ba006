package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, session *entities.Session) error

	// FindByTokenHash finds an unrevoked session by token hash
	FindByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error)

	// UpdateLastUsed updates the last used timestamp
	UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error

	// Revoke revokes a session
	Revoke(ctx context.Context, sessionID uuid.UUID) error

	// RevokeAllByUserID revokes all sessions for a user
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error

	// CleanupOldSessions removes old revoked or expired sessions
	CleanupOldSessions(ctx context.Context, before time.Time) error
}

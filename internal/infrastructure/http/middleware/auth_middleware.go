package middleware

import (
	"context"
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/linerunner/errors"
	"github.com/johnquangdev/linerunner/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/linerunner/internal/usecase/errors"
)

const (
	// AccessTokenCookie is the cookie set by the OAuth callback
	AccessTokenCookie = "access_token"
	// AccessTokenQuery carries the token for websocket upgrades, where browsers cannot set headers
	AccessTokenQuery = "access_token"
)

// SessionValidator resolves the user behind an access token
type SessionValidator interface {
	ValidateSession(ctx context.Context, accessToken string) (*entities.User, error)
}

// EchoAuth returns an Echo middleware that validates the access token and sets
// "user_id" (uuid.UUID) and "user" (*entities.User) into the Echo context
func EchoAuth(validator SessionValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return reject(c, errors.ErrUnauthenticated())
			}

			user, err := validator.ValidateSession(c.Request().Context(), token)
			if err != nil {
				return reject(c, tokenError(err))
			}

			setUser(c, user)
			return next(c)
		}
	}
}

// EchoOptionalAuth validates the token when one is present but lets anonymous
// requests through. An invalid token is rejected rather than ignored.
func EchoOptionalAuth(validator SessionValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return next(c)
			}

			user, err := validator.ValidateSession(c.Request().Context(), token)
			if err != nil {
				return reject(c, tokenError(err))
			}

			setUser(c, user)
			return next(c)
		}
	}
}

// ExtractToken reads the access token from the Authorization header, the
// access_token cookie or the access_token query parameter, in that order
func ExtractToken(c echo.Context) string {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return c.QueryParam(AccessTokenQuery)
}

// GetUser retrieves the authenticated user from the Echo context
func GetUser(c echo.Context) (*entities.User, bool) {
	user, ok := c.Get("user").(*entities.User)
	return user, ok && user != nil
}

func setUser(c echo.Context, user *entities.User) {
	c.Set("user", user)
	c.Set("user_id", user.ID)
}

func tokenError(err error) errors.AppError {
	switch {
	case stdErrors.Is(err, usecaseErrors.ErrTokenExpired):
		return errors.ErrTokenExpired()
	case stdErrors.Is(err, usecaseErrors.ErrUserNotActive):
		return errors.ErrForbidden("user is not active")
	}
	return errors.ErrInvalidToken()
}

// reject writes the API error envelope and stops the chain
func reject(c echo.Context, appErr errors.AppError) error {
	status := appErr.HTTPCode
	if status == 0 {
		status = http.StatusUnauthorized
	}
	return c.JSON(status, map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

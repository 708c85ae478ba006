package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/linerunner/errors"
	authDTO "github.com/johnquangdev/linerunner/internal/adapter/dto/auth"
	"github.com/johnquangdev/linerunner/internal/adapter/dto/common"
	"github.com/johnquangdev/linerunner/internal/adapter/presenter"
	"github.com/johnquangdev/linerunner/internal/usecase/auth"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// Auth handles authentication HTTP requests
type Auth struct {
	authService   auth.Service
	logger        *zap.Logger
	frontendURL   string
	secureCookies bool
}

// NewAuth creates a new auth handler. When frontendURL is set the OAuth
// callback redirects there after setting the session cookies.
func NewAuth(authService auth.Service, logger *zap.Logger, frontendURL string, secureCookies bool) *Auth {
	return &Auth{
		authService:   authService,
		logger:        logger,
		frontendURL:   frontendURL,
		secureCookies: secureCookies,
	}
}

// GoogleLogin handles GET /auth/google/login
// @Summary      Start Google login
// @Description  Redirects to the Google consent page. Send Accept: application/json to receive the URL instead.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  common.SuccessResponse{data=authDTO.LoginURLResponse}
// @Success      307  "Redirect to Google"
// @Failure      500  {object}  common.ErrorResponse
// @Router       /auth/google/login [get]
func (h *Auth) GoogleLogin(c echo.Context) error {
	login, err := h.authService.LoginURL(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if c.Request().Header.Get(echo.HeaderAccept) == echo.MIMEApplicationJSON {
		return HandleSuccess(h.logger, c, &authDTO.LoginURLResponse{URL: login.URL, State: login.State})
	}
	return c.Redirect(http.StatusTemporaryRedirect, login.URL)
}

// GoogleCallback handles GET /auth/google/callback
// @Summary      Complete Google login
// @Description  Exchanges the authorization code, opens a session and returns tokens
// @Tags         Auth
// @Produce      json
// @Param        code   query     string  true  "Authorization code"
// @Param        state  query     string  true  "OAuth state"
// @Success      200    {object}  common.SuccessResponse{data=authDTO.AuthResponse}
// @Failure      400    {object}  common.ErrorResponse
// @Failure      401    {object}  common.ErrorResponse
// @Router       /auth/google/callback [get]
func (h *Auth) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("missing code or state parameter"))
	}

	resp, err := h.authService.HandleCallback(c.Request().Context(), auth.CallbackRequest{
		Code:      code,
		State:     state,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		appErr := toAppError(c, err)
		if appErr.HTTPCode == http.StatusInternalServerError {
			appErr = errors.ErrOAuthFailed("google", err)
		}
		return HandleError(h.logger, c, appErr)
	}

	h.setCookie(c, accessTokenCookie, resp.AccessToken, time.Duration(resp.ExpiresIn)*time.Second)
	h.setCookie(c, refreshTokenCookie, resp.RefreshToken, 0)

	if h.frontendURL != "" {
		return c.Redirect(http.StatusFound, h.frontendURL)
	}
	return HandleSuccess(h.logger, c, presenter.ToAuthResponse(resp))
}

// RefreshToken handles POST /auth/refresh
// @Summary      Refresh access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.RefreshTokenRequest  false  "Refresh token (falls back to the refresh_token cookie)"
// @Success      200      {object}  common.SuccessResponse{data=authDTO.RefreshTokenResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      401      {object}  common.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Auth) RefreshToken(c echo.Context) error {
	var req authDTO.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload(err))
	}
	if req.RefreshToken == "" {
		req.RefreshToken = cookieValue(c, refreshTokenCookie)
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("missing refresh token"))
	}

	resp, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	h.setCookie(c, accessTokenCookie, resp.AccessToken, time.Duration(resp.ExpiresIn)*time.Second)
	return HandleSuccess(h.logger, c, presenter.ToAuthRefreshTokenResponse(resp))
}

// Logout handles POST /auth/logout
// @Summary      Log out the current session
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.LogoutRequest  false  "Refresh token (falls back to the refresh_token cookie)"
// @Success      200      {object}  common.SuccessResponse{data=common.MessageResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      401      {object}  common.ErrorResponse
// @Router       /auth/logout [post]
func (h *Auth) Logout(c echo.Context) error {
	var req authDTO.LogoutRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload(err))
	}
	if req.RefreshToken == "" {
		req.RefreshToken = cookieValue(c, refreshTokenCookie)
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("missing refresh token"))
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return HandleError(h.logger, c, err)
	}

	h.clearCookie(c, accessTokenCookie)
	h.clearCookie(c, refreshTokenCookie)
	return HandleSuccess(h.logger, c, common.MessageResponse{Message: "Logged out successfully"})
}

// LogoutAll handles POST /auth/logout-all
// @Summary      Log out every session of the current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=common.MessageResponse}
// @Failure      401  {object}  common.ErrorResponse
// @Router       /auth/logout-all [post]
func (h *Auth) LogoutAll(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	if err := h.authService.LogoutAll(c.Request().Context(), user.ID); err != nil {
		return HandleError(h.logger, c, err)
	}

	h.clearCookie(c, accessTokenCookie)
	h.clearCookie(c, refreshTokenCookie)
	return HandleSuccess(h.logger, c, common.MessageResponse{Message: "Logged out of all sessions"})
}

// Me handles GET /auth/me
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=authDTO.UserResponse}
// @Failure      401  {object}  common.ErrorResponse
// @Router       /auth/me [get]
func (h *Auth) Me(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	return HandleSuccess(h.logger, c, presenter.ToUserResponse(user))
}

// UpdatePreferences handles PUT /auth/me/preferences
// @Summary      Update rehearsal display preferences
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      authDTO.UpdatePreferencesRequest  true  "Preferences to change"
// @Success      200      {object}  common.SuccessResponse{data=authDTO.UserResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      401      {object}  common.ErrorResponse
// @Router       /auth/me/preferences [put]
func (h *Auth) UpdatePreferences(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req authDTO.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload(err))
	}

	prefs := user.Preferences()
	if req.HideOwnLines != nil {
		prefs.HideOwnLines = *req.HideOwnLines
	}
	if req.ShowSungMarker != nil {
		prefs.ShowSungMarker = *req.ShowSungMarker
	}
	if req.WordByWord != nil {
		prefs.WordByWord = *req.WordByWord
	}

	updated, err := h.authService.UpdatePreferences(c.Request().Context(), user, prefs)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToUserResponse(updated))
}

// setCookie sets an HTTP-only cookie. A zero maxAge makes it a session cookie.
func (h *Auth) setCookie(c echo.Context, name, value string, maxAge time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Auth) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
	})
}

func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

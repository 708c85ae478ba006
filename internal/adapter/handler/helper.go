package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/linerunner/errors"
	"github.com/johnquangdev/linerunner/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/linerunner/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// currentUser returns the user set by the auth middleware, or nil
func currentUser(c echo.Context) *entities.User {
	user, _ := c.Get("user").(*entities.User)
	return user
}

func pathParam(c echo.Context, name string) string {
	if c == nil {
		return ""
	}
	return c.Param(name)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusOK, data)
}

// HandleCreated writes a standardized 201 response
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusCreated, data)
}

func respond(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(c, err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.String("app_code", appErr.Code.String()),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError maps domain and use case errors onto the API error envelope
func toAppError(c echo.Context, err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var validationErr *entities.ValidationError
	if stdErrors.As(err, &validationErr) {
		e := errors.ErrInvalidArgument(validationErr.Error())
		if validationErr.Field != "" {
			e = e.WithDetail("field", validationErr.Field)
		}
		return e
	}

	var notFound *entities.NotFoundError
	if stdErrors.As(err, &notFound) {
		switch notFound.Kind {
		case entities.NotFoundProject:
			return errors.ErrProjectNotFound(notFound.Key)
		case entities.NotFoundScene:
			return errors.ErrSceneNotFound(notFound.Key)
		case entities.NotFoundCharacter:
			return errors.ErrCharacterNotFound(notFound.Key)
		case entities.NotFoundShare:
			return errors.ErrShareNotFound(pathParam(c, "id"), notFound.Key)
		default:
			return errors.ErrNotFound(string(notFound.Kind)).WithDetail(string(notFound.Kind), notFound.Key)
		}
	}

	var parseErr *entities.ParseError
	if stdErrors.As(err, &parseErr) {
		return errors.ErrScriptParseFailed(parseErr.Err)
	}

	switch {
	case stdErrors.Is(err, entities.ErrUserNotFound):
		return errors.ErrUserNotFound()
	case stdErrors.Is(err, usecaseErrors.ErrProjectAccessDenied):
		return errors.ErrProjectAccessDenied(pathParam(c, "id"))
	case stdErrors.Is(err, usecaseErrors.ErrNotProjectOwner):
		return errors.ErrPermissionDenied("only the owner or an admin can modify this project")
	case stdErrors.Is(err, usecaseErrors.ErrAdminOnly):
		return errors.ErrPermissionDenied("only admins can manage shares")
	case stdErrors.Is(err, usecaseErrors.ErrInvalidSource),
		stdErrors.Is(err, usecaseErrors.ErrInvalidVisibility),
		stdErrors.Is(err, usecaseErrors.ErrShareWithSelf),
		stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrStorageDisabled),
		stdErrors.Is(err, usecaseErrors.ErrNoSourceObject):
		return errors.ErrNotFound("script source")
	case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	case stdErrors.Is(err, usecaseErrors.ErrTokenExpired):
		return errors.ErrTokenExpired()
	case stdErrors.Is(err, usecaseErrors.ErrTokenInvalid):
		return errors.ErrInvalidToken()
	case stdErrors.Is(err, usecaseErrors.ErrSessionNotFound),
		stdErrors.Is(err, usecaseErrors.ErrSessionExpired):
		return errors.ErrInvalidRefreshToken(err)
	case stdErrors.Is(err, usecaseErrors.ErrInvalidState):
		return errors.ErrOAuthFailed("google", err)
	case stdErrors.Is(err, usecaseErrors.ErrUserNotActive):
		return errors.ErrForbidden("user is not active")
	}

	return errors.ErrInternal(err)
}

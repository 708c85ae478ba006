package handler

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/linerunner/errors"
	projectDTO "github.com/johnquangdev/linerunner/internal/adapter/dto/project"
	"github.com/johnquangdev/linerunner/internal/adapter/presenter"
	"github.com/johnquangdev/linerunner/internal/domain/entities"
	projectUsecase "github.com/johnquangdev/linerunner/internal/usecase/project"
)

// Project handles project HTTP requests
type Project struct {
	projectService projectUsecase.Service
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService projectUsecase.Service, logger *zap.Logger, maxUploadBytes int64) *Project {
	return &Project{
		projectService: projectService,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListProjects handles GET /projects
// @Summary      List projects
// @Description  Lists project summaries from one source. Defaults to user when signed in, public otherwise.
// @Tags         Projects
// @Produce      json
// @Param        source  query     string  false  "user, public, shared or local"
// @Success      200     {object}  common.SuccessResponse{data=projectDTO.ListProjectsResponse}
// @Failure      400     {object}  common.ErrorResponse
// @Failure      401     {object}  common.ErrorResponse
// @Router       /projects [get]
func (h *Project) ListProjects(c echo.Context) error {
	var req projectDTO.ListProjectsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("source must be one of user, public, shared, local"))
	}

	user := currentUser(c)
	source := entities.ProjectSource(req.Source)
	if source == "" {
		source = entities.SourcePublic
		if user != nil {
			source = entities.SourceUser
		}
	}

	summaries, err := h.projectService.List(c.Request().Context(), user, source)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &projectDTO.ListProjectsResponse{
		Source:   string(source),
		Projects: summaries,
	})
}

// CreateProject handles POST /projects
// @Summary      Upload a structured project
// @Description  Stores a project document after validating it against the project schema
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      entities.Project  true  "Project document"
// @Success      201      {object}  common.SuccessResponse{data=projectDTO.ProjectResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      401      {object}  common.ErrorResponse
// @Router       /projects [post]
func (h *Project) CreateProject(c echo.Context) error {
	body, err := h.readBody(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	record, err := h.projectService.CreateFromDocument(c.Request().Context(), currentUser(c), body)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.respondProject(c, http.StatusCreated, record)
}

// ImportProject handles POST /projects/import
// @Summary      Import a markdown script
// @Description  Parses markdown (raw body or multipart field "file") into a project
// @Tags         Projects
// @Accept       text/markdown
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  false  "Markdown script"
// @Success      201   {object}  common.SuccessResponse{data=projectDTO.ProjectResponse}
// @Failure      400   {object}  common.ErrorResponse
// @Failure      422   {object}  common.ErrorResponse
// @Router       /projects/import [post]
func (h *Project) ImportProject(c echo.Context) error {
	var (
		source   []byte
		filename string
		err      error
	)

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		source, filename, err = h.readFormFile(c, "file")
	} else {
		source, err = h.readBody(c)
	}
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	record, err := h.projectService.ImportMarkdown(c.Request().Context(), currentUser(c), projectUsecase.ImportInput{
		Source:   source,
		Filename: filename,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.respondProject(c, http.StatusCreated, record)
}

// GetProject handles GET /projects/:id
// @Summary      Get a project
// @Tags         Projects
// @Produce      json
// @Param        id   path      string  true  "Project ID (UUID)"
// @Success      200  {object}  common.SuccessResponse{data=projectDTO.ProjectResponse}
// @Failure      403  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /projects/{id} [get]
func (h *Project) GetProject(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	record, err := h.projectService.Get(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.respondProject(c, http.StatusOK, record)
}

// ReplaceProject handles PUT /projects/:id
// @Summary      Replace a project document
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string            true  "Project ID (UUID)"
// @Param        request  body      entities.Project  true  "Project document"
// @Success      200      {object}  common.SuccessResponse{data=projectDTO.ProjectResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      403      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Router       /projects/{id} [put]
func (h *Project) ReplaceProject(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	body, err := h.readBody(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	record, err := h.projectService.Replace(c.Request().Context(), currentUser(c), id, body)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.respondProject(c, http.StatusOK, record)
}

// DeleteProject handles DELETE /projects/:id
// @Summary      Delete a project
// @Tags         Projects
// @Security     BearerAuth
// @Param        id   path  string  true  "Project ID (UUID)"
// @Success      204  "Deleted"
// @Failure      403  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /projects/{id} [delete]
func (h *Project) DeleteProject(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.projectService.Delete(c.Request().Context(), currentUser(c), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PutScene handles PUT /projects/:id/scenes/:title
// @Summary      Add or replace a scene
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Project ID (UUID)"
// @Param        title    path      string                   true  "Scene title"
// @Param        request  body      projectDTO.SceneRequest  true  "Scene lines"
// @Success      200      {object}  common.SuccessResponse{data=projectDTO.ProjectResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      403      {object}  common.ErrorResponse
// @Router       /projects/{id}/scenes/{title} [put]
func (h *Project) PutScene(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	title, err := pathValue(c, "title")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req projectDTO.SceneRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	scene := entities.Scene{Title: title, Lines: make([]entities.Line, 0, len(req.Lines))}
	for _, l := range req.Lines {
		scene.Lines = append(scene.Lines, toLine(l))
	}

	record, err := h.projectService.UpsertScene(c.Request().Context(), currentUser(c), id, scene)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.respondProject(c, http.StatusOK, record)
}

// PutLine handles PUT /projects/:id/scenes/:title/lines/:index
// @Summary      Replace or append a line
// @Description  Index equal to the scene's line count appends
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Project ID (UUID)"
// @Param        title    path      string                  true  "Scene title"
// @Param        index    path      int                     true  "Line index"
// @Param        request  body      projectDTO.LineRequest  true  "Line"
// @Success      200      {object}  common.SuccessResponse{data=projectDTO.ProjectResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Router       /projects/{id}/scenes/{title}/lines/{index} [put]
func (h *Project) PutLine(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	title, err := pathValue(c, "title")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("line index must be a non-negative integer"))
	}

	var req projectDTO.LineRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	record, err := h.projectService.UpdateLine(c.Request().Context(), currentUser(c), id, title, index, toLine(req))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.respondProject(c, http.StatusOK, record)
}

// SetVisibility handles PUT /projects/:id/visibility
// @Summary      Make a project public or private
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Project ID (UUID)"
// @Param        request  body      projectDTO.SetVisibilityRequest  true  "Visibility"
// @Success      200      {object}  common.SuccessResponse{data=projectDTO.ProjectResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      403      {object}  common.ErrorResponse
// @Router       /projects/{id}/visibility [put]
func (h *Project) SetVisibility(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req projectDTO.SetVisibilityRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("visibility must be private or public"))
	}

	record, err := h.projectService.SetVisibility(c.Request().Context(), currentUser(c), id, entities.Visibility(req.Visibility))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.respondProject(c, http.StatusOK, record)
}

// ListShares handles GET /projects/:id/shares
// @Summary      List project shares
// @Tags         Shares
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID (UUID)"
// @Success      200  {object}  common.SuccessResponse{data=[]projectDTO.ShareResponse}
// @Failure      403  {object}  common.ErrorResponse
// @Router       /projects/{id}/shares [get]
func (h *Project) ListShares(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	shares, err := h.projectService.ListShares(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToShareResponses(shares))
}

// Share handles POST /projects/:id/shares
// @Summary      Share a project with a user (admin only)
// @Tags         Shares
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Project ID (UUID)"
// @Param        request  body      projectDTO.ShareRequest  true  "User to share with"
// @Success      201      {object}  common.SuccessResponse{data=projectDTO.ShareResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      403      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Router       /projects/{id}/shares [post]
func (h *Project) Share(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req projectDTO.ShareRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("user_id must be a UUID"))
	}

	share, err := h.projectService.Share(c.Request().Context(), currentUser(c), id, uuid.MustParse(req.UserID))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToShareResponse(share))
}

// Unshare handles DELETE /projects/:id/shares/:userID
// @Summary      Revoke a share (admin only)
// @Tags         Shares
// @Security     BearerAuth
// @Param        id      path  string  true  "Project ID (UUID)"
// @Param        userID  path  string  true  "User ID (UUID)"
// @Success      204     "Revoked"
// @Failure      403     {object}  common.ErrorResponse
// @Failure      404     {object}  common.ErrorResponse
// @Router       /projects/{id}/shares/{userID} [delete]
func (h *Project) Unshare(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("user ID must be a valid UUID"))
	}
	if err := h.projectService.Unshare(c.Request().Context(), currentUser(c), id, userID); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Export handles GET /projects/:id/export
// @Summary      Export the project document
// @Description  Returns the persisted document JSON as an attachment
// @Tags         Projects
// @Produce      json
// @Param        id   path      string  true  "Project ID (UUID)"
// @Success      200  {object}  entities.Project
// @Failure      403  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /projects/{id}/export [get]
func (h *Project) Export(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	data, err := h.projectService.Export(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+id.String()+`.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

// SourceURL handles GET /projects/:id/source
// @Summary      Download URL for the imported markdown
// @Tags         Projects
// @Produce      json
// @Param        id   path      string  true  "Project ID (UUID)"
// @Success      200  {object}  common.SuccessResponse{data=projectDTO.SourceURLResponse}
// @Failure      404  {object}  common.ErrorResponse
// @Router       /projects/{id}/source [get]
func (h *Project) SourceURL(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	sourceURL, err := h.projectService.SourceURL(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &projectDTO.SourceURLResponse{
		URL:       sourceURL,
		ExpiresIn: int(projectUsecase.SourceURLExpiry.Seconds()),
	})
}

// GetLocalProject handles GET /local/:name
// @Summary      Get a bundled fallback project
// @Tags         Projects
// @Produce      json
// @Param        name  path      string  true  "Local project name"
// @Success      200   {object}  common.SuccessResponse{data=projectDTO.LocalProjectResponse}
// @Failure      404   {object}  common.ErrorResponse
// @Router       /local/{name} [get]
func (h *Project) GetLocalProject(c echo.Context) error {
	name := c.Param("name")
	project, err := h.projectService.LoadLocal(name)
	if err != nil {
		if entities.IsNotFoundKind(err, entities.NotFoundProject) {
			return HandleError(h.logger, c, errors.ErrLocalProjectNotFound(name))
		}
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToLocalProjectResponse(name, project))
}

func (h *Project) respondProject(c echo.Context, status int, record *entities.ProjectRecord) error {
	resp, err := presenter.ToProjectResponse(record)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if status == http.StatusCreated {
		return HandleCreated(h.logger, c, resp)
	}
	return HandleSuccess(h.logger, c, resp)
}

// readBody reads the request body up to the configured upload limit
func (h *Project) readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, h.maxUploadBytes+1))
	if err != nil {
		return nil, errors.ErrInvalidPayload(err)
	}
	if int64(len(body)) > h.maxUploadBytes {
		return nil, errors.ErrInvalidArgument("request body too large")
	}
	if len(body) == 0 {
		return nil, errors.ErrInvalidArgument("request body is empty")
	}
	return body, nil
}

func (h *Project) readFormFile(c echo.Context, field string) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", errors.ErrInvalidArgument("missing form file " + field)
	}
	if header.Size > h.maxUploadBytes {
		return nil, "", errors.ErrInvalidArgument("file too large")
	}
	f, err := header.Open()
	if err != nil {
		return nil, "", errors.ErrInvalidPayload(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", errors.ErrInvalidPayload(err)
	}
	return data, header.Filename, nil
}

func projectID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("project ID must be a valid UUID")
	}
	return id, nil
}

// pathValue returns an unescaped path parameter
func pathValue(c echo.Context, name string) (string, error) {
	value, err := url.PathUnescape(c.Param(name))
	if err != nil || strings.TrimSpace(value) == "" {
		return "", errors.ErrInvalidArgument(name + " is required")
	}
	return value, nil
}

func toLine(l projectDTO.LineRequest) entities.Line {
	return entities.Line{
		Characters: l.Characters,
		Text:       l.Line,
		Sung:       l.Sung,
	}
}

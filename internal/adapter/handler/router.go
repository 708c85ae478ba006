package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/linerunner/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	authHandler      *Auth
	projectHandler   *Project
	rehearsalHandler *Rehearsal
	requireAuth      echo.MiddlewareFunc
	optionalAuth     echo.MiddlewareFunc
	requireAdmin     echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	authHandler *Auth,
	projectHandler *Project,
	rehearsalHandler *Rehearsal,
	requireAuth echo.MiddlewareFunc,
	optionalAuth echo.MiddlewareFunc,
	requireAdmin echo.MiddlewareFunc,
) *Router {
	return &Router{
		cfg:              cfg,
		authHandler:      authHandler,
		projectHandler:   projectHandler,
		rehearsalHandler: rehearsalHandler,
		requireAuth:      requireAuth,
		optionalAuth:     optionalAuth,
		requireAdmin:     requireAdmin,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupProjectRoutes(v1)
	rt.setupRehearsalRoutes(v1)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.GET("/google/login", rt.authHandler.GoogleLogin)
	authGroup.GET("/google/callback", rt.authHandler.GoogleCallback)
	authGroup.POST("/refresh", rt.authHandler.RefreshToken)
	authGroup.POST("/logout", rt.authHandler.Logout)

	authGroup.POST("/logout-all", rt.authHandler.LogoutAll, rt.requireAuth)
	authGroup.GET("/me", rt.authHandler.Me, rt.requireAuth)
	authGroup.PUT("/me/preferences", rt.authHandler.UpdatePreferences, rt.requireAuth)
}

// setupProjectRoutes configures project storage routes. Reads accept
// anonymous callers for public projects; writes need a signed-in user.
func (rt *Router) setupProjectRoutes(g *echo.Group) {
	projects := g.Group("/projects")

	projects.GET("", rt.projectHandler.ListProjects, rt.optionalAuth)
	projects.GET("/:id", rt.projectHandler.GetProject, rt.optionalAuth)
	projects.GET("/:id/export", rt.projectHandler.Export, rt.optionalAuth)
	projects.GET("/:id/source", rt.projectHandler.SourceURL, rt.optionalAuth)

	projects.POST("", rt.projectHandler.CreateProject, rt.requireAuth)
	projects.POST("/import", rt.projectHandler.ImportProject, rt.requireAuth)
	projects.PUT("/:id", rt.projectHandler.ReplaceProject, rt.requireAuth)
	projects.DELETE("/:id", rt.projectHandler.DeleteProject, rt.requireAuth)
	projects.PUT("/:id/scenes/:title", rt.projectHandler.PutScene, rt.requireAuth)
	projects.PUT("/:id/scenes/:title/lines/:index", rt.projectHandler.PutLine, rt.requireAuth)
	projects.PUT("/:id/visibility", rt.projectHandler.SetVisibility, rt.requireAuth)

	projects.GET("/:id/shares", rt.projectHandler.ListShares, rt.requireAuth)
	projects.POST("/:id/shares", rt.projectHandler.Share, rt.requireAuth, rt.requireAdmin)
	projects.DELETE("/:id/shares/:userID", rt.projectHandler.Unshare, rt.requireAuth, rt.requireAdmin)

	g.GET("/local/:name", rt.projectHandler.GetLocalProject)
}

// setupRehearsalRoutes configures the rehearsal websocket
func (rt *Router) setupRehearsalRoutes(g *echo.Group) {
	g.GET("/rehearse", rt.rehearsalHandler.Rehearse, rt.optionalAuth)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}

package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"casaads/internal/config"
	apperrors "casaads/internal/errors"
	"casaads/internal/handler"
	"casaads/internal/middleware"
	"casaads/internal/validation"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	gate *middleware.AuthGate,
	authHandler *handler.AuthHandler,
	listingHandler *handler.ListingHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	e.Validator = &CustomValidator{}
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler(cfg.IsProduction())

	// unmatched routes feed the same normalizer, carrying the original URL
	e.RouteNotFound("/*", func(c echo.Context) error {
		return apperrors.NotFound("Not found - " + c.Request().RequestURI)
	})

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Auth
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, gate.Authenticate)
	api.PUT("/auth/profile", authHandler.UpdateProfile, gate.Authenticate)
	api.PUT("/auth/change-password", authHandler.ChangePassword, gate.Authenticate)

	// Ads: public reads (with optional identity for view dedupe), gated writes
	api.GET("/ads", listingHandler.List, gate.OptionalAuth)
	api.GET("/ads/:id", listingHandler.Get, gate.OptionalAuth)
	api.POST("/ads", listingHandler.Create, gate.Authenticate)
	api.PUT("/ads/:id", listingHandler.Update, gate.Authenticate)
	api.DELETE("/ads/:id", listingHandler.Delete, gate.Authenticate)

	// Admin
	admin := api.Group("/users", gate.Authenticate, middleware.RequireAdmin)
	admin.GET("", userHandler.List)
	admin.PUT("/:id/status", userHandler.UpdateStatus)
}

// CustomValidator plugs the schema validator into Echo.
type CustomValidator struct{}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	return validation.Struct(i)
}

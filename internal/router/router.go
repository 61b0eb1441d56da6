package router

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"carwash/docs"
	"carwash/internal/auth"
	"carwash/internal/config"
	apperrors "carwash/internal/errors"
	"carwash/internal/handler"
	"carwash/internal/metrics"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Services *handler.ServiceHandler
	Slots    *handler.SlotHandler
	Bookings *handler.BookingHandler
	Reviews  *handler.ReviewHandler
	Users    *handler.UserHandler
	System   *handler.SystemHandler
}

// Register wires routes and middleware. m may be nil when metrics are disabled.
func Register(e *echo.Echo, cfg *config.Config, h Handlers, gate *auth.Gate, m *metrics.Metrics) {
	e.HTTPErrorHandler = ErrorHandler(cfg.IsDevelopment())
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Origins(),
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodPatch, http.MethodOptions,
		},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("12M"))

	if m != nil && cfg.MetricsEnabled {
		e.Use(m.Middleware())
		e.GET(cfg.MetricsPath, echo.WrapHandler(m.Handler()))
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.GET("/", h.System.Index)
	e.GET("/health", h.System.Health)

	requireAuth := gate.RequireAuth()
	adminOnly := []echo.MiddlewareFunc{requireAuth, gate.RequireAdmin()}

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", h.Auth.Signup)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh-token", h.Auth.Refresh)

	services := api.Group("/services")
	services.GET("", h.Services.List)
	services.GET("/:id", h.Services.Get)
	services.POST("", h.Services.Create, adminOnly...)
	services.PUT("/:id", h.Services.Update, adminOnly...)
	services.DELETE("/:id", h.Services.Delete, adminOnly...)
	services.PUT("/:id/image", h.Services.UploadImage, adminOnly...)

	slots := api.Group("/slots")
	slots.GET("/available", h.Slots.Available)
	slots.POST("", h.Slots.Create, adminOnly...)
	slots.POST("/bulk", h.Slots.CreateBulk, adminOnly...)
	slots.PUT("/:id", h.Slots.Update, adminOnly...)
	slots.DELETE("/:id", h.Slots.Delete, adminOnly...)

	bookings := api.Group("/bookings")
	bookings.GET("/my-bookings", h.Bookings.ListMine, requireAuth)
	bookings.GET("", h.Bookings.ListAll, adminOnly...)
	bookings.POST("", h.Bookings.Create, requireAuth)
	bookings.PUT("/:id", h.Bookings.UpdateStatus, adminOnly...)
	bookings.DELETE("/:id", h.Bookings.Cancel, requireAuth)

	reviews := api.Group("/reviews")
	reviews.GET("", h.Reviews.List)
	reviews.GET("/service/:serviceId", h.Reviews.ListByService)
	reviews.POST("", h.Reviews.Create, requireAuth)

	users := api.Group("/users")
	users.GET("", h.Users.ListUsers, adminOnly...)
	users.GET("/profile", h.Users.GetProfile, requireAuth)
	users.PUT("/profile", h.Users.UpdateProfile, requireAuth)
	users.PUT("/profile/avatar", h.Users.UploadAvatar, requireAuth)
	users.PUT("/:id/role", h.Users.UpdateRole, adminOnly...)
	users.DELETE("/:id", h.Users.DeleteUser, adminOnly...)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler renders every error as an errors.ErrorResponse. The underlying
// cause is exposed in the "error" field only in development.
func ErrorHandler(development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := apperrors.ErrorResponse{Message: "Internal server error", Code: "INTERNAL_ERROR"}
		cause := err

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch msg := he.Message.(type) {
			case apperrors.ErrorResponse:
				body = msg
			case string:
				body = apperrors.ErrorResponse{Message: msg, Code: statusCode(status)}
			default:
				body = apperrors.ErrorResponse{Message: fmt.Sprint(msg), Code: statusCode(status)}
			}
			cause = he.Internal
		} else {
			mapped := apperrors.MapErrorToHTTP(err)
			status = mapped.StatusCode
			body = mapped.ToErrorResponse()
		}

		if status >= http.StatusInternalServerError {
			c.Logger().Errorf("request %s %s failed: %v", c.Request().Method, c.Path(), err)
		}
		if development && cause != nil {
			body.Error = cause.Error()
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			c.Logger().Error(err)
		}
	}
}

func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

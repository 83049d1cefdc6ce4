// Package webserver wires the echo HTTP server: public catalog routes under
// /api and JWT guarded admin routes under /admin/api.
package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/MetlebHuseynov/proline-website-sub000/config"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/featured"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
)

// context keys for injected dependencies
const (
	CtxStore    = "proline_store"
	CtxConfig   = "proline_config"
	CtxCurators = "proline_curators"
)

type CustomValidator struct {
	validate *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

type WebServer struct {
	root     *echo.Echo
	cfg      *config.AppConfig
	store    store.Store
	curators map[string]*featured.Curator

	pub   *echo.Group
	admin *echo.Group
}

func New(cfg *config.AppConfig, st store.Store, curators map[string]*featured.Curator) *WebServer {
	ws := &WebServer{
		root:     echo.New(),
		cfg:      cfg,
		store:    st,
		curators: curators,
	}
	ws.init()
	return ws
}

func (ws *WebServer) init() {
	e := ws.root
	e.HideBanner = true
	e.Validator = &CustomValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(ws.requestLogger())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(CtxStore, ws.store)
			c.Set(CtxConfig, ws.cfg)
			c.Set(CtxCurators, ws.curators)
			return next(c)
		}
	})

	e.Static("/uploads", ws.cfg.GetUploadDir())

	ws.pub = e.Group("/api")
	ws.admin = e.Group("/admin/api",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:    []byte(ws.cfg.Web.Secret),
			NewClaimsFunc: NewTokenClaims,
			ErrorHandler: func(c echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
			},
		}),
		ws.requireAdmin(),
	)
}

func (ws *WebServer) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote", c.RealIP()),
			)
			return err
		}
	}
}

// requireAdmin gates every admin route on role admin or super_admin; the
// token is already verified by the jwt middleware at this point
func (ws *WebServer) requireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := CurrentClaims(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			if claims.Role != domain.RoleAdmin && claims.Role != domain.RoleSuperAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}
			return next(c)
		}
	}
}

// RequireSuperAdmin wraps destructive handlers, super_admin only
func RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := CurrentClaims(c)
		if claims == nil || claims.Role != domain.RoleSuperAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "super admin privileges required")
		}
		return next(c)
	}
}

// Route registration helpers, used by the adminapi package

func (ws *WebServer) PubGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	ws.pub.GET(path, h, m...)
}

func (ws *WebServer) PubPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	ws.pub.POST(path, h, m...)
}

func (ws *WebServer) ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	ws.admin.GET(path, h, m...)
}

func (ws *WebServer) ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	ws.admin.POST(path, h, m...)
}

func (ws *WebServer) ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	ws.admin.PUT(path, h, m...)
}

func (ws *WebServer) ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	ws.admin.DELETE(path, h, m...)
}

// Echo exposes the root instance for tests
func (ws *WebServer) Echo() *echo.Echo {
	return ws.root
}

func (ws *WebServer) Listen() error {
	addr := fmt.Sprintf("%s:%d", ws.cfg.Web.Host, ws.cfg.Web.Port)
	zap.L().Info("starting web server", zap.String("addr", addr))
	return ws.root.Start(addr)
}

func (ws *WebServer) Shutdown() error {
	return ws.root.Close()
}

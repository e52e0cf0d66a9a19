package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/shared/config"
	"onboard-backend/internal/shared/metrics"
	"onboard-backend/internal/shared/server/middleware"
	"onboard-backend/internal/shared/server/respond"
)

// RouteRegistrar mounts a handler's routes on an API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config             config.Config
	SubmissionsHandler RouteRegistrar
	LinksHandler       RouteRegistrar
	ClientsHandler     RouteRegistrar
	TokensHandler      RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	for _, h := range []RouteRegistrar{
		deps.SubmissionsHandler,
		deps.LinksHandler,
		deps.ClientsHandler,
		deps.TokensHandler,
	} {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

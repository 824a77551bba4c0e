package router

import (
	"github.com/gin-gonic/gin"

	"github.com/devtogether/platform-api/internal/handler"
	accountHandler "github.com/devtogether/platform-api/internal/handler/account"
	deletionHandler "github.com/devtogether/platform-api/internal/handler/deletion"
	moderationHandler "github.com/devtogether/platform-api/internal/handler/moderation"
	projectHandler "github.com/devtogether/platform-api/internal/handler/project"
	prometheusHandler "github.com/devtogether/platform-api/internal/handler/prometheus"
	"github.com/devtogether/platform-api/internal/middleware"
)

type Config struct {
	RateLimit float64
	RateBurst int
	CORS      middleware.CORSConfig
}

type Router struct {
	engine      *gin.Engine
	auth        *middleware.AuthMiddleware
	accountH    *accountHandler.Handler
	projectH    *projectHandler.Handler
	moderationH *moderationHandler.Handler
	deletionH   *deletionHandler.Handler
	healthH     *handler.HealthHandler
	metricsH    *prometheusHandler.Handler
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	accountH *accountHandler.Handler,
	projectH *projectHandler.Handler,
	moderationH *moderationHandler.Handler,
	deletionH *deletionHandler.Handler,
	healthH *handler.HealthHandler,
	metricsH *prometheusHandler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:      engine,
		auth:        auth,
		accountH:    accountH,
		projectH:    projectH,
		moderationH: moderationH,
		deletionH:   deletionH,
		healthH:     healthH,
		metricsH:    metricsH,
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		metricsH.Middleware(),
		middleware.CORS(config.CORS),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	root := r.engine.Group("/")
	r.healthH.RegisterRoutes(root)
	r.metricsH.RegisterRoutes(root)

	api := r.engine.Group("/api/v1")
	r.accountH.RegisterRoutes(api)

	// Authenticated non-admin surface: project CRUD and self-service
	// resubmission.
	authed := api.Group("/")
	authed.Use(r.auth.Authenticate())
	r.projectH.RegisterRoutes(authed)
	r.moderationH.RegisterRoutes(authed)

	// Admin console. The middleware gate covers reads; services re-check the
	// persisted role before every destructive write.
	admin := api.Group("/admin")
	admin.Use(r.auth.Authenticate(), r.auth.RequireAdmin())
	r.accountH.RegisterAdminRoutes(admin)
	r.moderationH.RegisterAdminRoutes(admin)
	r.deletionH.RegisterAdminRoutes(admin)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

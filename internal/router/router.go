package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/caresync/hospital-api/internal/middleware"
	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers carries every route group the API mounts.
type Handlers struct {
	Auth        Handler
	Hospital    Handler
	Admin       Handler
	SuperAdmin  Handler
	Doctor      Handler
	Patient     Handler
	Device      Handler
	Appointment Handler
	Test        Handler
	Ticket      Handler
	Audit       Handler
	Health      Handler
}

type Config struct {
	RateLimit         rate.Limit
	RateBurst         int
	RateLimitEnabled  bool
	CORSConfig        middleware.CORSConfig
	CacheTTL          time.Duration
	PrometheusEnabled bool
	MetricsPath       string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	cache    *middleware.ResponseCache
	config   Config
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, m *metrics.Metrics, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	registerValidators()
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		cache:    middleware.NewResponseCache(cacheTTL(config)),
		config:   config,
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		middleware.Metrics(m),
		middleware.Timeout(middleware.DefaultTimeoutConfig()),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.SizeLimit(middleware.DefaultSizeLimitConfig()),
		middleware.Compress(middleware.DefaultCompressConfig()),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	return r
}

func cacheTTL(config Config) time.Duration {
	if config.CacheTTL > 0 {
		return config.CacheTTL
	}
	return 5 * time.Second
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)
	if r.config.PrometheusEnabled {
		path := r.config.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	// Public routes
	r.handlers.Auth.RegisterRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(
		r.auth.Authenticate(),
		r.cache.Cache(),
		r.flushOnWrite(),
	)

	r.handlers.Hospital.RegisterRoutes(protected)
	r.handlers.Doctor.RegisterRoutes(protected)
	r.handlers.Patient.RegisterRoutes(protected)
	r.handlers.Device.RegisterRoutes(protected)
	r.handlers.Appointment.RegisterRoutes(protected)
	r.handlers.Test.RegisterRoutes(protected)
	r.handlers.Ticket.RegisterRoutes(protected)

	staff := protected.Group("")
	staff.Use(r.auth.RequireRoles(model.RoleAdmin))
	r.handlers.Admin.RegisterRoutes(staff)

	restricted := protected.Group("")
	restricted.Use(r.auth.RequireRoles())
	r.handlers.SuperAdmin.RegisterRoutes(restricted)
	r.handlers.Audit.RegisterRoutes(restricted)
}

// flushOnWrite drops the response cache after any successful mutation so
// reads never serve state older than the last write.
func (r *Router) flushOnWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.Method != http.MethodGet && c.Writer.Status() < 400 {
			r.cache.Flush()
		}
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

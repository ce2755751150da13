package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xyvra/marketplace-api/internal/handler/health"
	"github.com/xyvra/marketplace-api/internal/middleware"
)

// Handler registers public routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// ProtectedHandler registers routes that require authentication.
type ProtectedHandler interface {
	RegisterProtectedRoutes(*gin.RouterGroup)
}

// SplitHandler exposes both a public and an authenticated surface.
type SplitHandler interface {
	Handler
	ProtectedHandler
}

type Config struct {
	CORS           middleware.CORSConfig
	RateLimit      middleware.RateLimiterConfig
	RateLimitOn    bool
	MaxUploadBytes int64
	MetricsPrefix  string
}

type Handlers struct {
	Auth           SplitHandler
	Profile        ProtectedHandler
	Provider       Handler
	Specialization Handler
	Facility       ProtectedHandler
	Group          SplitHandler
	Medicine       SplitHandler
	Cart           ProtectedHandler
	Product        SplitHandler
	Blog           Handler
	Admin          ProtectedHandler
	Health         *health.Handler
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *routerMetrics
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	metrics := initRouterMetrics(config.MetricsPrefix)

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  metrics,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: 30 * time.Second}),
	)

	engine.Use(middleware.CORS(config.CORS))

	if config.RateLimitOn {
		rateLimiter := middleware.NewRateLimiter(config.RateLimit)
		engine.Use(rateLimiter.RateLimit())
	}

	if config.MaxUploadBytes > 0 {
		engine.Use(middleware.SizeLimit(config.MaxUploadBytes))
	}

	return r
}

func (r *Router) Setup() {
	r.handlers.Health.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	r.handlers.Auth.RegisterRoutes(rg)
	r.handlers.Provider.RegisterRoutes(rg)
	r.handlers.Specialization.RegisterRoutes(rg)
	r.handlers.Group.RegisterRoutes(rg)
	r.handlers.Medicine.RegisterRoutes(rg)
	r.handlers.Product.RegisterRoutes(rg)
	r.handlers.Blog.RegisterRoutes(rg)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.handlers.Auth.RegisterProtectedRoutes(rg)
	r.handlers.Profile.RegisterProtectedRoutes(rg)
	r.handlers.Facility.RegisterProtectedRoutes(rg)
	r.handlers.Group.RegisterProtectedRoutes(rg)
	r.handlers.Medicine.RegisterProtectedRoutes(rg)
	r.handlers.Cart.RegisterProtectedRoutes(rg)
	r.handlers.Product.RegisterProtectedRoutes(rg)
	r.handlers.Admin.RegisterProtectedRoutes(rg)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func initRouterMetrics(prefix string) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}

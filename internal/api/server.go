package api

import (
	"log"
	"net/http"
	"time"

	"gopnad/app"
	"gopnad/domain/core"
	"gopnad/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Server exposes the loader over HTTP
type Server struct {
	router  *gin.Engine
	loader  *app.LoaderService
	cache   *app.CacheService
	summary *app.SummaryService
	metrics *metrics.Metrics
}

// NewServer creates the HTTP server and registers its routes. m may be nil,
// in which case /metrics is not served.
func NewServer(loader *app.LoaderService, cache *app.CacheService, summary *app.SummaryService, m *metrics.Metrics) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		router:  router,
		loader:  loader,
		cache:   cache,
		summary: summary,
		metrics: m,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/years", s.handleYears)
	api.GET("/fields/:kind", s.handleFields)
	api.GET("/tables/:kind/:year", s.handleTable)
	api.GET("/tables/:kind/:year/summary", s.handleSummary)
	api.GET("/tables/:kind/:year/variables", s.handleVariables)
	api.GET("/panel/:kind", s.handlePanel)
	api.GET("/cache", s.handleCacheDescribe)
	api.DELETE("/cache", s.handleCacheRemove)

	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger tags each request with an ID and logs its outcome.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		requestID, err := core.ParseID(c.GetHeader("X-Request-ID"))
		if err != nil {
			requestID = core.NewID()
		}
		c.Set("requestID", requestID.String())
		c.Header("X-Request-ID", requestID.String())

		c.Next()

		log.Printf("[API] %s %s %d in %.2fms (request %s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			float64(time.Since(startTime).Nanoseconds())/1e6, requestID.Short())
	}
}

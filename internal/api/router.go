package api

import (
	"strconv"
	"time"

	"jobdash/internal/config"
	"jobdash/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the dashboard endpoints onto a gin engine with recovery,
// request logging, request metrics and (optionally) permissive CORS for
// browser dashboards.
func NewRouter(h *Handler, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(requestMetrics())

	if cfg.CORSAllowAll {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
		r.Use(cors.New(corsCfg))
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/job_data", h.JobData)

		an := api.Group("/analytics")
		{
			an.GET("/work_type_distribution", h.WorkTypeDistribution)
			an.GET("/qualification_distribution", h.QualificationDistribution)
			an.GET("/experience_distribution", h.ExperienceDistribution)
			an.GET("/salary_range_distribution", h.SalaryRangeDistribution)
			an.GET("/job_portal_distribution", h.JobPortalDistribution)
			an.GET("/job_postings_trend", h.PostingsTrend)
			an.GET("/top_10_companies", h.TopCompanies)
			an.GET("/company_size_vs_name", h.CompanySizes)
		}
	}

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := metrics.Labels{
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		metrics.IncCounter("jobdash_http_requests_total", 1, labels)
		metrics.ObserveHistogram("jobdash_http_request_duration_seconds", time.Since(start).Seconds(), labels)
	}
}

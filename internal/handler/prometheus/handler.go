package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func New() *Handler {
	registry := prometheus.NewRegistry()
	h := &Handler{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "status"},
		),
	}

	registry.MustRegister(
		h.requestDuration,
		h.requestTotal,
		h.errorTotal,
	)

	return h
}

func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		h.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		h.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if c.Writer.Status() >= 400 {
			h.errorTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		}
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})))
}

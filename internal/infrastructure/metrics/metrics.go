package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revistete_http_requests_total",
			Help: "Total number of HTTP requests processed by the API.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "revistete_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	messagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "revistete_messages_sent_total",
			Help: "Total number of messages persisted.",
		},
	)
	conversationsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "revistete_conversations_created_total",
			Help: "Total number of conversations created on first contact.",
		},
	)
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revistete_notifications_total",
			Help: "Notification writes by type and outcome.",
		},
		[]string{"type", "outcome"},
	)
	geocodingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revistete_geocoding_requests_total",
			Help: "Reverse geocoding lookups by source (cache, upstream) and outcome.",
		},
		[]string{"source", "outcome"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "revistete_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		messagesSentTotal,
		conversationsCreatedTotal,
		notificationsTotal,
		geocodingRequestsTotal,
		amqpPublishErrorsTotal,
	)
}

// HTTPMetricsMiddleware conta requisições e mede latência por rota
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler expõe o registry padrão no formato do Prometheus
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func IncMessageSent() {
	messagesSentTotal.Inc()
}

func IncConversationCreated() {
	conversationsCreatedTotal.Inc()
}

// ObserveNotification registra o resultado da criação de uma notificação
// (outcome: created, skipped, failed)
func ObserveNotification(notificationType, outcome string) {
	notificationsTotal.WithLabelValues(notificationType, outcome).Inc()
}

func ObserveGeocoding(source, outcome string) {
	geocodingRequestsTotal.WithLabelValues(source, outcome).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

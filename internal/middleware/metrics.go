package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis errors by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aperture_redis_errors_total",
	Help: "Total number of Redis errors by command",
}, []string{"command"})

// ModerationTransitions counts moderation state transitions by outcome.
var ModerationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aperture_moderation_transitions_total",
	Help: "Total number of moderation transitions by outcome",
}, []string{"outcome"})

// InitMetrics sets up the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler recording request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Webhook-related Prometheus metrics. Standalone package to avoid import
// cycles between the HTTP layer and services.

var (
	WebhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clerksync_webhook_events_total",
		Help: "Eventos de webhook procesados, por tipo y resultado",
	}, []string{"type", "result"})

	WebhookVerifyFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clerksync_webhook_verify_failures_total",
		Help: "Verificaciones de firma rechazadas, por motivo",
	}, []string{"reason"})

	WebhookDuplicates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clerksync_webhook_duplicate_deliveries_total",
		Help: "Reentregas de eventos ya espejados (respondidas idempotentes)",
	})

	WebhookHandleLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "clerksync_webhook_handle_latency_ms",
		Help:    "Latencia de manejo del webhook en milisegundos",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)

// RegisterWebhook registers the webhook metrics on the given registry (or default if nil).
func RegisterWebhook(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		WebhookEvents,
		WebhookVerifyFailures,
		WebhookDuplicates,
		WebhookHandleLatency,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// Package webhook contains the controller for the Clerk webhook endpoint.
package webhook

import (
	"errors"
	"io"
	"net/http"
	"time"

	dto "github.com/dropDatabas3/clerksync/internal/http/dto/webhook"
	"github.com/dropDatabas3/clerksync/internal/http/helpers"
	svc "github.com/dropDatabas3/clerksync/internal/http/services/webhook"
	"github.com/dropDatabas3/clerksync/internal/metrics"
	"github.com/dropDatabas3/clerksync/internal/observability/logger"
	wh "github.com/dropDatabas3/clerksync/internal/webhook"
)

// maxBodyBytes limita el body del webhook (los envelopes de Clerk son chicos).
const maxBodyBytes = 1 << 20

// ClerkController maneja POST /api/webhooks/clerk.
// Flujo: headers → verificación de firma → decode → (user.created) persistencia.
type ClerkController struct {
	verifier *wh.Verifier
	service  svc.MirrorService
}

// NewClerkController creates a new ClerkController.
func NewClerkController(verifier *wh.Verifier, service svc.MirrorService) *ClerkController {
	return &ClerkController{verifier: verifier, service: service}
}

// Handle procesa una entrega de webhook.
//
// Respuestas (contrato del endpoint):
//   - 400 texto plano: headers svix faltantes o firma inválida.
//   - 500 texto plano: fallo de persistencia en user.created.
//   - 200 JSON {message,newUser}: creación (o reentrega idempotente).
//   - 200 "Webhook received": cualquier otro tipo de evento verificado.
func (c *ClerkController) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ClerkController.Handle"))
	start := time.Now()
	defer func() {
		metrics.WebhookHandleLatency.Observe(float64(time.Since(start).Milliseconds()))
	}()

	msgID := r.Header.Get(wh.HeaderID)
	timestamp := r.Header.Get(wh.HeaderTimestamp)
	signature := r.Header.Get(wh.HeaderSignature)

	if msgID == "" || timestamp == "" || signature == "" {
		metrics.WebhookVerifyFailures.WithLabelValues("missing_headers").Inc()
		helpers.WriteText(w, http.StatusBadRequest, "Error occurred -- no svix headers")
		return
	}

	// La firma es sobre los bytes crudos: leer el body tal cual llegó,
	// sin decodificar antes de verificar.
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		helpers.WriteText(w, http.StatusBadRequest, "Error reading body")
		return
	}

	if err := c.verifier.Verify(body, msgID, timestamp, signature); err != nil {
		metrics.WebhookVerifyFailures.WithLabelValues(verifyReason(err)).Inc()
		log.Warn("webhook verification failed", logger.MessageID(msgID), logger.Err(err))
		helpers.WriteText(w, http.StatusBadRequest, "Error occurred during verification")
		return
	}

	ev, err := wh.ParseEvent(body)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "malformed").Inc()
		log.Warn("malformed webhook payload", logger.MessageID(msgID), logger.Err(err))
		helpers.WriteText(w, http.StatusBadRequest, "Error occurred -- malformed payload")
		return
	}

	switch e := ev.(type) {
	case *wh.UserCreated:
		res, err := c.service.Mirror(ctx, msgID, e)
		if err != nil {
			metrics.WebhookEvents.WithLabelValues(e.Type(), "error").Inc()
			helpers.WriteText(w, http.StatusInternalServerError, "Error saving user")
			return
		}

		msg := "User created"
		result := "created"
		if !res.Created {
			msg = "User already exists"
			result = "duplicate"
		}
		metrics.WebhookEvents.WithLabelValues(e.Type(), result).Inc()
		helpers.WriteJSON(w, http.StatusOK, dto.CreatedResponse{Message: msg, NewUser: res.User})

	default:
		// Tipos no manejados se reconocen sin acción (forward-compatibility).
		metrics.WebhookEvents.WithLabelValues(ev.Type(), "ignored").Inc()
		log.Info("webhook received", logger.EventType(ev.Type()), logger.MessageID(msgID))
		helpers.WriteText(w, http.StatusOK, "Webhook received")
	}
}

// verifyReason mapea el error de verificación a un label de métrica.
func verifyReason(err error) string {
	switch {
	case errors.Is(err, wh.ErrMissingHeaders):
		return "missing_headers"
	case errors.Is(err, wh.ErrInvalidTimestamp):
		return "bad_timestamp"
	case errors.Is(err, wh.ErrTimestampTooOld):
		return "timestamp_too_old"
	case errors.Is(err, wh.ErrTimestampTooNew):
		return "timestamp_too_new"
	default:
		return "signature_mismatch"
	}
}

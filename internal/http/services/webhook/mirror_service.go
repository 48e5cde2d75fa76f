// Package webhook contiene la lógica de espejado de usuarios.
package webhook

import (
	"context"
	"errors"

	"github.com/dropDatabas3/clerksync/internal/store/core"
	"github.com/dropDatabas3/clerksync/internal/webhook"
)

// MirrorResult es el resultado del espejado.
type MirrorResult struct {
	User *core.User
	// Created es false cuando la entrega era un duplicado y devolvimos
	// el registro existente (éxito idempotente, no error).
	Created bool
}

// MirrorService persiste eventos user.created ya verificados.
type MirrorService interface {
	// Mirror crea el registro local para el evento. msgID es el svix message
	// id de la entrega, usado para cortar reentregas sin tocar el store.
	Mirror(ctx context.Context, msgID string, ev *webhook.UserCreated) (*MirrorResult, error)
}

// ErrStoreUnavailable envuelve fallos de conexión/escritura del store.
// El controller lo mapea a 500.
var ErrStoreUnavailable = errors.New("webhook: store unavailable")

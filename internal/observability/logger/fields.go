package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar para mantener nombres consistentes en todos los logs.

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// EventType crea un campo para el tipo de evento del webhook.
func EventType(v string) zap.Field {
	return zap.String("event_type", v)
}

// MessageID crea un campo para el svix message id.
func MessageID(v string) zap.Field {
	return zap.String("message_id", v)
}

// ClerkID crea un campo para el ID externo del usuario (Clerk).
func ClerkID(v string) zap.Field {
	return zap.String("clerk_id", v)
}

// UserID crea un campo para el ID local del usuario.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// Email crea un campo para el email (usar con cuidado en prod).
func Email(v string) zap.Field {
	return zap.String("email", v)
}

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (controller, service, store).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// String re-exporta zap.String para no importar zap en los callers.
func String(k, v string) zap.Field {
	return zap.String(k, v)
}

// Any re-exporta zap.Any.
func Any(k string, v any) zap.Field {
	return zap.Any(k, v)
}

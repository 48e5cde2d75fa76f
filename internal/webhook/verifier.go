// Package webhook implementa la verificación y el decode de los webhooks
// de Clerk (esquema de firma svix).
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Headers svix del request entrante. Nombres definidos por el proveedor.
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

// secretPrefix es el prefijo con el que Clerk entrega el signing secret.
const secretPrefix = "whsec_"

// Errores de verificación. Todos mapean a 400: un fallo acá es un problema
// de autenticación del mensaje, nunca un fallo del servidor.
var (
	ErrMissingHeaders      = errors.New("webhook: missing svix headers")
	ErrInvalidTimestamp    = errors.New("webhook: invalid svix timestamp")
	ErrTimestampTooOld     = errors.New("webhook: timestamp outside tolerance (too old)")
	ErrTimestampTooNew     = errors.New("webhook: timestamp outside tolerance (too new)")
	ErrNoMatchingSignature = errors.New("webhook: no matching signature")
)

// Verifier verifica firmas svix con un secret compartido.
// Es puro: no tiene efectos secundarios y se puede compartir entre requests.
type Verifier struct {
	key       []byte
	tolerance time.Duration

	// now es inyectable para tests de la ventana de tolerancia.
	now func() time.Time
}

// NewVerifier construye el verifier. Un secret vacío es un error de
// configuración: el servicio debe negarse a operar, no saltear la verificación.
func NewVerifier(secret string, tolerance time.Duration) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("webhook: signing secret requerido")
	}
	raw := strings.TrimPrefix(secret, secretPrefix)
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("webhook: signing secret no es base64: %w", err)
	}
	if tolerance <= 0 {
		tolerance = 5 * time.Minute
	}
	return &Verifier{key: key, tolerance: tolerance, now: time.Now}, nil
}

// Verify valida que payload fue firmado por el proveedor para msgID/timestamp.
// El header de firma puede traer varias versiones separadas por espacio
// ("v1,abc v1,def"); alcanza con que una coincida.
func (v *Verifier) Verify(payload []byte, msgID, timestamp, signatures string) error {
	if msgID == "" || timestamp == "" || signatures == "" {
		return ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidTimestamp
	}
	now := v.now()
	at := time.Unix(ts, 0)
	if at.Before(now.Add(-v.tolerance)) {
		return ErrTimestampTooOld
	}
	if at.After(now.Add(v.tolerance)) {
		return ErrTimestampTooNew
	}

	expected := v.sign(msgID, timestamp, payload)

	for _, token := range strings.Fields(signatures) {
		version, sig, ok := strings.Cut(token, ",")
		if !ok || version != "v1" {
			continue
		}
		got, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			return nil
		}
	}
	return ErrNoMatchingSignature
}

// Sign produce el token "v1,<firma>" para msgID/timestamp/payload.
// Lo usan los tests para armar requests válidos.
func (v *Verifier) Sign(msgID, timestamp string, payload []byte) string {
	return "v1," + base64.StdEncoding.EncodeToString(v.sign(msgID, timestamp, payload))
}

// sign calcula HMAC-SHA256 sobre "msgID.timestamp.payload".
// La verificación es firma-sobre-bytes: payload debe ser el body crudo,
// sin re-serializar.
func (v *Verifier) sign(msgID, timestamp string, payload []byte) []byte {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(msgID))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Tipos de evento de Clerk que nos interesan.
const TypeUserCreated = "user.created"

// Errores de decode. Un payload malformado se rechaza en el borde,
// antes de llegar a la lógica de negocio.
var (
	ErrMalformedPayload = errors.New("webhook: malformed payload")
	ErrMissingClerkID   = errors.New("webhook: user.created sin id")
	ErrNoEmailAddresses = errors.New("webhook: user.created sin email_addresses")
)

// Event es la unión cerrada de eventos verificados.
// Variantes: *UserCreated y *Unhandled (catch-all para tipos que no
// persistimos; aceptarlos sin error da forward-compatibility).
type Event interface {
	// Type retorna el tipo crudo del envelope ("user.created", etc.).
	Type() string
}

// UserCreated es la variante que dispara el mirror.
type UserCreated struct {
	ClerkID string
	// Emails es la lista ordenada del envelope; nunca vacía después del
	// decode. El primero es el email primario.
	Emails    []string
	FirstName *string
	LastName  *string
	ImageURL  *string
}

func (*UserCreated) Type() string { return TypeUserCreated }

// PrimaryEmail retorna la primera dirección de la lista.
func (e *UserCreated) PrimaryEmail() string { return e.Emails[0] }

// Unhandled representa cualquier tipo de evento que no manejamos.
type Unhandled struct {
	EventType string
}

func (e *Unhandled) Type() string { return e.EventType }

// Envelope crudo de Clerk: { "type": "...", "data": {...} }.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type userCreatedData struct {
	ID             string `json:"id"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	ImageURL  *string `json:"image_url"`
}

// ParseEvent decodifica el body YA VERIFICADO en una variante tipada.
// Valida el contrato del payload acá: lista de emails vacía o id faltante
// fallan rápido en vez de reventar más adentro.
func ParseEvent(body []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if strings.TrimSpace(env.Type) == "" {
		return nil, fmt.Errorf("%w: type vacío", ErrMalformedPayload)
	}

	if env.Type != TypeUserCreated {
		return &Unhandled{EventType: env.Type}, nil
	}

	var data userCreatedData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if strings.TrimSpace(data.ID) == "" {
		return nil, ErrMissingClerkID
	}

	emails := make([]string, 0, len(data.EmailAddresses))
	for _, ea := range data.EmailAddresses {
		if addr := strings.TrimSpace(ea.EmailAddress); addr != "" {
			emails = append(emails, addr)
		}
	}
	if len(emails) == 0 {
		return nil, ErrNoEmailAddresses
	}

	return &UserCreated{
		ClerkID:   data.ID,
		Emails:    emails,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		ImageURL:  data.ImageURL,
	}, nil
}

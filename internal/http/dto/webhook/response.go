// Package webhook contiene los DTOs de respuesta del endpoint de webhooks.
package webhook

import "github.com/dropDatabas3/clerksync/internal/store/core"

// CreatedResponse es la respuesta 200 de un user.created espejado.
// NewUser mantiene el nombre del contrato original del endpoint.
type CreatedResponse struct {
	Message string     `json:"message"`
	NewUser *core.User `json:"newUser"`
}

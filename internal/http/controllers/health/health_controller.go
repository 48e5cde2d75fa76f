// Package health contains the liveness/readiness controller.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/clerksync/internal/http/helpers"
	"github.com/dropDatabas3/clerksync/internal/store"
)

// Controller responde /healthz.
type Controller struct {
	store *store.Lazy
}

// NewController creates a new health Controller.
func NewController(st *store.Lazy) *Controller {
	return &Controller{store: st}
}

// Healthz reporta el estado del servicio y del store.
// No fuerza la apertura perezosa: si todavía no hay conexión, reporta
// "uninitialized" sin gatillar un intento.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "store": "uninitialized"}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if repo := c.store.Cached(); repo != nil {
		if err := repo.Ping(ctx); err != nil {
			status["store"] = "down"
		} else {
			status["store"] = "ok"
		}
	}

	helpers.WriteJSON(w, http.StatusOK, status)
}

// Package middlewares contiene los middlewares HTTP del servicio.
package middlewares

import "net/http"

// Middleware es la firma estándar de un middleware.
type Middleware func(next http.Handler) http.Handler

// Package store contiene el handle perezoso sobre core.Repository.
//
// El ciclo de vida de la conexión es: sin inicializar → un único intento de
// apertura compartido (los requests concurrentes se suman al intento en vuelo
// via singleflight, no abren conexiones redundantes) → cacheada en éxito.
// El fallo NO se cachea: el próximo request reintenta desde cero.
package store

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/clerksync/internal/store/core"
)

// OpenFunc abre la conexión real al store (pg.New, etc.).
type OpenFunc func(ctx context.Context) (core.Repository, error)

// Lazy es un handle inyectable con inicialización single-flight.
type Lazy struct {
	open OpenFunc

	sf singleflight.Group
	mu sync.RWMutex
	// repo solo se escribe bajo mu y solo en éxito.
	repo core.Repository
}

// NewLazy crea el handle. No abre ninguna conexión todavía.
func NewLazy(open OpenFunc) *Lazy {
	return &Lazy{open: open}
}

// Get retorna el repositorio cacheado, o dispara/espera el intento de
// apertura compartido. Los callers que llegan durante la apertura esperan
// el MISMO intento; si falla, ninguno cachea nada.
func (l *Lazy) Get(ctx context.Context) (core.Repository, error) {
	l.mu.RLock()
	if r := l.repo; r != nil {
		l.mu.RUnlock()
		return r, nil
	}
	l.mu.RUnlock()

	v, err, _ := l.sf.Do("open", func() (any, error) {
		// Re-chequear: otro vuelo pudo haber terminado antes de entrar.
		l.mu.RLock()
		if r := l.repo; r != nil {
			l.mu.RUnlock()
			return r, nil
		}
		l.mu.RUnlock()

		r, err := l.open(ctx)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.repo = r
		l.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(core.Repository), nil
}

// Cached retorna la conexión cacheada sin disparar la apertura perezosa.
// Retorna nil si todavía no hubo un Get exitoso.
func (l *Lazy) Cached() core.Repository {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repo
}

// Invalidate descarta la conexión cacheada (si hay) para que el próximo
// Get reintente desde cero. Se usa cuando el store reporta una conexión
// muerta, no por errores de datos (conflictos, not found).
func (l *Lazy) Invalidate() {
	l.mu.Lock()
	r := l.repo
	l.repo = nil
	l.mu.Unlock()
	if r != nil {
		r.Close()
	}
}

// Close cierra la conexión cacheada. Para shutdown.
func (l *Lazy) Close() {
	l.Invalidate()
}

package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/clerksync/internal/cache"
	"github.com/dropDatabas3/clerksync/internal/metrics"
	"github.com/dropDatabas3/clerksync/internal/observability/logger"
	"github.com/dropDatabas3/clerksync/internal/store"
	"github.com/dropDatabas3/clerksync/internal/store/core"
	"github.com/dropDatabas3/clerksync/internal/webhook"
)

// mirrorService implementa MirrorService contra el handle perezoso del store
// y un cache opcional de reentregas.
type mirrorService struct {
	store     *store.Lazy
	cache     cache.Client // puede ser nil
	replayTTL time.Duration
}

// NewMirrorService crea el service. cache puede ser nil (sin dedupe de
// reentregas; la idempotencia queda a cargo del unique del store).
func NewMirrorService(st *store.Lazy, c cache.Client, replayTTL time.Duration) MirrorService {
	return &mirrorService{store: st, cache: c, replayTTL: replayTTL}
}

func (s *mirrorService) Mirror(ctx context.Context, msgID string, ev *webhook.UserCreated) (*MirrorResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Mirror"), logger.ClerkID(ev.ClerkID))

	// Reentrega ya procesada: respondemos con el registro cacheado sin
	// tocar el store. Cualquier error de cache cae al camino normal.
	if cached := s.replayLookup(ctx, msgID); cached != nil {
		metrics.WebhookDuplicates.Inc()
		log.Info("duplicate delivery short-circuited", logger.MessageID(msgID))
		return &MirrorResult{User: cached, Created: false}, nil
	}

	repo, err := s.store.Get(ctx)
	if err != nil {
		log.Error("store connection failed", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	email := ev.PrimaryEmail()
	u := &core.User{
		ClerkID:   ev.ClerkID,
		Email:     email,
		Username:  email, // username derivado del email primario
		FirstName: ev.FirstName,
		LastName:  ev.LastName,
		Photo:     ev.ImageURL,
	}

	result := &MirrorResult{User: u, Created: true}

	switch err := repo.CreateUser(ctx, u); {
	case err == nil:
		log.Info("user mirrored", logger.UserID(u.ID), logger.Email(u.Email))

	case errors.Is(err, core.ErrConflict):
		// Segunda entrega para la misma identidad: éxito idempotente.
		// Devolvemos el registro existente, no un 500.
		existing, gerr := repo.GetUserByClerkID(ctx, ev.ClerkID)
		if gerr != nil {
			log.Error("conflict lookup failed", logger.Err(gerr))
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, gerr)
		}
		metrics.WebhookDuplicates.Inc()
		log.Info("user already mirrored", logger.UserID(existing.ID))
		result = &MirrorResult{User: existing, Created: false}

	default:
		log.Error("user insert failed", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.replayRemember(ctx, msgID, result.User)
	return result, nil
}

func replayKey(msgID string) string { return "svixmsg:" + msgID }

func (s *mirrorService) replayLookup(ctx context.Context, msgID string) *core.User {
	if s.cache == nil || msgID == "" {
		return nil
	}
	v, err := s.cache.Get(ctx, replayKey(msgID))
	if err != nil {
		return nil
	}
	var u core.User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		return nil
	}
	return &u
}

func (s *mirrorService) replayRemember(ctx context.Context, msgID string, u *core.User) {
	if s.cache == nil || msgID == "" {
		return
	}
	b, err := json.Marshal(u)
	if err != nil {
		return
	}
	// Best effort: si el cache falla el unique del store sigue cubriendo.
	if err := s.cache.Set(ctx, replayKey(msgID), string(b), s.replayTTL); err != nil {
		logger.From(ctx).Warn("replay cache set failed", logger.Err(err))
	}
}

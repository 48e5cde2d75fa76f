package pg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/clerksync/internal/store/core"
)

func TestMapPGError_UniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "app_user_clerk_id_key"}
	if got := mapPGError(err); !errors.Is(got, core.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", got)
	}

	// También envuelto.
	wrapped := fmt.Errorf("insert: %w", err)
	if got := mapPGError(wrapped); !errors.Is(got, core.ErrConflict) {
		t.Fatalf("expected ErrConflict for wrapped, got %v", got)
	}
}

func TestMapPGError_PassThrough(t *testing.T) {
	other := &pgconn.PgError{Code: "57P01"} // admin_shutdown
	if got := mapPGError(other); errors.Is(got, core.ErrConflict) {
		t.Fatalf("non-unique violations must pass through")
	}

	plain := errors.New("dial tcp: refused")
	if got := mapPGError(plain); got != plain {
		t.Fatalf("plain errors must pass through unchanged")
	}
}

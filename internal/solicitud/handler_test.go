package solicitud

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"urbanfix-backend/internal/cache"
	"urbanfix-backend/internal/validation"
)

func TestInvalidateClearsCachedResponses(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(testService(&fakeRepo{}), NewSessionStore(c, time.Minute), c, time.Minute, validation.New(), log, nil)

	if err := c.Set(ctx, listCacheKey, []byte(`{"solicitudes":[]}`), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Set(ctx, summaryCacheKey, []byte(`{"total":0}`), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	h.invalidate(ctx)

	if _, ok, _ := c.Get(ctx, listCacheKey); ok {
		t.Fatalf("list cache must be cleared")
	}
	if _, ok, _ := c.Get(ctx, summaryCacheKey); ok {
		t.Fatalf("summary cache must be cleared")
	}
}

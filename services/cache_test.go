package services

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// A CacheService without a live client must degrade to no-ops so the
// API and the write-path invalidation keep working without Redis.
func TestCacheServiceDegradesWithoutClient(t *testing.T) {
	svc := &CacheService{client: nil}
	ctx := context.Background()

	if svc.Available() {
		t.Error("Available should be false without a client")
	}

	var dest string
	if err := svc.Get(ctx, "key", &dest); err != redis.Nil {
		t.Errorf("Get err = %v, want redis.Nil", err)
	}
	if err := svc.Set(ctx, "key", "value", time.Second); err != nil {
		t.Errorf("Set err = %v, want nil", err)
	}
	if err := svc.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete err = %v, want nil", err)
	}
	if err := svc.Publish(ctx, "channel", "message"); err != nil {
		t.Errorf("Publish err = %v, want nil", err)
	}
	if err := svc.InvalidatePrefix(ctx, "history:"); err != nil {
		t.Errorf("InvalidatePrefix err = %v, want nil", err)
	}
	if svc.Subscribe(ctx, "channel") != nil {
		t.Error("Subscribe should return nil without a client")
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Close err = %v, want nil", err)
	}
}

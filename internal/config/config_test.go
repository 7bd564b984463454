package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")

		c, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if c.HTTPAddr != ":8080" {
			t.Fatalf("HTTPAddr = %q", c.HTTPAddr)
		}
		if c.StoreDriver != StoreDriverDynamoDB {
			t.Fatalf("StoreDriver = %q", c.StoreDriver)
		}
		if c.TransitionMaxAttempts != 5 || c.TransitionRetryDelay != 25*time.Millisecond {
			t.Fatalf("retry policy = %d/%s", c.TransitionMaxAttempts, c.TransitionRetryDelay)
		}
		if c.BookingsTable != "bookings" || c.NotificationsTable != "notifications" || c.NotificationStreamsTable != "notification_streams" {
			t.Fatalf("unexpected tables: %+v", c)
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("TRANSITION_RETRY_DELAY", "100ms")
		t.Setenv("BACKLOG_PAGE_LIMIT", "10")

		c, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if c.StoreDriver != StoreDriverMemory || c.TransitionRetryDelay != 100*time.Millisecond || c.BacklogPageLimit != 10 {
			t.Fatalf("unexpected config: %+v", c)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORE_DRIVER", "postgres")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error")
		}
	})
}

package observability

import (
	"testing"

	"bookinghub/internal/domain/entities"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector(t *testing.T) {
	c := NewMetricsCollector()
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	c.RecordTransition("ACCEPTED", "success")
	c.RecordTransition("ACCEPTED", "success")
	c.RecordTransition("ACCEPTED", "conflict")
	c.RecordLivePush("offline")
	c.ConnectionOpened(entities.RoleAdmin)
	c.ConnectionOpened(entities.RoleAdmin)
	c.ConnectionClosed(entities.RoleAdmin)

	if got := testutil.ToFloat64(c.transitions.WithLabelValues("ACCEPTED", "success")); got != 2 {
		t.Fatalf("success transitions = %v", got)
	}
	if got := testutil.ToFloat64(c.livePushes.WithLabelValues("offline")); got != 1 {
		t.Fatalf("offline pushes = %v", got)
	}
	if got := testutil.ToFloat64(c.connections.WithLabelValues("admin")); got != 1 {
		t.Fatalf("admin connections = %v", got)
	}
	if n := testutil.CollectAndCount(c); n != 4 {
		t.Fatalf("collected %d series, want 4", n)
	}
}

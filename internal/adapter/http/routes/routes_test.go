package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookinghub/internal/config"
	"bookinghub/internal/domain/entities"
	"bookinghub/internal/infrastructure/auth"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	a, err := newApp(ctx, config.Config{
		StoreDriver:           config.StoreDriverMemory,
		JWTSecret:             testSecret,
		JWTIssuer:             "bookinghub",
		TransitionMaxAttempts: 3,
		TransitionRetryDelay:  time.Millisecond,
		BacklogPageLimit:      50,
	})
	if err != nil {
		t.Fatalf("newApp() error: %v", err)
	}
	t.Cleanup(a.close)
	return newRouter(a)
}

func token(t *testing.T, subject string, role entities.Role) string {
	t.Helper()
	tok, err := auth.NewJWTVerifier(testSecret, "bookinghub").Issue(subject, role, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	return tok
}

func call(t *testing.T, r *gin.Engine, method, path, tok, body string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: body is not json: %s", method, path, w.Body.String())
		}
	}
	return w.Code
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := newTestRouter(t)

	if code := call(t, r, http.MethodGet, "/v1/ping", "", "", nil); code != http.StatusOK {
		t.Fatalf("ping: expected 200, got %d", code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatalf("metrics: unexpected response %d", w.Code)
	}

	if code := call(t, r, http.MethodGet, "/v1/bookings", "", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("bookings without token: expected 401, got %d", code)
	}
}

func TestRouter_BookingLifecycle(t *testing.T) {
	r := newTestRouter(t)
	customer := token(t, "c1", entities.RoleCustomer)
	provider := token(t, "p1", entities.RoleProvider)
	outsider := token(t, "c2", entities.RoleCustomer)
	admin := token(t, "a1", entities.RoleAdmin)

	var booking struct {
		ID      string `json:"id"`
		State   string `json:"state"`
		Version int64  `json:"version"`
	}
	code := call(t, r, http.MethodPost, "/v1/bookings", customer, `{"service_id":"svc-1","provider_id":"p1"}`, &booking)
	if code != http.StatusCreated || booking.State != "REQUESTED" || booking.Version != 0 {
		t.Fatalf("create: %d %+v", code, booking)
	}
	base := "/v1/bookings/" + booking.ID

	if code := call(t, r, http.MethodGet, base, outsider, "", nil); code != http.StatusNotFound {
		t.Fatalf("outsider read: expected 404, got %d", code)
	}

	steps := []struct {
		tok    string
		target string
		status int
	}{
		{customer, "ACCEPTED", http.StatusForbidden},
		{provider, "ACCEPTED", http.StatusOK},
		{provider, "IN_PROGRESS", http.StatusOK},
		{provider, "COMPLETED", http.StatusOK},
	}
	for _, s := range steps {
		body := fmt.Sprintf(`{"target_state":%q,"expected_version":%d}`, s.target, booking.Version)
		var next struct {
			State   string `json:"state"`
			Version int64  `json:"version"`
		}
		code := call(t, r, http.MethodPost, base+"/transitions", s.tok, body, &next)
		if code != s.status {
			t.Fatalf("transition to %s: expected %d, got %d", s.target, s.status, code)
		}
		if code == http.StatusOK {
			booking.State, booking.Version = next.State, next.Version
		}
	}
	if booking.State != "COMPLETED" || booking.Version != 3 {
		t.Fatalf("unexpected final booking: %+v", booking)
	}

	stale := `{"target_state":"CANCELLED","expected_version":1}`
	if code := call(t, r, http.MethodPost, base+"/transitions", customer, stale, nil); code != http.StatusConflict {
		t.Fatalf("stale version: expected 409, got %d", code)
	}
	terminal := `{"target_state":"CANCELLED","expected_version":3}`
	if code := call(t, r, http.MethodPost, base+"/transitions", customer, terminal, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("terminal booking: expected 422, got %d", code)
	}

	var page struct {
		Stream    string `json:"stream"`
		Items     []any  `json:"items"`
		NextSince int64  `json:"next_since"`
	}
	if code := call(t, r, http.MethodGet, "/v1/notifications", customer, "", &page); code != http.StatusOK || len(page.Items) != 3 {
		t.Fatalf("customer backlog: %d %+v", code, page)
	}
	if code := call(t, r, http.MethodGet, "/v1/notifications", provider, "", &page); code != http.StatusOK || len(page.Items) != 4 {
		t.Fatalf("provider backlog: %d %+v", code, page)
	}
	if code := call(t, r, http.MethodGet, "/v1/notifications/groups/admins", admin, "", &page); code != http.StatusOK || len(page.Items) != 1 {
		t.Fatalf("admin group backlog: %d %+v", code, page)
	}
	if code := call(t, r, http.MethodGet, "/v1/notifications/groups/admins", customer, "", nil); code != http.StatusForbidden {
		t.Fatalf("customer reading admin group: expected 403, got %d", code)
	}
}

func TestRouter_AdminBroadcast(t *testing.T) {
	r := newTestRouter(t)
	admin := token(t, "a1", entities.RoleAdmin)
	provider := token(t, "p1", entities.RoleProvider)

	body := `{"group":"providers","summary":"maintenance at 22h"}`
	if code := call(t, r, http.MethodPost, "/v1/admin/broadcasts", provider, body, nil); code != http.StatusForbidden {
		t.Fatalf("provider broadcast: expected 403, got %d", code)
	}
	if code := call(t, r, http.MethodPost, "/v1/admin/broadcasts", admin, body, nil); code != http.StatusCreated {
		t.Fatalf("admin broadcast: expected 201, got %d", code)
	}

	var page struct {
		Items []struct {
			Summary string `json:"summary"`
		} `json:"items"`
	}
	code := call(t, r, http.MethodGet, "/v1/notifications/groups/providers", provider, "", &page)
	if code != http.StatusOK || len(page.Items) != 1 || page.Items[0].Summary != "maintenance at 22h" {
		t.Fatalf("provider group backlog: %d %+v", code, page)
	}

	var ack struct {
		Stream   string `json:"stream"`
		Sequence int64  `json:"sequence"`
	}
	code = call(t, r, http.MethodPost, "/v1/notifications/ack", provider, `{"stream":"group:providers","sequence":1}`, &ack)
	if code != http.StatusOK || ack.Stream != "group:providers" || ack.Sequence != 1 {
		t.Fatalf("ack: %d %+v", code, ack)
	}
}

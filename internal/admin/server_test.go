package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"geofence-control-plane/internal/engine"
	geodomain "geofence-control-plane/internal/geofence/domain"
	georepo "geofence-control-plane/internal/geofence/repository"
	"geofence-control-plane/internal/message"
	"geofence-control-plane/internal/settings"
	trackerdomain "geofence-control-plane/internal/tracker/domain"
	trackerrepo "geofence-control-plane/internal/tracker/repository"
)

const (
	testSecret = "test-secret"
	testIssuer = "geofence-admin"
)

type fakePublisher struct {
	mu       sync.Mutex
	user     string
	device   string
	commands []*message.Command
}

func (p *fakePublisher) Publish(_ context.Context, user, device string, cmd *message.Command) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.user, p.device = user, device
	p.commands = append(p.commands, cmd)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newTestServer(t *testing.T) (*Server, *trackerrepo.MemoryStore, *georepo.MemoryRegistry, *fakePublisher) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	users := trackerrepo.NewMemoryStore()
	fences := georepo.NewMemoryRegistry()
	st := settings.NewStore(settings.Settings{AccuracyThreshold: 100, DoubleEnter: true, DoubleLeave: true, UseInregions: true})
	eng := engine.New(users, fences, st, nil)
	pub := &fakePublisher{}
	return NewServer(users, fences, st, eng, pub, []byte(testSecret), testIssuer), users, fences, pub
}

func do(t *testing.T, s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthzIsOpen(t *testing.T) {
	s, _, _, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/healthz", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	s, _, _, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/users", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", w.Code)
	}
}

func TestAPIRejectsNonOwnerRole(t *testing.T) {
	s, _, _, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/users", signToken(t, "viewer"), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for non-owner role", w.Code)
	}
}

func TestListUsers(t *testing.T) {
	s, users, _, _ := newTestServer(t)
	users.Save(context.Background(), &trackerdomain.User{Name: "alice", CurrentFence: "home"})

	w := do(t, s, http.MethodGet, "/api/users", signToken(t, "owner"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Users []trackerdomain.User `json:"users"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Users) != 1 || resp.Users[0].Name != "alice" {
		t.Errorf("users = %+v", resp.Users)
	}
}

func TestPurgeUser(t *testing.T) {
	s, users, _, _ := newTestServer(t)
	ctx := context.Background()
	users.Save(ctx, &trackerdomain.User{Name: "alice"})
	users.Save(ctx, &trackerdomain.User{Name: "bob"})

	w := do(t, s, http.MethodDelete, "/api/users/alice", signToken(t, "owner"), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if u, _ := users.Get(ctx, "alice"); u != nil {
		t.Error("alice should be purged")
	}
	if u, _ := users.Get(ctx, "bob"); u == nil {
		t.Error("bob should be untouched")
	}
}

func TestPurgeAllUsers(t *testing.T) {
	s, users, _, _ := newTestServer(t)
	ctx := context.Background()
	users.Save(ctx, &trackerdomain.User{Name: "alice"})
	users.Save(ctx, &trackerdomain.User{Name: "bob"})

	w := do(t, s, http.MethodDelete, "/api/users", signToken(t, "owner"), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	list, _ := users.List(ctx)
	if len(list) != 0 {
		t.Errorf("users after purge = %d, want 0", len(list))
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s, _, _, _ := newTestServer(t)
	token := signToken(t, "owner")

	w := do(t, s, http.MethodPut, "/api/settings", token,
		`{"accuracyThreshold":50,"doubleEnter":false,"doubleLeave":true,"useInregions":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = do(t, s, http.MethodGet, "/api/settings", token, "")
	var got settings.Settings
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.AccuracyThreshold != 50 || got.DoubleEnter {
		t.Errorf("settings = %+v", got)
	}
}

func TestPutSettingsRejectsBadThreshold(t *testing.T) {
	s, _, _, _ := newTestServer(t)

	w := do(t, s, http.MethodPut, "/api/settings", signToken(t, "owner"), `{"accuracyThreshold":0}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSendCommand_SetWaypoints(t *testing.T) {
	s, _, fences, pub := newTestServer(t)
	fences.Upsert(context.Background(), &geodomain.Fence{Name: "home", Lat: 52.1, Lon: 4.3, Radius: 100, Timestamp: 5})

	w := do(t, s, http.MethodPost, "/api/devices/alice/phone/commands", signToken(t, "owner"),
		`{"action":"setWaypoints"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", w.Code, w.Body.String())
	}

	if len(pub.commands) != 1 {
		t.Fatalf("published %d commands, want 1", len(pub.commands))
	}
	if pub.user != "alice" || pub.device != "phone" {
		t.Errorf("published to %s/%s, want alice/phone", pub.user, pub.device)
	}
	cmd := pub.commands[0]
	if cmd.Type != message.TypeCmd || cmd.Action != "setWaypoints" {
		t.Errorf("command = %+v", cmd)
	}
	if cmd.Waypoints == nil || len(cmd.Waypoints.Waypoints) != 1 || cmd.Waypoints.Waypoints[0].Desc != "home" {
		t.Errorf("waypoints = %+v", cmd.Waypoints)
	}
}

func TestSendCommand_UnknownActionIsNoOp(t *testing.T) {
	s, _, _, pub := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/devices/alice/phone/commands", signToken(t, "owner"),
		`{"action":"reboot"}`)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if len(pub.commands) != 0 {
		t.Errorf("published %d commands, want 0", len(pub.commands))
	}
}

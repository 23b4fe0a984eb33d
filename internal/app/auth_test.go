package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pulperia-go/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(Config{
		DataDir:   t.TempDir(),
		JWTSecret: []byte("0123456789abcdef0123456789abcdef"),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	return a
}

func TestTokenRoundtrip(t *testing.T) {
	a := newTestApp(t)

	token, err := a.CreateAccessToken("maria")
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	username, err := a.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if username != "maria" {
		t.Fatalf("subject = %q, want maria", username)
	}
}

func TestTokenWrongKeyRejected(t *testing.T) {
	a := newTestApp(t)
	token, err := a.CreateAccessToken("maria")
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	other := newTestApp(t)
	other.cfg.JWTSecret = []byte("ffffffffffffffffffffffffffffffff")
	if _, err := other.VerifyAccessToken(token); err == nil {
		t.Fatal("token verified with the wrong key")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	a := newTestApp(t)
	a.cfg.TokenTTL = -time.Minute

	token, err := a.CreateAccessToken("maria")
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	if _, err := a.VerifyAccessToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestMiddlewareLoadCurrentUser(t *testing.T) {
	a := newTestApp(t)
	if _, err := a.Auth().Register("maria", "maria@pulperia.test", "secreto1", store.RolMesero); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := a.CreateAccessToken("maria")
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	var got *store.User
	h := a.MiddlewareLoadCurrentUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = a.CurrentUser(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Username != "maria" {
		t.Fatalf("CurrentUser = %+v", got)
	}

	// No header, no user.
	got = nil
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got != nil {
		t.Fatalf("CurrentUser without token = %+v", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	a := newTestApp(t)
	if _, err := a.Auth().Register("pepe", "pepe@pulperia.test", "secreto1", store.RolMesero); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := a.Auth().Register("jefa", "jefa@pulperia.test", "secreto1", store.RolAdministrador); err != nil {
		t.Fatalf("Register: %v", err)
	}

	handler := a.MiddlewareLoadCurrentUser(a.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	call := func(username string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if username != "" {
			token, err := a.CreateAccessToken(username)
			if err != nil {
				t.Fatalf("CreateAccessToken: %v", err)
			}
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := call(""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d", rec.Code)
	}
	if rec := call("pepe"); rec.Code != http.StatusForbidden {
		t.Fatalf("mesero: status = %d", rec.Code)
	}
	if rec := call("jefa"); rec.Code != http.StatusNoContent {
		t.Fatalf("admin: status = %d", rec.Code)
	}
}

func TestBootstrapAdmin(t *testing.T) {
	a, err := New(Config{
		DataDir:                t.TempDir(),
		JWTSecret:              []byte("0123456789abcdef0123456789abcdef"),
		BootstrapAdminUsername: "admin",
		BootstrapAdminEmail:    "admin@pulperia.test",
		BootstrapAdminPassword: "secreto1",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	if !a.Auth().HasAdmin() {
		t.Fatal("bootstrap admin missing")
	}
	u, _ := a.Auth().Authenticate("admin", "secreto1")
	if !u.IsAdmin() {
		t.Fatalf("bootstrapped user rol = %s", u.Rol)
	}
}

func TestSeedDemoOnlyWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := Config{
		DataDir:   dir,
		JWTSecret: []byte("0123456789abcdef0123456789abcdef"),
		SeedDemo:  true,
	}

	a, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	menuCount := a.Menu().Count()
	invCount := a.Inventory().Count()
	if menuCount == 0 || invCount == 0 {
		t.Fatalf("seed did not run: menu=%d inventario=%d", menuCount, invCount)
	}

	// Second boot over the same data dir must not duplicate the catalog.
	b, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("second app.New: %v", err)
	}
	if b.Menu().Count() != menuCount || b.Inventory().Count() != invCount {
		t.Fatalf("seed ran twice: menu=%d inventario=%d", b.Menu().Count(), b.Inventory().Count())
	}
}

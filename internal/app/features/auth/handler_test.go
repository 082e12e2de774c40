package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/civicpulse/civicpulse/internal/app/features/auth"
	sysauth "github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*auth.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	sm, err := sysauth.NewSessionManager(
		"0123456789abcdef0123456789abcdef", "civicpulse_test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() error: %v", err)
	}
	return auth.NewHandler(db, sm, zap.NewNop()), db
}

func postJSON(t *testing.T, h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegisterThenLogin(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.HandleRegister, "/auth/register",
		`{"full_name":"Ada Lovelace","email":"ada@example.com","password":"difference engine"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status: got %d, want 201, body=%s", rec.Code, rec.Body.String())
	}

	var user struct {
		Role  string `json:"role"`
		Badge string `json:"badge"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if user.Role != "citizen" || user.Badge != "citizen" {
		t.Errorf("register response: role=%q badge=%q", user.Role, user.Badge)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("registration did not set a session cookie")
	}

	rec = postJSON(t, h.HandleLogin, "/auth/login",
		`{"email":"ADA@example.com","password":"difference engine"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status: got %d, body=%s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, h.HandleLogin, "/auth/login",
		`{"email":"ada@example.com","password":"analytical engine"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong-password login status: got %d, want 401", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.HandleRegister, "/auth/register",
		`{"full_name":"Ada","email":"not-an-email","password":"long enough pass"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad email status: got %d, want 400", rec.Code)
	}

	rec = postJSON(t, h.HandleRegister, "/auth/register",
		`{"full_name":"Ada","email":"ada@example.com","password":"short"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("short password status: got %d, want 400", rec.Code)
	}

	rec = postJSON(t, h.HandleRegister, "/auth/register", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status: got %d, want 400", rec.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"full_name":"Ada","email":"dup@example.com","password":"long enough pass"}`
	if rec := postJSON(t, h.HandleRegister, "/auth/register", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register status: got %d", rec.Code)
	}
	if rec := postJSON(t, h.HandleRegister, "/auth/register", body); rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status: got %d, want 409", rec.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.HandleLogin, "/auth/login",
		`{"email":"ghost@example.com","password":"whatever!"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown email status: got %d, want 401", rec.Code)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateInactiveUser(ctx, "Gone Away", "gone@example.com")

	rec := postJSON(t, h.HandleLogin, "/auth/login",
		`{"email":"gone@example.com","password":"whatever!"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("disabled account status: got %d, want 403", rec.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	h, _ := newTestHandler(t)

	// The email limiter allows five attempts per window; the sixth
	// must be rejected before any credential check.
	for i := 0; i < 5; i++ {
		rec := postJSON(t, h.HandleLogin, "/auth/login",
			`{"email":"target@example.com","password":"wrong password"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status: got %d, want 401", i+1, rec.Code)
		}
	}

	rec := postJSON(t, h.HandleLogin, "/auth/login",
		`{"email":"target@example.com","password":"wrong password"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("sixth attempt status: got %d, want 429", rec.Code)
	}
}

func TestServeMe(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	citizen := f.CreateCitizen(ctx, "Cindy Citizen", "cindy@example.com")

	req := testutil.NewAuthenticatedRequest("GET", "/auth/me", testutil.TestUser{
		ID: citizen.ID.Hex(), Name: citizen.FullName, Email: citizen.Email, Role: citizen.Role,
	})
	rec := httptest.NewRecorder()
	h.ServeMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("me status: got %d", rec.Code)
	}
	var resp struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Email != "cindy@example.com" {
		t.Errorf("me email: got %q", resp.Email)
	}

	rec = httptest.NewRecorder()
	h.ServeMe(rec, httptest.NewRequest("GET", "/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me status: got %d, want 401", rec.Code)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/assignhub/assignment-portal/internal/core/domain"
	"github.com/assignhub/assignment-portal/internal/core/ports"
)

type stubAuthService struct {
	registerFn  func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn     func(ctx context.Context, kind domain.PrincipalKind, username, password string) (*ports.AuthResult, error)
	federatedFn func(ctx context.Context, kind domain.PrincipalKind, accessToken string) (*ports.AuthResult, error)
	verifyFn    func(ctx context.Context, kind domain.PrincipalKind, token string) (*domain.Principal, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, kind domain.PrincipalKind, username, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, kind, username, password)
}

func (s *stubAuthService) FederatedLogin(ctx context.Context, kind domain.PrincipalKind, accessToken string) (*ports.AuthResult, error) {
	return s.federatedFn(ctx, kind, accessToken)
}

func (s *stubAuthService) VerifyToken(ctx context.Context, kind domain.PrincipalKind, token string) (*domain.Principal, error) {
	return s.verifyFn(ctx, kind, token)
}

type stubSessionManager struct {
	created   []string
	destroyed []string
	existing  map[string]*domain.Session
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{existing: map[string]*domain.Session{}}
}

func (s *stubSessionManager) Create(_ context.Context, principalID string, kind domain.PrincipalKind) (string, error) {
	id := "session-" + principalID
	s.created = append(s.created, id)
	s.existing[id] = &domain.Session{ID: id, PrincipalID: principalID, Kind: kind}
	return id, nil
}

func (s *stubSessionManager) Resolve(_ context.Context, id string) (*domain.Session, error) {
	if sess, ok := s.existing[id]; ok {
		return sess, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *stubSessionManager) Destroy(_ context.Context, id string) (bool, error) {
	s.destroyed = append(s.destroyed, id)
	if _, ok := s.existing[id]; !ok {
		return false, nil
	}
	delete(s.existing, id)
	return true, nil
}

func newAuthContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Kind != domain.KindUser || in.Username != "alice" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{
				Token:     "tok-1",
				Principal: &domain.Principal{ID: "p1", Kind: domain.KindUser, Username: "alice"},
			}, nil
		},
	}
	sessions := newStubSessionManager()
	handler := NewAuthHandler(domain.KindUser, stub, sessions, "session-id")

	c, rec := newAuthContext(http.MethodPost, "/users/register",
		`{"username":"alice","password":"secret","firstname":"Alice","lastname":"Lee"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["success"] != true || resp["token"] != "tok-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["status"] != "User Registration Successful!" {
		t.Fatalf("unexpected status: %v", resp["status"])
	}
	if len(sessions.created) != 1 {
		t.Fatalf("expected a session to be created, got %d", len(sessions.created))
	}

	cookie := rec.Header().Get(echo.HeaderSetCookie)
	if !strings.Contains(cookie, "session-id=") {
		t.Fatalf("expected session cookie, got %q", cookie)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	handler := NewAuthHandler(domain.KindUser, &stubAuthService{}, newStubSessionManager(), "session-id")

	c, rec := newAuthContext(http.MethodPost, "/users/register", `{"username":"alice"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrDuplicateUsername
		},
	}
	handler := NewAuthHandler(domain.KindAdmin, stub, newStubSessionManager(), "session-id")

	c, rec := newAuthContext(http.MethodPost, "/admins/register",
		`{"username":"bob","password":"p","firstname":"B","lastname":"O"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["success"] != false || resp["status"] != "Admin Registration failed!" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, kind domain.PrincipalKind, username, password string) (*ports.AuthResult, error) {
			if kind != domain.KindUser || username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s %s", kind, username, password)
			}
			return &ports.AuthResult{
				Token:     "tok-2",
				Principal: &domain.Principal{ID: "p1", Kind: domain.KindUser, Username: "alice"},
			}, nil
		},
	}
	handler := NewAuthHandler(domain.KindUser, stub, newStubSessionManager(), "session-id")

	c, rec := newAuthContext(http.MethodPost, "/users/login", `{"username":"alice","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["token"] != "tok-2" || resp["status"] != "User is successfully logged in!" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, domain.PrincipalKind, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(domain.KindUser, stub, newStubSessionManager(), "session-id")

	c, rec := newAuthContext(http.MethodPost, "/users/login", `{"username":"alice","password":"wrong"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["success"] != false || resp["status"] != "Login failed: invalid credentials" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_FacebookToken_Success(t *testing.T) {
	stub := &stubAuthService{
		federatedFn: func(_ context.Context, kind domain.PrincipalKind, accessToken string) (*ports.AuthResult, error) {
			if accessToken != "fb-token" {
				t.Fatalf("unexpected access token %q", accessToken)
			}
			return &ports.AuthResult{
				Token:     "tok-3",
				Principal: &domain.Principal{ID: "p2", Kind: kind, Username: "Frank Ocean", Firstname: "Frank"},
			}, nil
		},
	}
	handler := NewAuthHandler(domain.KindUser, stub, newStubSessionManager(), "session-id")

	c, rec := newAuthContext(http.MethodGet, "/users/facebook/token?access_token=fb-token", "")
	if err := handler.FacebookToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["token"] != "tok-3" || resp["status"] != "Frank is successfully logged in!" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_FacebookToken_FromHeader(t *testing.T) {
	stub := &stubAuthService{
		federatedFn: func(_ context.Context, _ domain.PrincipalKind, accessToken string) (*ports.AuthResult, error) {
			if accessToken != "header-token" {
				t.Fatalf("unexpected access token %q", accessToken)
			}
			return &ports.AuthResult{
				Token:     "tok-4",
				Principal: &domain.Principal{ID: "p3", Kind: domain.KindUser, Firstname: "Grace"},
			}, nil
		},
	}
	handler := NewAuthHandler(domain.KindUser, stub, newStubSessionManager(), "session-id")

	c, rec := newAuthContext(http.MethodGet, "/users/facebook/token", "")
	c.Request().Header.Set("Authorization", "Bearer header-token")
	if err := handler.FacebookToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_FacebookToken_Rejected(t *testing.T) {
	stub := &stubAuthService{
		federatedFn: func(context.Context, domain.PrincipalKind, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(domain.KindUser, stub, newStubSessionManager(), "session-id")

	c, rec := newAuthContext(http.MethodGet, "/users/facebook/token?access_token=bad", "")
	if err := handler.FacebookToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["status"] != "Facebook authentication failed!" {
		t.Fatalf("unexpected status: %v", resp["status"])
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	sessions := newStubSessionManager()
	sid, _ := sessions.Create(context.Background(), "p1", domain.KindUser)
	handler := NewAuthHandler(domain.KindUser, &stubAuthService{}, sessions, "session-id")

	c, rec := newAuthContext(http.MethodGet, "/users/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: "session-id", Value: sid})
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["status"] != "User is successfully logged out!" {
		t.Fatalf("unexpected status: %v", resp["status"])
	}

	// The cookie is cleared even when the session no longer exists.
	cookie := rec.Header().Get(echo.HeaderSetCookie)
	if !strings.Contains(cookie, "session-id=;") && !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("expected cleared session cookie, got %q", cookie)
	}

	// A second logout is still a 200, only the message changes.
	c2, rec2 := newAuthContext(http.MethodGet, "/users/logout", "")
	c2.Request().AddCookie(&http.Cookie{Name: "session-id", Value: sid})
	if err := handler.Logout(c2); err != nil {
		t.Fatalf("second logout error: %v", err)
	}
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat logout, got %d", rec2.Code)
	}
	resp2 := decodeBody(t, rec2)
	if resp2["status"] != "User is not logged in!" {
		t.Fatalf("unexpected status: %v", resp2["status"])
	}
}

func TestAuthHandler_Logout_NoCookie(t *testing.T) {
	handler := NewAuthHandler(domain.KindAdmin, &stubAuthService{}, newStubSessionManager(), "session-id")

	c, rec := newAuthContext(http.MethodGet, "/admins/logout", "")
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["status"] != "Admin is not logged in!" {
		t.Fatalf("unexpected status: %v", resp["status"])
	}
}

func TestAuthHandler_CheckToken_Valid(t *testing.T) {
	stub := &stubAuthService{
		verifyFn: func(_ context.Context, kind domain.PrincipalKind, token string) (*domain.Principal, error) {
			if kind != domain.KindUser || token != "tok-5" {
				t.Fatalf("unexpected args: %s %s", kind, token)
			}
			return &domain.Principal{ID: "p1", Kind: kind, Username: "alice"}, nil
		},
	}
	handler := NewAuthHandler(domain.KindUser, stub, newStubSessionManager(), "session-id")

	c, rec := newAuthContext(http.MethodGet, "/users/checkJWTtoken", "")
	c.Request().Header.Set("Authorization", "Bearer tok-5")
	if err := handler.CheckToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["success"] != true || resp["status"] != "JWT valid!" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["user"].(map[string]any); !ok {
		t.Fatalf("expected user in payload: %+v", resp)
	}
}

func TestAuthHandler_CheckToken_Invalid(t *testing.T) {
	stub := &stubAuthService{
		verifyFn: func(context.Context, domain.PrincipalKind, string) (*domain.Principal, error) {
			return nil, domain.ErrTokenInvalid
		},
	}
	handler := NewAuthHandler(domain.KindUser, stub, newStubSessionManager(), "session-id")

	c, rec := newAuthContext(http.MethodGet, "/users/checkJWTtoken", "")
	c.Request().Header.Set("Authorization", "Bearer nonsense")
	if err := handler.CheckToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	// Validity is reported in the payload, never as an error status.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["success"] != false || resp["status"] != "JWT invalid!" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["user"]; ok {
		t.Fatalf("expected no user in payload: %+v", resp)
	}
}

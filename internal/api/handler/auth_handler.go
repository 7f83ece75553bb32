package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/assignhub/assignment-portal/internal/api/metrics"
	"github.com/assignhub/assignment-portal/internal/core/domain"
	"github.com/assignhub/assignment-portal/internal/core/ports"
)

// AuthHandler serves one of the two parallel auth surfaces (/users, /admins).
// The same handler code runs for both; only the kind differs.
type AuthHandler struct {
	kind       domain.PrincipalKind
	auth       ports.AuthService
	sessions   ports.SessionManager
	cookieName string
}

func NewAuthHandler(kind domain.PrincipalKind, auth ports.AuthService, sessions ports.SessionManager, cookieName string) *AuthHandler {
	return &AuthHandler{kind: kind, auth: auth, sessions: sessions, cookieName: cookieName}
}

// label renders the kind the way response statuses spell it.
func (h *AuthHandler) label() string {
	if h.kind == domain.KindAdmin {
		return "Admin"
	}
	return "User"
}

// Register creates a new principal and logs it in.
//
// @Summary      Register a new user or admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  authResponse
// @Router       /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	res, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Kind:      h.kind,
		Username:  req.Username,
		Password:  req.Password,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return c.JSON(http.StatusUnauthorized, authResponse{
				Success: false,
				Status:  h.label() + " Registration failed!",
			})
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(h.kind), "local").Inc()
	h.startSession(c, res.Principal)

	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Token:   res.Token,
		Status:  h.label() + " Registration Successful!",
	})
}

// Login authenticates local credentials and returns a bearer token.
//
// @Summary      Login with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  authResponse
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	res, err := h.auth.Login(c.Request().Context(), h.kind, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthAttemptsTotal.WithLabelValues(string(h.kind), "local", "failure").Inc()
			return c.JSON(http.StatusUnauthorized, authResponse{
				Success: false,
				Status:  "Login failed: invalid credentials",
			})
		}
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues(string(h.kind), "local", "success").Inc()
	h.startSession(c, res.Principal)

	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Token:   res.Token,
		Status:  h.label() + " is successfully logged in!",
	})
}

// FacebookToken exchanges a Facebook access token for a portal bearer token,
// creating the account on first login.
//
// @Summary      Login with a Facebook access token
// @Tags         auth
// @Produce      json
// @Param        access_token  query     string  false  "Facebook access token (alternatively via Authorization header)"
// @Success      200           {object}  authResponse
// @Failure      401           {object}  authResponse
// @Router       /users/facebook/token [get]
func (h *AuthHandler) FacebookToken(c echo.Context) error {
	accessToken := c.QueryParam("access_token")
	if accessToken == "" {
		accessToken = bearerFromHeader(c)
	}

	res, err := h.auth.FederatedLogin(c.Request().Context(), h.kind, accessToken)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthAttemptsTotal.WithLabelValues(string(h.kind), "facebook", "failure").Inc()
			return c.JSON(http.StatusUnauthorized, authResponse{
				Success: false,
				Status:  "Facebook authentication failed!",
			})
		}
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues(string(h.kind), "facebook", "success").Inc()
	h.startSession(c, res.Principal)

	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Token:   res.Token,
		Status:  res.Principal.Firstname + " is successfully logged in!",
	})
}

// Logout destroys the cookie session. It is idempotent: logging out without
// a session still returns 200, only the status message differs.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Router       /users/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	var existed bool
	if cookie, err := c.Cookie(h.cookieName); err == nil {
		destroyed, err := h.sessions.Destroy(c.Request().Context(), cookie.Value)
		if err != nil {
			return err
		}
		existed = destroyed
	}
	h.clearSessionCookie(c)

	status := h.label() + " is not logged in!"
	result := "absent"
	if existed {
		status = h.label() + " is successfully logged out!"
		result = "destroyed"
	}
	metrics.SessionsDestroyedTotal.WithLabelValues(result).Inc()

	return c.JSON(http.StatusOK, authResponse{Success: true, Status: status})
}

// CheckToken reports whether the presented bearer token is valid for this
// surface. Always responds 200; validity is in the payload.
//
// @Summary      Check a bearer token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  checkTokenResponse
// @Router       /users/checkJWTtoken [get]
func (h *AuthHandler) CheckToken(c echo.Context) error {
	token := bearerFromHeader(c)

	p, err := h.auth.VerifyToken(c.Request().Context(), h.kind, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) || errors.Is(err, domain.ErrTokenInvalid) {
			metrics.AuthAttemptsTotal.WithLabelValues(string(h.kind), "jwt", "failure").Inc()
			return c.JSON(http.StatusOK, checkTokenResponse{Success: false, Status: "JWT invalid!"})
		}
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues(string(h.kind), "jwt", "success").Inc()
	return c.JSON(http.StatusOK, checkTokenResponse{Success: true, Status: "JWT valid!", User: p})
}

// startSession opens a cookie session alongside the bearer token for
// browser clients. A session store failure downgrades to token-only login
// rather than failing the request.
func (h *AuthHandler) startSession(c echo.Context, p *domain.Principal) {
	sid, err := h.sessions.Create(c.Request().Context(), p.ID, p.Kind)
	if err != nil {
		c.Logger().Warnf("session create failed: %v", err)
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// bearerFromHeader returns the Authorization bearer token, or "" when the
// header is missing or malformed.
func bearerFromHeader(c echo.Context) string {
	parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

// principalFromCtx extracts the principal injected by the Auth middleware and
// fast-fails before any service call when the middleware did not run.
func principalFromCtx(c echo.Context) (*domain.Principal, error) {
	p, _ := c.Get("principal").(*domain.Principal)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Secure redirects plain-HTTP requests to the HTTPS address with a 301.
// Requests arriving over TLS, or through a proxy that sets
// X-Forwarded-Proto: https, pass through untouched.
func Secure(securePort string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.TLS != nil || strings.EqualFold(req.Header.Get(echo.HeaderXForwardedProto), "https") {
				return next(c)
			}

			host := req.Host
			if h, _, err := net.SplitHostPort(host); err == nil {
				host = h
			}
			target := "https://" + host
			if securePort != "" && securePort != "443" {
				target += ":" + securePort
			}
			return c.Redirect(http.StatusMovedPermanently, target+req.RequestURI)
		}
	}
}

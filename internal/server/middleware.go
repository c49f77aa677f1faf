package server

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Aladin-0/RM-Backend/internal/domain"
	apperrors "github.com/Aladin-0/RM-Backend/internal/errors"
)

const identityContextKey = "identity"

// requireStaff authenticates the bearer token and stores the resolved
// identity on the request context.
func (s *Server) requireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return apperrors.ForbiddenError("authentication required")
			}

			identity, err := s.auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(identityContextKey, *identity)
			c.Set("staffID", identity.ID.String())
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	for _, scheme := range []string{"Bearer ", "Token "} {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}

func identityFrom(c echo.Context) domain.Identity {
	identity, _ := c.Get(identityContextKey).(domain.Identity)
	return identity
}

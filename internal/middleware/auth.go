package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/postboard/internal/logger"
	"github.com/iliyamo/postboard/internal/model"
	"github.com/iliyamo/postboard/internal/repository"
)

// Context keys set by JWTAuth.
const (
	userKey   = "user"
	userIDKey = "user_id"
)

// TokenVerifier resolves a raw bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(raw string) (uint64, error)
}

// UserLoader fetches the account behind a verified token.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// JWTAuth is the authorization guard for protected routes.  It reads the
// bearer token, verifies it and loads the user it names.  A missing header,
// a bad or expired token and a user that no longer exists all end the
// request with 401 and a Bearer challenge.  On success the user is
// available to handlers through CurrentUser.
func JWTAuth(tokens TokenVerifier, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return Unauthorized(c)
			}
			uid, err := tokens.Verify(raw)
			if err != nil {
				return Unauthorized(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, uid)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return Unauthorized(c)
				}
				logger.Error.Printf("auth: load user %d: %v", uid, err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal server error"})
			}

			c.Set(userKey, u)
			c.Set(userIDKey, strconv.FormatUint(u.ID, 10))
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by JWTAuth.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok
}

// Unauthorized writes the authentication failure response.
func Unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "could not validate credentials"})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// requesterID identifies the caller for rate limiting: the authenticated
// user id when JWTAuth already ran, "anon" otherwise.
func requesterID(c echo.Context) string {
	if s, ok := c.Get(userIDKey).(string); ok && s != "" {
		return s
	}
	return "anon"
}

package handler // handler defines the login endpoint

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/postboard/internal/repository"
)

// AuthHandler exchanges credentials for an access token.
type AuthHandler struct {
	Users  UserStore
	Hasher PasswordHasher
	Tokens TokenIssuer
}

func NewAuthHandler(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{Users: users, Hasher: hasher, Tokens: tokens}
}

// loginReq accepts the OAuth2 password form (username, password) as either
// form fields or JSON.  username holds the email.
type loginReq struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// Login verifies the credentials and issues a bearer token.  An unknown
// email and a wrong password produce the same 403.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	u, err := h.Users.GetByEmail(ctx, repository.NormalizeEmail(req.Username))
	// Storage failures are 500; a missing user falls through to the 403 below.
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return respondError(c, err)
	}
	if err != nil || !h.Hasher.Verify(req.Password, u.PasswordHash) {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "Invalid Credentials"})
	}

	tok, err := h.Tokens.Issue(u.ID) // signed with the configured secret and TTL
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tokenOut{AccessToken: tok.Token, TokenType: "bearer", ExpiresAt: tok.Exp})
}

// Package handler implements the HTTP endpoints.  Handlers depend on the
// small store interfaces below rather than on concrete repositories.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/postboard/internal/auth"
	"github.com/iliyamo/postboard/internal/middleware"
	"github.com/iliyamo/postboard/internal/model"
	"github.com/iliyamo/postboard/internal/queue"
)

// dbTimeout bounds the storage work of a single request.
const dbTimeout = 5 * time.Second

type UserStore interface {
	Create(ctx context.Context, email, passwordHash string, phone *string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, error)
}

type PostStore interface {
	Create(ctx context.Context, ownerID uint64, title, content string, published bool) (model.Post, error)
	Get(ctx context.Context, id uint64) (model.PostWithVotes, error)
	Latest(ctx context.Context) (model.PostWithVotes, error)
	ListWithVoteCounts(ctx context.Context, q model.PostListQuery) ([]model.PostWithVotes, error)
	Update(ctx context.Context, id, callerID uint64, f model.PostFields) (model.Post, error)
	Delete(ctx context.Context, id, callerID uint64) error
}

type VoteStore interface {
	Apply(ctx context.Context, postID, userID uint64, dir model.VoteDirection) error
}

// PasswordHasher hashes and checks passwords; auth.PasswordHasher satisfies it.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer mints access tokens; *auth.TokenService satisfies it.
type TokenIssuer interface {
	Issue(userID uint64) (auth.AccessToken, error)
}

// EventPublisher receives activity events after successful writes.  It must
// not fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent)
}

type noEvents struct{}

func (noEvents) Publish(context.Context, queue.ActivityEvent) {}

func orNoEvents(p EventPublisher) EventPublisher {
	if p == nil {
		return noEvents{}
	}
	return p
}

// caller returns the authenticated user placed in the context by the guard.
func caller(c echo.Context) (model.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return model.User{}, errNoCaller
	}
	return u, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, invalidInput("id: value is not a valid positive integer")
	}
	return id, nil
}

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

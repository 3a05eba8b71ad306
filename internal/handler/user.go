package handler // handler defines the HTTP handlers for users

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/postboard/internal/queue"
	"github.com/iliyamo/postboard/internal/repository"
)

// UserHandler serves registration and user reads.
type UserHandler struct {
	Users  UserStore
	Hasher PasswordHasher
	Events EventPublisher
}

func NewUserHandler(users UserStore, hasher PasswordHasher, events EventPublisher) *UserHandler {
	return &UserHandler{Users: users, Hasher: hasher, Events: orNoEvents(events)}
}

type registerReq struct {
	Email       string  `json:"email" validate:"required,email,max=255"`
	Password    string  `json:"password" validate:"required"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,e164"`
}

type listUsersQuery struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}

// Register creates an account.  A taken email is rejected with 422.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	email := repository.NormalizeEmail(req.Email) // stored lower-cased so lookups ignore case

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			err = invalidInput("password: must be at most 72 bytes")
		}
		return respondError(c, err)
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	// The unique index on email decides concurrent registrations.
	u, err := h.Users.Create(ctx, email, hash, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			err = withDetail(err, "user with email: %s already exist", email)
		}
		return respondError(c, err)
	}

	h.Events.Publish(ctx, queue.ActivityEvent{Type: queue.UserRegistered, UserID: u.ID})
	return c.JSON(http.StatusCreated, newUserOut(u)) // never echoes the password hash
}

// List returns one page of users in id order.
func (h *UserHandler) List(c echo.Context) error {
	q := listUsersQuery{Limit: 10}
	if err := bind(c, &q); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	users, err := h.Users.List(ctx, q.Limit, q.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]userOut, 0, len(users))
	for _, u := range users {
		out = append(out, newUserOut(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single user by id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			err = withDetail(err, "user with id: %d does not exist", id)
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newUserOut(u))
}

// Me returns the authenticated caller.
func (h *UserHandler) Me(c echo.Context) error {
	u, err := caller(c) // loaded by the guard, no extra query needed
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newUserOut(u))
}

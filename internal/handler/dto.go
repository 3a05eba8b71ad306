package handler

import (
	"time"

	"github.com/iliyamo/postboard/internal/model"
)

type userOut struct {
	ID          uint64    `json:"id"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newUserOut(u model.User) userOut {
	return userOut{ID: u.ID, Email: u.Email, PhoneNumber: u.PhoneNumber, CreatedAt: u.CreatedAt}
}

type postOut struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	UserID    uint64    `json:"user_id"`
	User      *userOut  `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newPostOut(p model.Post) postOut {
	out := postOut{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		UserID:    p.OwnerID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Owner != nil {
		u := newUserOut(*p.Owner)
		out.User = &u
	}
	return out
}

// postVotesOut keeps the capitalised "Post" key existing clients read.
type postVotesOut struct {
	Post  postOut `json:"Post"`
	Votes int64   `json:"votes"`
}

func newPostVotesOut(pv model.PostWithVotes) postVotesOut {
	return postVotesOut{Post: newPostOut(pv.Post), Votes: pv.Votes}
}

type tokenOut struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type messageOut struct {
	Message string `json:"message"`
}

package handler // handler defines the HTTP handler for voting

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/postboard/internal/model"
	"github.com/iliyamo/postboard/internal/queue"
	"github.com/iliyamo/postboard/internal/repository"
)

// VoteHandler bundles the vote store and the activity publisher.
type VoteHandler struct {
	Votes  VoteStore
	Events EventPublisher
}

func NewVoteHandler(votes VoteStore, events EventPublisher) *VoteHandler {
	return &VoteHandler{Votes: votes, Events: orNoEvents(events)}
}

type voteReq struct {
	PostID uint64 `json:"post_id" validate:"required,gt=0"`
	Dir    *int   `json:"dir" validate:"required,oneof=0 1"` // pointer so a missing dir differs from 0
}

// Vote adds (dir=1) or removes (dir=0) the caller's vote on a post.  Adding
// twice is a 409 and removing a missing vote is a 404.
func (h *VoteHandler) Vote(c echo.Context) error {
	u, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	var req voteReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	// The validator already limits dir to 0 or 1; parsing turns it into the enum.
	dir, err := model.ParseVoteDirection(*req.Dir)
	if err != nil {
		return respondError(c, invalidInput("dir: "+err.Error()))
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Votes.Apply(ctx, req.PostID, u.ID, dir); err != nil {
		// Attach the client-facing message; respondError still picks the status.
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			err = postNotFound(err, req.PostID)
		case errors.Is(err, repository.ErrVoteNotFound):
			err = withDetail(err, "vote does not exist")
		case errors.Is(err, repository.ErrConflict):
			err = withDetail(err, "user %d has already voted on post %d", u.ID, req.PostID)
		}
		return respondError(c, err)
	}

	ev := queue.ActivityEvent{Type: queue.VoteAdded, UserID: u.ID, PostID: req.PostID}
	msg := "successfully added vote"
	if dir == model.RemoveVote {
		ev.Type = queue.VoteRemoved
		msg = "successfully deleted vote"
	}
	h.Events.Publish(ctx, ev)
	return c.JSON(http.StatusCreated, messageOut{Message: msg})
}

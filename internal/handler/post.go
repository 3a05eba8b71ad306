package handler // handler defines the HTTP handlers for posts

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/postboard/internal/model"
	"github.com/iliyamo/postboard/internal/queue"
	"github.com/iliyamo/postboard/internal/repository"
)

// PostHandler serves the post resource.  Every route sits behind the guard.
type PostHandler struct {
	Posts  PostStore
	Events EventPublisher
}

func NewPostHandler(posts PostStore, events EventPublisher) *PostHandler {
	return &PostHandler{Posts: posts, Events: orNoEvents(events)}
}

type listPostsQuery struct {
	Limit  int    `query:"limit" validate:"gte=0,lte=100"`
	Offset int    `query:"offset" validate:"gte=0"`
	Search string `query:"search" validate:"max=255"`
}

type createPostReq struct {
	Title     string `json:"title" validate:"required,max=255"`
	Content   string `json:"content" validate:"required"`
	Published *bool  `json:"published"`
}

type patchPostReq struct {
	Title     *string `json:"title" validate:"omitnil,min=1,max=255"`
	Content   *string `json:"content" validate:"omitnil,min=1"`
	Published *bool   `json:"published"`
}

func postNotFound(err error, id uint64) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return withDetail(err, "post with id: %d does not exist", id)
	}
	return err
}

// List returns a page of posts whose title contains ?search, with vote counts.
func (h *PostHandler) List(c echo.Context) error {
	q := listPostsQuery{Limit: 10} // defaults survive when the query omits them
	if err := bind(c, &q); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	// Vote counts come from the same query; posts without votes report 0.
	posts, err := h.Posts.ListWithVoteCounts(ctx, model.PostListQuery{Limit: q.Limit, Offset: q.Offset, Search: q.Search})
	if err != nil {
		return respondError(c, err)
	}
	out := make([]postVotesOut, 0, len(posts)) // never null in JSON, even for an empty page
	for _, pv := range posts {
		out = append(out, newPostVotesOut(pv))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	pv, err := h.Posts.Get(ctx, id)
	if err != nil {
		return respondError(c, postNotFound(err, id))
	}
	return c.JSON(http.StatusOK, newPostVotesOut(pv))
}

// Latest returns the most recently created post.
func (h *PostHandler) Latest(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	pv, err := h.Posts.Latest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			err = withDetail(err, "there are no posts yet")
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newPostVotesOut(pv))
}

// Create stores a post owned by the caller.  published defaults to true.
func (h *PostHandler) Create(c echo.Context) error {
	u, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	var req createPostReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	published := true // posts are published unless the client says otherwise
	if req.Published != nil {
		published = *req.Published
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	// The owner is always the caller; the body cannot choose another user.
	p, err := h.Posts.Create(ctx, u.ID, req.Title, req.Content, published)
	if err != nil {
		return respondError(c, err)
	}
	h.Events.Publish(ctx, queue.ActivityEvent{Type: queue.PostCreated, UserID: u.ID, PostID: p.ID, Title: p.Title})
	return c.JSON(http.StatusCreated, newPostOut(p))
}

// Replace overwrites title and content (and published, defaulting to true).
func (h *PostHandler) Replace(c echo.Context) error {
	var req createPostReq
	return h.update(c, &req, func() model.PostFields {
		published := true
		if req.Published != nil {
			published = *req.Published
		}
		return model.PostFields{Title: &req.Title, Content: &req.Content, Published: &published}
	})
}

// Patch overwrites only the fields present in the body.
func (h *PostHandler) Patch(c echo.Context) error {
	var req patchPostReq
	return h.update(c, &req, func() model.PostFields {
		return model.PostFields{Title: req.Title, Content: req.Content, Published: req.Published}
	})
}

func (h *PostHandler) update(c echo.Context, req any, fields func() model.PostFields) error {
	u, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := bind(c, req); err != nil {
		return respondError(c, err)
	}
	f := fields() // read the bound request only after bind has filled it
	if f.Empty() {
		return respondError(c, invalidInput("at least one of title, content, published is required"))
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	// The repository checks ownership and writes under one row lock.
	p, err := h.Posts.Update(ctx, id, u.ID, f)
	if err != nil {
		return respondError(c, postNotFound(err, id))
	}
	h.Events.Publish(ctx, queue.ActivityEvent{Type: queue.PostUpdated, UserID: u.ID, PostID: p.ID, Title: p.Title})
	return c.JSON(http.StatusOK, newPostOut(p))
}

// Delete removes a post owned by the caller, together with its votes.
func (h *PostHandler) Delete(c echo.Context) error {
	u, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Posts.Delete(ctx, id, u.ID); err != nil {
		return respondError(c, postNotFound(err, id))
	}
	h.Events.Publish(ctx, queue.ActivityEvent{Type: queue.PostDeleted, UserID: u.ID, PostID: id}) // best effort
	return c.NoContent(http.StatusNoContent)
}

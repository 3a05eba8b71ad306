// Package queue defines the activity events exchanged over RabbitMQ and the
// consumer that records them.
package queue

import (
	"fmt"
	"strings"
	"time"
)

// Activity event types.
const (
	UserRegistered = "user.registered"
	PostCreated    = "post.created"
	PostUpdated    = "post.updated"
	PostDeleted    = "post.deleted"
	VoteAdded      = "vote.added"
	VoteRemoved    = "vote.removed"
)

// ActivityEvent is published after a successful write.  Consumers only log
// it, so it carries identifiers rather than full records.
type ActivityEvent struct {
	Type       string    `json:"type"`
	UserID     uint64    `json:"user_id"`
	PostID     uint64    `json:"post_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Line renders the event as a single log line without a trailing newline.
func (ev ActivityEvent) Line() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | user_id=%d", ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.UserID)
	if ev.PostID != 0 {
		fmt.Fprintf(&b, " | post_id=%d", ev.PostID)
	}
	if ev.Title != "" {
		fmt.Fprintf(&b, " | title=%q", ev.Title)
	}
	return b.String()
}

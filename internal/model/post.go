package model

import "time"

// Post is a row of the `posts` table.  Every post is owned by exactly one
// user; deleting the owner deletes the post.
type Post struct {
	ID        uint64
	OwnerID   uint64 // posts.user_id
	Title     string
	Content   string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Owner is populated by reads that join the users table.
	Owner *User
}

// PostWithVotes pairs a post with the number of votes it has received.
type PostWithVotes struct {
	Post  Post
	Votes int64
}

// PostFields carries the columns an update may overwrite.  Nil fields are left
// untouched.
type PostFields struct {
	Title     *string
	Content   *string
	Published *bool
}

// Empty reports whether no field is set.
func (f PostFields) Empty() bool {
	return f.Title == nil && f.Content == nil && f.Published == nil
}

// PostListQuery holds pagination and the title substring filter for listings.
// An empty Search matches every post.
type PostListQuery struct {
	Limit  int
	Offset int
	Search string
}

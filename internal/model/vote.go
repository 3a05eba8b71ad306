package model

import "fmt"

// Vote is the membership row of the `votes` table.  Its presence means the
// user has voted for the post; (UserID, PostID) is the primary key.
type Vote struct {
	UserID uint64
	PostID uint64
}

// VoteDirection is what a voter asks for: add a vote or take it back.
type VoteDirection uint8

const (
	RemoveVote VoteDirection = 0
	Upvote     VoteDirection = 1
)

// ParseVoteDirection converts the wire value of the `dir` field.
func ParseVoteDirection(dir int) (VoteDirection, error) {
	switch dir {
	case 0:
		return RemoveVote, nil
	case 1:
		return Upvote, nil
	}
	return 0, fmt.Errorf("invalid vote direction %d", dir)
}

func (d VoteDirection) String() string {
	switch d {
	case Upvote:
		return "up"
	case RemoveVote:
		return "remove"
	}
	return fmt.Sprintf("VoteDirection(%d)", uint8(d))
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/postboard/internal/model"
)

// VoteRepo toggles the (user, post) membership rows of the `votes` table.
type VoteRepo struct{ db *sql.DB }

func NewVoteRepo(db *sql.DB) *VoteRepo { return &VoteRepo{db: db} }

// Apply moves the (postID, userID) pair between its two states.
//
//	NotVoted --Upvote-->     Voted     (ErrConflict if already Voted)
//	Voted    --RemoveVote--> NotVoted  (ErrVoteNotFound if already NotVoted)
//
// ErrPostNotFound is returned when the post does not exist.  Uniqueness is
// enforced by the composite primary key, not by reading before writing.
func (r *VoteRepo) Apply(ctx context.Context, postID, userID uint64, dir model.VoteDirection) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM posts WHERE id = ? LOCK IN SHARE MODE", postID).Scan(&one)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPostNotFound
			}
			return err
		}

		switch dir {
		case model.Upvote:
			_, err := tx.ExecContext(ctx, "INSERT INTO votes (user_id, post_id) VALUES (?, ?)", userID, postID)
			switch {
			case isDuplicate(err):
				return ErrConflict
			case isMissingParent(err):
				return ErrPostNotFound
			}
			return err
		case model.RemoveVote:
			res, err := tx.ExecContext(ctx, "DELETE FROM votes WHERE user_id = ? AND post_id = ?", userID, postID)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n == 0 {
				return ErrVoteNotFound
			}
			return nil
		}
		return errors.New("unknown vote direction " + dir.String())
	})
}

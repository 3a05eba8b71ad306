package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/postboard/internal/model"
)

// postWithVotesSelect reads a post, its owner and the number of votes.  The
// LEFT JOIN keeps posts without votes; COUNT(v.post_id) reports 0 for them.
const postWithVotesSelect = `SELECT
		p.id, p.title, p.content, p.published, p.user_id, p.created_at, p.updated_at,
		u.id, u.email, u.phone_number, u.created_at, u.updated_at,
		COUNT(v.post_id) AS votes
	FROM posts p
	JOIN users u ON u.id = p.user_id
	LEFT JOIN votes v ON v.post_id = p.id`

const postWithVotesGroup = ` GROUP BY p.id, u.id`

// PostRepo encapsulates all database queries related to posts.
type PostRepo struct {
	db *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{db: db} }

// Create inserts a post owned by ownerID and returns the stored row.
func (r *PostRepo) Create(ctx context.Context, ownerID uint64, title, content string, published bool) (model.Post, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO posts (title, content, published, user_id) VALUES (?, ?, ?, ?)",
		title, content, published, ownerID)
	if err != nil {
		if isMissingParent(err) {
			return model.Post{}, ErrUserNotFound
		}
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, err
	}
	pv, err := r.Get(ctx, uint64(id))
	if err != nil {
		return model.Post{}, err
	}
	return pv.Post, nil
}

// Get fetches a post with its vote count.  It returns ErrPostNotFound if no
// row is found.
func (r *PostRepo) Get(ctx context.Context, id uint64) (model.PostWithVotes, error) {
	row := r.db.QueryRowContext(ctx, postWithVotesSelect+" WHERE p.id = ?"+postWithVotesGroup, id)
	return scanPostWithVotes(row)
}

// Latest returns the most recently created post.
func (r *PostRepo) Latest(ctx context.Context) (model.PostWithVotes, error) {
	row := r.db.QueryRowContext(ctx,
		postWithVotesSelect+postWithVotesGroup+" ORDER BY p.created_at DESC, p.id DESC LIMIT 1")
	return scanPostWithVotes(row)
}

// ListWithVoteCounts returns one page of posts in creation order whose title
// contains q.Search, each with its vote count.
func (r *PostRepo) ListWithVoteCounts(ctx context.Context, q model.PostListQuery) ([]model.PostWithVotes, error) {
	query := postWithVotesSelect + ` WHERE p.title LIKE ?` + postWithVotesGroup + ` ORDER BY p.id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, "%"+escapeLike(q.Search)+"%", q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PostWithVotes, 0, q.Limit)
	for rows.Next() {
		pv, err := scanPostWithVotes(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the provided fields of a post owned by callerID.  It
// returns ErrPostNotFound when the post does not exist and ErrForbidden when
// it belongs to another user.  The ownership check and the write share one
// transaction with the row locked.
func (r *PostRepo) Update(ctx context.Context, id, callerID uint64, f model.PostFields) (model.Post, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, id, callerID); err != nil {
			return err
		}
		sets := []string{"updated_at = CURRENT_TIMESTAMP"}
		args := []any{}
		if f.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, *f.Title)
		}
		if f.Content != nil {
			sets = append(sets, "content = ?")
			args = append(args, *f.Content)
		}
		if f.Published != nil {
			sets = append(sets, "published = ?")
			args = append(args, *f.Published)
		}
		args = append(args, id)
		_, err := tx.ExecContext(ctx, "UPDATE posts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		return err
	})
	if err != nil {
		return model.Post{}, err
	}
	pv, err := r.Get(ctx, id)
	if err != nil {
		return model.Post{}, err
	}
	return pv.Post, nil
}

// Delete removes a post owned by callerID.  Its votes go with it through the
// ON DELETE CASCADE foreign key.
func (r *PostRepo) Delete(ctx context.Context, id, callerID uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, id, callerID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
		return err
	})
}

// checkOwner locks the post row and verifies that callerID owns it.
func checkOwner(ctx context.Context, tx *sql.Tx, id, callerID uint64) error {
	var ownerID uint64
	err := tx.QueryRowContext(ctx, "SELECT user_id FROM posts WHERE id = ? FOR UPDATE", id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}
	if ownerID != callerID {
		return ErrForbidden
	}
	return nil
}

func scanPostWithVotes(s rowScanner) (model.PostWithVotes, error) {
	var (
		pv    model.PostWithVotes
		owner model.User
		phone sql.NullString
	)
	p := &pv.Post
	err := s.Scan(
		&p.ID, &p.Title, &p.Content, &p.Published, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt,
		&owner.ID, &owner.Email, &phone, &owner.CreatedAt, &owner.UpdatedAt,
		&pv.Votes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PostWithVotes{}, ErrPostNotFound
		}
		return model.PostWithVotes{}, err
	}
	if phone.Valid {
		owner.PhoneNumber = &phone.String
	}
	p.Owner = &owner
	return pv, nil
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

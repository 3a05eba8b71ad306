package router

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/postboard/internal/model"
	"github.com/iliyamo/postboard/internal/queue"
	"github.com/iliyamo/postboard/internal/repository"
)

// memDB mirrors the MySQL repositories' observable behavior in memory.
type memDB struct {
	mu       sync.Mutex
	clock    time.Time
	users    []model.User
	posts    map[uint64]*model.Post
	nextPost uint64
	votes    map[model.Vote]bool
}

func newMemDB() *memDB {
	return &memDB{
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		posts: map[uint64]*model.Post{},
		votes: map[model.Vote]bool{},
	}
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) user(id uint64) (model.User, bool) {
	if id == 0 || id > uint64(len(db.users)) {
		return model.User{}, false
	}
	return db.users[id-1], true
}

func (db *memDB) withVotes(p *model.Post) model.PostWithVotes {
	cp := *p
	owner, _ := db.user(p.OwnerID)
	cp.Owner = &owner
	var n int64
	for v := range db.votes {
		if v.PostID == p.ID {
			n++
		}
	}
	return model.PostWithVotes{Post: cp, Votes: n}
}

type memUsers struct{ db *memDB }

func (s memUsers) Create(_ context.Context, email, hash string, phone *string) (model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	email = repository.NormalizeEmail(email)
	for _, u := range s.db.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	now := s.db.tick()
	u := model.User{ID: uint64(len(s.db.users) + 1), Email: email, PasswordHash: hash, PhoneNumber: phone, CreatedAt: now, UpdatedAt: now}
	s.db.users = append(s.db.users, u)
	return u, nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == repository.NormalizeEmail(email) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.user(id)
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s memUsers) List(_ context.Context, limit, offset int) ([]model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return page(s.db.users, limit, offset), nil
}

type memPosts struct{ db *memDB }

func (s memPosts) Create(_ context.Context, ownerID uint64, title, content string, published bool) (model.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.user(ownerID); !ok {
		return model.Post{}, repository.ErrUserNotFound
	}
	s.db.nextPost++
	now := s.db.tick()
	p := &model.Post{ID: s.db.nextPost, OwnerID: ownerID, Title: title, Content: content, Published: published, CreatedAt: now, UpdatedAt: now}
	s.db.posts[p.ID] = p
	return *p, nil
}

func (s memPosts) Get(_ context.Context, id uint64) (model.PostWithVotes, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.posts[id]
	if !ok {
		return model.PostWithVotes{}, repository.ErrPostNotFound
	}
	return s.db.withVotes(p), nil
}

func (s memPosts) Latest(_ context.Context) (model.PostWithVotes, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var latest *model.Post
	for _, p := range s.db.posts {
		if latest == nil || p.ID > latest.ID {
			latest = p
		}
	}
	if latest == nil {
		return model.PostWithVotes{}, repository.ErrPostNotFound
	}
	return s.db.withVotes(latest), nil
}

func (s memPosts) ListWithVoteCounts(_ context.Context, q model.PostListQuery) ([]model.PostWithVotes, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	ids := make([]uint64, 0, len(s.db.posts))
	for id, p := range s.db.posts {
		if strings.Contains(p.Title, q.Search) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	all := make([]model.PostWithVotes, 0, len(ids))
	for _, id := range ids {
		all = append(all, s.db.withVotes(s.db.posts[id]))
	}
	return page(all, q.Limit, q.Offset), nil
}

func (s memPosts) owned(id, callerID uint64) (*model.Post, error) {
	p, ok := s.db.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	if p.OwnerID != callerID {
		return nil, repository.ErrForbidden
	}
	return p, nil
}

func (s memPosts) Update(_ context.Context, id, callerID uint64, f model.PostFields) (model.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, err := s.owned(id, callerID)
	if err != nil {
		return model.Post{}, err
	}
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Content != nil {
		p.Content = *f.Content
	}
	if f.Published != nil {
		p.Published = *f.Published
	}
	p.UpdatedAt = s.db.tick()
	return s.db.withVotes(p).Post, nil
}

func (s memPosts) Delete(_ context.Context, id, callerID uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, err := s.owned(id, callerID); err != nil {
		return err
	}
	delete(s.db.posts, id)
	for v := range s.db.votes {
		if v.PostID == id {
			delete(s.db.votes, v)
		}
	}
	return nil
}

type memVotes struct{ db *memDB }

func (s memVotes) Apply(_ context.Context, postID, userID uint64, dir model.VoteDirection) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.posts[postID]; !ok {
		return repository.ErrPostNotFound
	}
	key := model.Vote{UserID: userID, PostID: postID}
	switch dir {
	case model.Upvote:
		if s.db.votes[key] {
			return repository.ErrConflict
		}
		s.db.votes[key] = true
	case model.RemoveVote:
		if !s.db.votes[key] {
			return repository.ErrVoteNotFound
		}
		delete(s.db.votes, key)
	}
	return nil
}

type eventLog struct {
	mu    sync.Mutex
	types []string
}

func (l *eventLog) Publish(_ context.Context, ev queue.ActivityEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.types = append(l.types, ev.Type)
}

func (l *eventLog) Types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.types...)
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return append([]T{}, all[offset:end]...)
}

package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessageAppendsLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	c := &Consumer{LogDir: dir}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, ev := range []ActivityEvent{
		{Type: PostCreated, UserID: 1, PostID: 9, Title: "hello", OccurredAt: at},
		{Type: VoteAdded, UserID: 2, PostID: 9, OccurredAt: at},
	} {
		body, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, c.handleMessage(body))
	}

	data, err := os.ReadFile(filepath.Join(dir, ActivityLogName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `[2024-03-01T12:00:00Z] post.created | user_id=1 | post_id=9 | title="hello"`, lines[0])
	assert.Equal(t, `[2024-03-01T12:00:00Z] vote.added | user_id=2 | post_id=9`, lines[1])
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	c := &Consumer{LogDir: t.TempDir()}
	assert.Error(t, c.handleMessage([]byte("not json")))
	assert.Error(t, c.handleMessage([]byte(`{"user_id":1}`)))
}

func TestUserEventLineOmitsPost(t *testing.T) {
	ev := ActivityEvent{Type: UserRegistered, UserID: 3, OccurredAt: time.Unix(0, 0)}
	assert.Equal(t, "[1970-01-01T00:00:00Z] user.registered | user_id=3", ev.Line())
}

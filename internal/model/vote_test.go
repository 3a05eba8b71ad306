package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVoteDirection(t *testing.T) {
	d, err := ParseVoteDirection(1)
	require.NoError(t, err)
	assert.Equal(t, Upvote, d)

	d, err = ParseVoteDirection(0)
	require.NoError(t, err)
	assert.Equal(t, RemoveVote, d)

	for _, bad := range []int{-1, 2, 99} {
		_, err := ParseVoteDirection(bad)
		assert.Error(t, err, "dir=%d", bad)
	}
}

func TestPostFieldsEmpty(t *testing.T) {
	assert.True(t, PostFields{}.Empty())
	title := "x"
	assert.False(t, PostFields{Title: &title}.Empty())
}

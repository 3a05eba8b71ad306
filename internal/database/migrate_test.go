package database

import (
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/postboard/internal/config"
)

var migrationName = regexp.MustCompile(`^(\d{6})_[a-z0-9_]+\.(up|down)\.sql$`)

func TestMigrationsFormALinearChain(t *testing.T) {
	entries, err := fs.ReadDir(Migrations, "migrations")
	require.NoError(t, err)

	steps := map[string]map[string]bool{}
	for _, e := range entries {
		m := migrationName.FindStringSubmatch(e.Name())
		require.NotNil(t, m, "unexpected file %s", e.Name())
		if steps[m[1]] == nil {
			steps[m[1]] = map[string]bool{}
		}
		steps[m[1]][m[2]] = true

		body, err := fs.ReadFile(Migrations, "migrations/"+e.Name())
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(string(body)), e.Name())
	}

	versions := make([]string, 0, len(steps))
	for v, dirs := range steps {
		assert.True(t, dirs["up"] && dirs["down"], "version %s needs up and down", v)
		versions = append(versions, v)
	}
	sort.Strings(versions)
	for i, v := range versions {
		assert.Equal(t, i+1, atoi(v), "versions must be contiguous")
	}
}

func TestVotesHaveCompositePrimaryKey(t *testing.T) {
	body, err := fs.ReadFile(Migrations, "migrations/000006_create_votes_table.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "PRIMARY KEY (user_id, post_id)")
	assert.Contains(t, string(body), "ON DELETE CASCADE")
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DBConfig{User: "app", Pass: "pw", Host: "db", Port: "3306", Name: "postboard"})
	assert.True(t, strings.HasPrefix(dsn, "app:pw@tcp(db:3306)/postboard?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

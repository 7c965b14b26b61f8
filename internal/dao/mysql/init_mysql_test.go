package mysql

import (
	"path/filepath"
	"testing"

	"bsu_chat_server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SqliteAndMigrate(t *testing.T) {
	conf := &config.Config{}
	conf.Driver = "sqlite"
	conf.SqlitePath = filepath.Join(t.TempDir(), "chat.db")

	db, err := Open(conf)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "admin_users", "blocked_users", "reports", "settings"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	conf := &config.Config{}
	conf.Driver = "oracle"
	_, err := Open(conf)
	assert.Error(t, err)
}

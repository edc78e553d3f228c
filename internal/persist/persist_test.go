package persist

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/loophook/internal/config"
)

func TestNewDB_RejectsEmptyDSN(t *testing.T) {
	db, err := NewDB(context.Background(), config.DatabaseConfig{}, nil)
	assert.Nil(t, db)
	assert.ErrorIs(t, err, ErrNoDSN)
}

func TestNewDB_RejectsMalformedDSN(t *testing.T) {
	_, err := NewDB(context.Background(), config.DatabaseConfig{DSN: "postgres://%zz"}, nil)
	assert.ErrorContains(t, err, "journal dsn")
}

func TestMigrationFiles(t *testing.T) {
	files, err := MigrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "migrations/00001_hook_journal.sql", files[0])

	raw, err := migrations.ReadFile(files[0])
	require.NoError(t, err)
	sql := string(raw)
	assert.True(t, strings.HasPrefix(sql, "-- +goose Up"))
	assert.Contains(t, sql, "CREATE TABLE hook_journal")
	assert.Contains(t, sql, "CREATE TABLE frame_stats")
	assert.Contains(t, sql, "-- +goose Down")
}

package db

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDBConnection(":memory:", true, "NORMAL")
	require.NoError(t, err, "OpenDBConnection failed for in-memory DB")
	t.Cleanup(func() { db.Close() })
	return db
}

func checkTableExists(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?;", tableName).Scan(&name)
	if err == sql.ErrNoRows {
		t.Errorf("Table '%s' does not exist, but it should.", tableName)
		return
	}
	require.NoError(t, err)
	assert.Equal(t, tableName, name)
}

func TestUpgradeDB_NewDatabase(t *testing.T) {
	db := openMemoryDB(t)

	require.NoError(t, UpgradeDB(db, ":memory:", TargetSchemaVersion, nil))

	for _, tableName := range []string{"wordcache_versions", "blobs"} {
		checkTableExists(t, db, tableName)
	}

	version, err := GetComponentSchemaVersion(db, BlobStoreComponent)
	require.NoError(t, err)
	assert.Equal(t, TargetSchemaVersion, version)
}

func TestUpgradeDB_AlreadyUpToDate(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, InitializeSchema(db, TargetSchemaVersion))

	require.NoError(t, UpgradeDB(db, ":memory:", TargetSchemaVersion, nil))

	version, err := GetComponentSchemaVersion(db, BlobStoreComponent)
	require.NoError(t, err)
	assert.Equal(t, TargetSchemaVersion, version)
}

func TestUpgradeDB_VersionMismatch(t *testing.T) {
	tests := []struct {
		name      string
		dbVersion int64
		appTarget int64
		wantMsg   string
	}{
		{name: "older database", dbVersion: 1, appTarget: 2, wantMsg: "which is older than application's target schema version 2"},
		{name: "newer database", dbVersion: 2, appTarget: 1, wantMsg: "which is newer than application's target schema version 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openMemoryDB(t)
			require.NoError(t, InitializeSchema(db, tt.dbVersion))

			err := UpgradeDB(db, ":memory:", tt.appTarget, nil)
			require.Error(t, err)

			prefix := fmt.Sprintf("component %s in database ':memory:' has schema version %d", BlobStoreComponent, tt.dbVersion)
			assert.True(t, strings.HasPrefix(err.Error(), prefix), "unexpected error: %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)

			// A refused upgrade leaves the recorded version alone.
			version, err := GetComponentSchemaVersion(db, BlobStoreComponent)
			require.NoError(t, err)
			assert.Equal(t, tt.dbVersion, version)
		})
	}
}

func TestGetComponentSchemaVersion_NoTable(t *testing.T) {
	db := openMemoryDB(t)

	version, err := GetComponentSchemaVersion(db, BlobStoreComponent)
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		wal     bool
		sync    string
		want    []string
		wantErr bool
	}{
		{name: "wal and full", base: "words.db", wal: true, sync: "full", want: []string{"words.db?", "_journal_mode=WAL", "_synchronous=FULL", "_busy_timeout=5000"}},
		{name: "existing query", base: "file:words.db?cache=shared", sync: "NORMAL", want: []string{"cache=shared&", "_synchronous=NORMAL"}},
		{name: "no sync", base: "words.db", want: []string{"words.db?_busy_timeout=5000"}},
		{name: "bad sync", base: "words.db", sync: "SOMETIMES", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := BuildDSN(tt.base, tt.wal, tt.sync)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, part := range tt.want {
				assert.Contains(t, dsn, part)
			}
			if !tt.wal {
				assert.NotContains(t, dsn, "_journal_mode")
			}
		})
	}
}

func TestCloseDBConnection(t *testing.T) {
	db, err := OpenDBConnection(":memory:", false, "")
	require.NoError(t, err)
	assert.NoError(t, CloseDBConnection(db))
	assert.NoError(t, CloseDBConnection(nil))
}

package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// busyTimeoutMillis keeps a CLI invocation from failing while the TUI or MCP
// server holds the write lock for a moment.
const busyTimeoutMillis = 5000

var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

// ValidSyncMode reports whether mode is an accepted value for the synchronous pragma.
func ValidSyncMode(mode string) bool {
	return validSyncModes[strings.ToUpper(mode)]
}

// BuildDSN appends the driver parameters for WAL and the synchronous pragma to baseDSN.
func BuildDSN(baseDSN string, enableWAL bool, syncPragma string) (string, error) {
	params := url.Values{}
	params.Add("_busy_timeout", fmt.Sprint(busyTimeoutMillis))

	if enableWAL {
		params.Add("_journal_mode", "WAL")
	}

	if syncPragma != "" {
		if !ValidSyncMode(syncPragma) {
			return "", fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", syncPragma)
		}
		params.Add("_synchronous", strings.ToUpper(syncPragma))
	}

	separator := "?"
	if strings.Contains(baseDSN, "?") {
		separator = "&"
	}
	return baseDSN + separator + params.Encode(), nil
}

// OpenDBConnection opens and pings the SQLite database at baseDSN.
// enableWAL sets journal_mode=WAL; syncPragma is one of OFF, NORMAL, FULL, EXTRA
// (empty leaves the driver default).
func OpenDBConnection(baseDSN string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	dsn, err := BuildDSN(baseDSN, enableWAL, syncPragma)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", dsn, err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", dsn, err)
	}

	// An in-memory database lives per connection, so keep a single one.
	if strings.HasPrefix(baseDSN, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// CloseDBConnection checkpoints the WAL back into the main file and closes db.
func CloseDBConnection(db *sql.DB) error {
	if db == nil {
		return nil
	}
	// TRUNCATE waits for pending transactions; outside WAL mode it is a no-op.
	if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		db.Close()
		return fmt.Errorf("wal checkpoint failed: %w", err)
	}
	return db.Close()
}

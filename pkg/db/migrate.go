package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// TargetSchemaVersion is the highest blobstore schema version this build supports.
	TargetSchemaVersion int64 = 1
	// BlobStoreComponent names the blob table component in wordcache_versions.
	BlobStoreComponent = "blobstore"
)

// GetComponentSchemaVersion returns the recorded schema version of componentName,
// or 0 when the component or the versions table does not exist yet.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	var version int64
	err := db.QueryRow(`SELECT version FROM wordcache_versions WHERE component = ?;`, componentName).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates all tables and records schemaVersionToSet for the blobstore component.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64) error {
	if _, err := db.Exec(SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	_, err := db.Exec(`
INSERT INTO wordcache_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`,
		BlobStoreComponent, schemaVersionToSet)
	if err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", BlobStoreComponent, schemaVersionToSet, err)
	}
	return nil
}

// UpgradeDB brings the blobstore component in db to appTargetSchemaVersion.
// A fresh database is initialized; older or newer versions are refused since no
// migrations exist yet. dbIdentifier is only used in messages.
func UpgradeDB(db *sql.DB, dbIdentifier string, appTargetSchemaVersion int64, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	currentDBVersion, err := GetComponentSchemaVersion(db, BlobStoreComponent)
	if err != nil {
		return err
	}

	switch {
	case currentDBVersion == 0:
		logger.Info("Initializing database schema",
			zap.String("db", dbIdentifier),
			zap.String("component", BlobStoreComponent),
			zap.Int64("version", appTargetSchemaVersion))
		if err := InitializeSchema(db, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", BlobStoreComponent, dbIdentifier, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		logger.Debug("Database schema up to date",
			zap.String("db", dbIdentifier),
			zap.Int64("version", currentDBVersion))
		return nil
	case currentDBVersion < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", BlobStoreComponent, dbIdentifier, currentDBVersion, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", BlobStoreComponent, dbIdentifier, currentDBVersion, appTargetSchemaVersion)
	}
}

package store

import "errors"

// Sentinel errors returned by store implementations to signal well-known
// failure conditions. Callers should use [errors.Is] to match against these
// values.
var (
	// ErrItemNotFound is returned when a query targets a clipboard item id
	// that does not exist in the database.
	ErrItemNotFound = errors.New("item was not found")

	// ErrItemNotSaved is returned when an upsert completes without error but
	// the number of affected rows is zero, indicating that no data was
	// actually persisted.
	ErrItemNotSaved = errors.New("item was not saved")

	// ErrManifestNotFound is returned by ManifestStore.Load when no manifest
	// has ever been persisted, i.e. no sync pass has completed on this
	// install yet.
	ErrManifestNotFound = errors.New("no persisted manifest")

	// ErrExecutingQuery wraps database errors raised while executing a
	// statement.
	ErrExecutingQuery = errors.New("error executing query")

	// ErrScanningRow wraps database errors raised while scanning a result
	// row into a model.
	ErrScanningRow = errors.New("error scanning row")
)

package leaguedb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested league is not mirrored.
	ErrNotFound = errors.New("league not found")

	// ErrNoRowsAffected indicates a DELETE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)

package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped with %w) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
//   - ErrNotFound: pack, shipment, ledger entry, or batch does not exist
//   - ErrConflict: a row with the same key already exists
//   - ErrInvalidState: entity persisted in a state the operation cannot act on
//   - ErrUnavailable: backing store temporarily unreachable
//
// For validation failures (blank token, malformed input) use
// pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)

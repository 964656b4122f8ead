package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into user-facing outcomes.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: no record matches the key in this partition
// - ErrNoField: the partition schema lacks a requested column; callers may
//   retry the lookup with an alternate field projection
// - ErrUnavailable: partition backend unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrNoField     = errors.New("no such field")
	ErrUnavailable = errors.New("unavailable")
)

package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateUnlock is returned when inserting a second unlock record for the
// same (team, achievement) pair. Existence of the first record is the unlock
// proof, so callers treat this as "already unlocked", not as a failure.
var ErrDuplicateUnlock = errors.New("achievement already unlocked for team")

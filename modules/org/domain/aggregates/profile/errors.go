package profile

import "github.com/pipecrest/brokerage/pkg/serrors"

var (
	ErrNotFound = serrors.NewError(serrors.CodeNotFound, "profile not found", "")
	// ErrSupervisionCycle rejects supervision edges that would make a
	// profile supervise its own supervisor, transitively.
	ErrSupervisionCycle = serrors.NewError(serrors.CodeConfigConflict, "supervision would form a cycle", "")
)

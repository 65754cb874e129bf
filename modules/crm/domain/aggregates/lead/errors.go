package lead

import "github.com/pipecrest/brokerage/pkg/serrors"

var (
	ErrNotFound          = serrors.NewError(serrors.CodeNotFound, "lead not found", "")
	ErrInvalidTransition = serrors.NewError(serrors.CodeInvalidTransition, "lead transition not allowed", "")
)

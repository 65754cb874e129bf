package clientrequest

import "github.com/pipecrest/brokerage/pkg/serrors"

var (
	ErrNotFound          = serrors.NewError(serrors.CodeNotFound, "client request not found", "")
	ErrInvalidTransition = serrors.NewError(serrors.CodeInvalidTransition, "request transition not allowed", "")
)

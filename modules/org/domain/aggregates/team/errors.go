package team

import "github.com/pipecrest/brokerage/pkg/serrors"

var ErrNotFound = serrors.NewError(serrors.CodeNotFound, "team not found", "")

package businessunit

import "github.com/pipecrest/brokerage/pkg/serrors"

var ErrNotFound = serrors.NewError(serrors.CodeNotFound, "business unit not found", "")

package deal

import "github.com/pipecrest/brokerage/pkg/serrors"

var (
	ErrNotFound     = serrors.NewError(serrors.CodeNotFound, "deal not found", "")
	ErrUnknownStage = serrors.NewError(serrors.CodeInvalidTransition, "unknown deal stage", "")
	// ErrInvalidProbability rejects probabilities outside [0, 100].
	ErrInvalidProbability = serrors.NewError(serrors.CodeConfigConflict, "probability must be within [0, 100]", "")
)

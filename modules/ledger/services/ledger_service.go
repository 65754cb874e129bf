package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pipecrest/brokerage/modules/ledger/domain/entities/activitylog"
	"github.com/pipecrest/brokerage/pkg/composables"
)

// LedgerService appends audit entries for every mutating action. A
// ledger write failure never invalidates the action it documents: it
// is logged for operators as an integrity gap and swallowed.
type LedgerService struct {
	repo activitylog.Repository
}

func NewLedgerService(repo activitylog.Repository) *LedgerService {
	return &LedgerService{repo: repo}
}

// Record appends one entry. It writes outside the caller's transaction
// so that a primary-action commit never waits on, or is undone by,
// auditing.
func (s *LedgerService) Record(ctx context.Context, action, entityType string, entityID *uuid.UUID, metadata any) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		s.reportFailure(ctx, action, err)
		return
	}

	entry := &activitylog.Entry{
		OrganizationID: actor.OrganizationID,
		ActorID:        &actor.ID,
		Action:         action,
		EntityType:     entityType,
		EntityID:       entityID,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			s.reportFailure(ctx, action, err)
			return
		}
		entry.Metadata = raw
	}

	if err := s.repo.Create(composables.WithoutTx(ctx), entry); err != nil {
		s.reportFailure(ctx, action, err)
	}
}

func (s *LedgerService) reportFailure(ctx context.Context, action string, err error) {
	if logger, ok := composables.TryUseLogger(ctx); ok {
		logger.WithError(err).WithField("action", action).Error("activity ledger write failed")
	}
}

// List returns entries for audit consumers, newest first.
func (s *LedgerService) List(ctx context.Context, params *activitylog.FindParams) ([]*activitylog.Entry, int64, error) {
	if params == nil {
		params = &activitylog.FindParams{}
	}
	var (
		entries []*activitylog.Entry
		count   int64
	)
	err := composables.InOrgTx(ctx, func(txCtx context.Context) error {
		var innerErr error
		if entries, innerErr = s.repo.List(txCtx, params); innerErr != nil {
			return innerErr
		}
		count, innerErr = s.repo.Count(txCtx, params)
		return innerErr
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

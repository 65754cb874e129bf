package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/clientrequest"
	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/deal"
	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/lead"
	"github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"
	"github.com/pipecrest/brokerage/modules/org/domain/scope"
	"github.com/pipecrest/brokerage/modules/org/permissions"
	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/serrors"
	"github.com/pipecrest/brokerage/pkg/temporal"
)

type stubTx struct {
	pgx.Tx
}

func (stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func workflowContext(t *testing.T, actor composables.Actor) context.Context {
	t.Helper()
	ctx := composables.WithActor(context.Background(), actor)
	return composables.WithTx(ctx, stubTx{})
}

type allowAllAuthz struct{}

func (allowAllAuthz) Authorize(ctx context.Context, action permissions.Action, targetOwnerID *uuid.UUID) error {
	return nil
}

func (allowAllAuthz) AuthorizeRequestDecision(ctx context.Context, action permissions.Action, assignedLeaderID, ownerID uuid.UUID) error {
	return nil
}

func (allowAllAuthz) VisibleOwners(ctx context.Context, action permissions.Action) (scope.Set, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return nil, err
	}
	return scope.New(actor.ID), nil
}

// assignedLeaderAuthz mirrors the production rule for team leaders:
// only the exact assigned leader may decide.
type assignedLeaderAuthz struct{}

func (assignedLeaderAuthz) Authorize(ctx context.Context, action permissions.Action, targetOwnerID *uuid.UUID) error {
	return nil
}

func (assignedLeaderAuthz) AuthorizeRequestDecision(ctx context.Context, action permissions.Action, assignedLeaderID, ownerID uuid.UUID) error {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return err
	}
	if actor.ID != assignedLeaderID {
		return serrors.NewError(serrors.CodeOutOfScope, "request assigned elsewhere", "")
	}
	return nil
}

func (assignedLeaderAuthz) VisibleOwners(ctx context.Context, action permissions.Action) (scope.Set, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return nil, err
	}
	return scope.New(actor.ID), nil
}

// scopedAuthz mirrors the production scope rule: only the owners in
// the visible set may be read or acted on.
type scopedAuthz struct {
	visible scope.Set
}

func (a scopedAuthz) Authorize(ctx context.Context, action permissions.Action, targetOwnerID *uuid.UUID) error {
	if targetOwnerID == nil {
		return nil
	}
	if !a.visible.Contains(*targetOwnerID) {
		return serrors.NewError(serrors.CodeOutOfScope, "target outside scope", "")
	}
	return nil
}

func (a scopedAuthz) AuthorizeRequestDecision(ctx context.Context, action permissions.Action, assignedLeaderID, ownerID uuid.UUID) error {
	return nil
}

func (a scopedAuthz) VisibleOwners(ctx context.Context, action permissions.Action) (scope.Set, error) {
	return a.visible, nil
}

type noopRecorder struct{}

func (noopRecorder) Record(ctx context.Context, action, entityType string, entityID *uuid.UUID, metadata any) {
}

type stubPublisher struct {
	published []interface{}
}

func (p *stubPublisher) Publish(args ...interface{})     { p.published = append(p.published, args...) }
func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

// fixedRateCommissions applies one rate to every role, or reports
// "not configured" when rate is nil.
type fixedRateCommissions struct {
	rate *decimal.Decimal
}

func (c fixedRateCommissions) CalculateCommission(ctx context.Context, role profile.Role, dealValue decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	if c.rate == nil {
		return decimal.Decimal{}, temporal.ErrNotCovered
	}
	return dealValue.Mul(*c.rate).Div(decimal.NewFromInt(1_000_000)), nil
}

type memProfiles struct {
	profiles map[uuid.UUID]profile.Profile
}

func newMemProfiles(profiles ...profile.Profile) *memProfiles {
	m := &memProfiles{profiles: map[uuid.UUID]profile.Profile{}}
	for _, p := range profiles {
		m.profiles[p.ID()] = p
	}
	return m
}

func (m *memProfiles) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

type memLeadRepo struct {
	leads map[uuid.UUID]lead.Lead
}

func newMemLeadRepo(leads ...lead.Lead) *memLeadRepo {
	r := &memLeadRepo{leads: map[uuid.UUID]lead.Lead{}}
	for _, l := range leads {
		r.leads[l.ID()] = l
	}
	return r
}

func (r *memLeadRepo) GetByID(ctx context.Context, id uuid.UUID) (lead.Lead, error) {
	l, ok := r.leads[id]
	if !ok {
		return lead.Lead{}, lead.ErrNotFound
	}
	return l, nil
}

func (r *memLeadRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (lead.Lead, error) {
	return r.GetByID(ctx, id)
}

func (r *memLeadRepo) List(ctx context.Context, params *lead.FindParams) ([]lead.Lead, error) {
	out := make([]lead.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, l)
	}
	return out, nil
}

func (r *memLeadRepo) Create(ctx context.Context, l lead.Lead) (lead.Lead, error) {
	r.leads[l.ID()] = l
	return l, nil
}

func (r *memLeadRepo) Update(ctx context.Context, l lead.Lead) error {
	if _, ok := r.leads[l.ID()]; !ok {
		return lead.ErrNotFound
	}
	r.leads[l.ID()] = l
	return nil
}

type memRequestRepo struct {
	requests map[uuid.UUID]clientrequest.ClientRequest
}

func newMemRequestRepo(requests ...clientrequest.ClientRequest) *memRequestRepo {
	r := &memRequestRepo{requests: map[uuid.UUID]clientrequest.ClientRequest{}}
	for _, req := range requests {
		r.requests[req.ID()] = req
	}
	return r
}

func (r *memRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (clientrequest.ClientRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return clientrequest.ClientRequest{}, clientrequest.ErrNotFound
	}
	return req, nil
}

func (r *memRequestRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (clientrequest.ClientRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *memRequestRepo) List(ctx context.Context, params *clientrequest.FindParams) ([]clientrequest.ClientRequest, error) {
	out := make([]clientrequest.ClientRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req)
	}
	return out, nil
}

func (r *memRequestRepo) Create(ctx context.Context, req clientrequest.ClientRequest) (clientrequest.ClientRequest, error) {
	r.requests[req.ID()] = req
	return req, nil
}

func (r *memRequestRepo) Update(ctx context.Context, req clientrequest.ClientRequest) error {
	if _, ok := r.requests[req.ID()]; !ok {
		return clientrequest.ErrNotFound
	}
	r.requests[req.ID()] = req
	return nil
}

type memDealRepo struct {
	deals map[uuid.UUID]deal.Deal
}

func newMemDealRepo(deals ...deal.Deal) *memDealRepo {
	r := &memDealRepo{deals: map[uuid.UUID]deal.Deal{}}
	for _, d := range deals {
		r.deals[d.ID()] = d
	}
	return r
}

func (r *memDealRepo) GetByID(ctx context.Context, id uuid.UUID) (deal.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return deal.Deal{}, deal.ErrNotFound
	}
	return d, nil
}

func (r *memDealRepo) List(ctx context.Context, params *deal.FindParams) ([]deal.Deal, error) {
	out := make([]deal.Deal, 0, len(r.deals))
	for _, d := range r.deals {
		out = append(out, d)
	}
	return out, nil
}

func (r *memDealRepo) Create(ctx context.Context, d deal.Deal) (deal.Deal, error) {
	r.deals[d.ID()] = d
	return d, nil
}

func (r *memDealRepo) Update(ctx context.Context, d deal.Deal) error {
	if _, ok := r.deals[d.ID()]; !ok {
		return deal.ErrNotFound
	}
	r.deals[d.ID()] = d
	return nil
}

func (r *memDealRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.deals[id]; !ok {
		return deal.ErrNotFound
	}
	delete(r.deals, id)
	return nil
}

package persistence

import (
	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/clientrequest"
	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/deal"
	"github.com/pipecrest/brokerage/modules/crm/domain/aggregates/lead"
	"github.com/pipecrest/brokerage/modules/crm/infrastructure/persistence/models"
)

func toDomainLead(row *models.Lead) lead.Lead {
	return lead.Hydrate(
		row.ID,
		row.OrganizationID,
		row.OwnerID,
		row.Name,
		row.Phone,
		row.Source,
		row.EstimatedBudget,
		lead.Status(row.Status),
		row.ContactedAt,
		row.QualifiedAt,
		row.ConvertedAt,
		row.LostAt,
		row.ConvertedDealID,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDBLead(l lead.Lead) *models.Lead {
	return &models.Lead{
		ID:              l.ID(),
		OrganizationID:  l.OrganizationID(),
		OwnerID:         l.OwnerID(),
		Name:            l.Name(),
		Phone:           l.Phone(),
		Source:          l.Source(),
		EstimatedBudget: l.EstimatedBudget(),
		Status:          string(l.Status()),
		ContactedAt:     l.ContactedAt(),
		QualifiedAt:     l.QualifiedAt(),
		ConvertedAt:     l.ConvertedAt(),
		LostAt:          l.LostAt(),
		ConvertedDealID: l.ConvertedDealID(),
		CreatedAt:       l.CreatedAt(),
		UpdatedAt:       l.UpdatedAt(),
	}
}

func toDomainClientRequest(row *models.ClientRequest) clientrequest.ClientRequest {
	return clientrequest.Hydrate(
		row.ID,
		row.OrganizationID,
		row.OwnerID,
		row.TeamLeaderID,
		row.ClientName,
		row.Details,
		row.EstimatedBudget,
		clientrequest.Status(row.Status),
		row.DecidedAt,
		row.DecidedBy,
		row.ConvertedDealID,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDBClientRequest(r clientrequest.ClientRequest) *models.ClientRequest {
	return &models.ClientRequest{
		ID:              r.ID(),
		OrganizationID:  r.OrganizationID(),
		OwnerID:         r.OwnerID(),
		TeamLeaderID:    r.TeamLeaderID(),
		ClientName:      r.ClientName(),
		Details:         r.Details(),
		EstimatedBudget: r.EstimatedBudget(),
		Status:          string(r.Status()),
		DecidedAt:       r.DecidedAt(),
		DecidedBy:       r.DecidedBy(),
		ConvertedDealID: r.ConvertedDealID(),
		CreatedAt:       r.CreatedAt(),
		UpdatedAt:       r.UpdatedAt(),
	}
}

func toDomainDeal(row *models.Deal) deal.Deal {
	return deal.Hydrate(
		row.ID,
		row.OrganizationID,
		row.OwnerID,
		row.ClientName,
		deal.Stage(row.Stage),
		row.DealValue,
		row.CommissionValue,
		row.Probability,
		row.SourceLeadID,
		row.SourceRequestID,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDBDeal(d deal.Deal) *models.Deal {
	return &models.Deal{
		ID:              d.ID(),
		OrganizationID:  d.OrganizationID(),
		OwnerID:         d.OwnerID(),
		ClientName:      d.ClientName(),
		Stage:           string(d.Stage()),
		DealValue:       d.DealValue(),
		CommissionValue: d.CommissionValue(),
		Probability:     d.Probability(),
		SourceLeadID:    d.SourceLeadID(),
		SourceRequestID: d.SourceRequestID(),
		CreatedAt:       d.CreatedAt(),
		UpdatedAt:       d.UpdatedAt(),
	}
}

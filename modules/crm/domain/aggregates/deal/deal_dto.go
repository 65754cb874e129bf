package deal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UpdateDTO is a typed patch: nil fields are left untouched. The stage
// may move in any direction; only the probability range is enforced.
type UpdateDTO struct {
	ClientName      *string          `json:"client_name"`
	Stage           *string          `json:"stage"`
	DealValue       *decimal.Decimal `json:"deal_value"`
	CommissionValue *decimal.Decimal `json:"commission_value"`
	Probability     *int             `json:"probability"`
}

func (dto *UpdateDTO) Apply(d Deal) (Deal, error) {
	if dto.ClientName != nil {
		d.clientName = strings.TrimSpace(*dto.ClientName)
	}
	if dto.Stage != nil {
		stage, err := ParseStage(*dto.Stage)
		if err != nil {
			return Deal{}, err
		}
		d.stage = stage
	}
	if dto.DealValue != nil {
		d.dealValue = *dto.DealValue
	}
	if dto.CommissionValue != nil {
		d.commissionValue = *dto.CommissionValue
	}
	if dto.Probability != nil {
		if *dto.Probability < 0 || *dto.Probability > 100 {
			return Deal{}, ErrInvalidProbability.WithDetails("got %d", *dto.Probability)
		}
		d.probability = *dto.Probability
	}
	return d, nil
}

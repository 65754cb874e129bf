package profile

import (
	"strings"

	"github.com/google/uuid"
)

type CreateDTO struct {
	DisplayName    string     `json:"display_name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	BusinessUnitID *uuid.UUID `json:"business_unit_id"`
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	errs := map[string]string{}
	if strings.TrimSpace(d.DisplayName) == "" {
		errs["DisplayName"] = "display name is required"
	}
	if _, err := ParseRole(d.Role); err != nil {
		errs["Role"] = err.Error()
	}
	return errs, len(errs) == 0
}

func (d *CreateDTO) ToEntity(organizationID uuid.UUID) (Profile, error) {
	role, err := ParseRole(d.Role)
	if err != nil {
		return Profile{}, err
	}
	p := New(organizationID, d.DisplayName, d.Email, role)
	return p.WithBusinessUnit(d.BusinessUnitID), nil
}

// UpdateDTO is a typed patch: nil fields are left untouched.
type UpdateDTO struct {
	DisplayName    *string    `json:"display_name"`
	Email          *string    `json:"email"`
	Role           *string    `json:"role"`
	BusinessUnitID *uuid.UUID `json:"business_unit_id"`
}

func (d *UpdateDTO) Apply(p Profile) (Profile, error) {
	if d.DisplayName != nil {
		p.displayName = strings.TrimSpace(*d.DisplayName)
	}
	if d.Email != nil {
		p.email = strings.TrimSpace(*d.Email)
	}
	if d.Role != nil {
		role, err := ParseRole(*d.Role)
		if err != nil {
			return Profile{}, err
		}
		p.role = role
	}
	if d.BusinessUnitID != nil {
		p.businessUnitID = d.BusinessUnitID
	}
	return p, nil
}

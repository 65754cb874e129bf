// Package permissions holds the action catalog and the table mapping
// each action to the roles allowed to perform it. Changing who may do
// what is a data edit here, not a code change elsewhere.
package permissions

import "github.com/pipecrest/brokerage/modules/org/domain/aggregates/profile"

type Action string

const (
	ActionCreateLead     Action = "create-lead"
	ActionViewLead       Action = "view-lead"
	ActionUpdateLead     Action = "update-own-lead"
	ActionConvertLead    Action = "convert-lead"
	ActionCreateRequest  Action = "create-request"
	ActionViewRequest    Action = "view-request"
	ActionApproveRequest Action = "approve-request"
	ActionRejectRequest  Action = "reject-request"
	ActionConvertRequest Action = "convert-request"
	ActionCreateDeal     Action = "create-deal"
	ActionViewDeal       Action = "view-deal"
	ActionUpdateDeal     Action = "update-deal"
	ActionDeleteDeal     Action = "delete-deal"

	ActionUpdateCommissionConfig Action = "update-commission-config"
	ActionViewCommissionConfig   Action = "view-commission-config"
	ActionManageSalary           Action = "manage-salary"
	ActionViewSalary             Action = "view-salary"
	ActionAddCostEntry           Action = "add-cost-entry"

	ActionInviteUser        Action = "invite-user"
	ActionManageOrg         Action = "manage-org"
	ActionAssignSupervision Action = "assign-supervision"
	ActionViewProfile       Action = "view-profile"
	ActionViewReport        Action = "view-report"
	ActionViewLedger        Action = "view-ledger"
)

var salesRoles = []profile.Role{
	profile.RoleSalesAgent,
	profile.RoleTeamLeader,
	profile.RoleSalesManager,
	profile.RoleBusinessUnitHead,
	profile.RoleCEO,
	profile.RoleAdmin,
}

var leaderAndAbove = []profile.Role{
	profile.RoleTeamLeader,
	profile.RoleSalesManager,
	profile.RoleBusinessUnitHead,
	profile.RoleCEO,
	profile.RoleAdmin,
}

var financeRoles = []profile.Role{
	profile.RoleFinance,
	profile.RoleCEO,
	profile.RoleAdmin,
}

var allRoles = []profile.Role{
	profile.RoleSalesAgent,
	profile.RoleTeamLeader,
	profile.RoleSalesManager,
	profile.RoleBusinessUnitHead,
	profile.RoleFinance,
	profile.RoleCEO,
	profile.RoleAdmin,
}

var allowedRoles = map[Action][]profile.Role{
	ActionCreateLead:    salesRoles,
	ActionViewLead:      salesRoles,
	ActionUpdateLead:    salesRoles,
	ActionConvertLead:   salesRoles,
	ActionCreateRequest: salesRoles,
	ActionViewRequest:   salesRoles,
	ActionCreateDeal:    salesRoles,
	ActionViewDeal:      salesRoles,
	ActionUpdateDeal:    salesRoles,
	ActionDeleteDeal:    salesRoles,

	// Approval is further restricted to the exact assigned leader by
	// the workflow service; the table only gates the role level.
	ActionApproveRequest: leaderAndAbove,
	ActionRejectRequest:  leaderAndAbove,
	ActionConvertRequest: salesRoles,

	ActionUpdateCommissionConfig: financeRoles,
	ActionViewCommissionConfig:   financeRoles,
	ActionManageSalary:           financeRoles,
	ActionViewSalary:             financeRoles,
	ActionAddCostEntry:           financeRoles,

	ActionInviteUser:        {profile.RoleCEO, profile.RoleAdmin},
	ActionManageOrg:         {profile.RoleCEO, profile.RoleAdmin},
	ActionAssignSupervision: {profile.RoleSalesManager, profile.RoleBusinessUnitHead, profile.RoleCEO, profile.RoleAdmin},

	// Reads stay inside the resolved scope; every role may look at the
	// records it could act on.
	ActionViewProfile: allRoles,

	ActionViewReport: {
		profile.RoleTeamLeader,
		profile.RoleSalesManager,
		profile.RoleBusinessUnitHead,
		profile.RoleFinance,
		profile.RoleCEO,
		profile.RoleAdmin,
	},
	ActionViewLedger: financeRoles,
}

// Allowed reports whether the role clears the action's minimum-role
// table. Unknown actions deny.
func Allowed(action Action, role profile.Role) bool {
	for _, allowed := range allowedRoles[action] {
		if role == allowed {
			return true
		}
	}
	return false
}

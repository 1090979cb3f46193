package permission

import "github.com/amoylab/tourdesk/internal/common/cnst"

// baseTable holds the starting capability set for each role. Roles missing
// from the table start with nothing granted.
var baseTable = map[cnst.Role]Permissions{
	cnst.RoleSystemAdmin: All(),
	cnst.RoleOrgOwner: Grant(
		ViewDashboard,
		ViewQuotes, CreateQuotes, EditQuotes, DeleteQuotes, ApproveQuotes,
		ViewBookings, CreateBookings, EditBookings, CancelBookings, DeleteBookings,
		ViewHotels, AddHotels, EditHotels, DeleteHotels, ManageInventory,
		IssueVouchers, ViewPayments, ManagePayments,
		ManageClients, ExportData, ManageOrganization, ManageUsers,
	),
	cnst.RoleTourOperator: Grant(
		ViewDashboard,
		ViewQuotes, CreateQuotes, EditQuotes, ApproveQuotes,
		ViewBookings, CreateBookings, EditBookings, CancelBookings,
		ViewHotels, EditHotels, ManageInventory,
		IssueVouchers, ViewPayments, ManagePayments,
		ManageClients,
	),
	cnst.RoleAgent: Grant(
		ViewDashboard,
		ViewQuotes, CreateQuotes, EditQuotes,
		ViewBookings, CreateBookings,
		ViewHotels, AddHotels,
		IssueVouchers, ViewPayments,
		ManageClients,
	),
	cnst.RoleClient: Grant(
		ViewDashboard,
		ViewQuotes,
		ViewBookings,
	),
}

// defaultRole is the preset used when a user has no role assigned
const defaultRole = cnst.RoleAgent

// Rule is one entry of the override list. A rule applies when the role
// matches and either Tiers is empty or contains the tier.
type Rule struct {
	Name  string
	Role  cnst.Role
	Tiers []cnst.Tier
	// Set lists flags forced to the given value
	Set map[Flag]bool
	// GrantAll forces every flag to true
	GrantAll bool
}

func (r Rule) matches(role cnst.Role, tier cnst.Tier) bool {
	if r.Role != role {
		return false
	}
	if len(r.Tiers) == 0 {
		return true
	}
	for _, t := range r.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

func (r Rule) apply(p *Permissions) {
	if r.GrantAll {
		*p = All()
		return
	}
	for f, on := range r.Set {
		p.Set(f, on)
	}
}

var paidTiers = []cnst.Tier{cnst.TierPro, cnst.TierEnterprise}

// Rules are applied in order after the base table. Later rules win.
var Rules = []Rule{
	{
		Name: "tour-operator-defaults",
		Role: cnst.RoleTourOperator,
		Set:  map[Flag]bool{ManageAgents: false, AddHotels: true},
	},
	{
		Name:  "tour-operator-paid-agents",
		Role:  cnst.RoleTourOperator,
		Tiers: paidTiers,
		Set:   map[Flag]bool{ManageAgents: true},
	},
	// Both agent rules grant the same flag. The tier split is kept until
	// product decides what paid agents should get.
	{
		Name:  "agent-starter-hotels",
		Role:  cnst.RoleAgent,
		Tiers: []cnst.Tier{cnst.TierStarter},
		Set:   map[Flag]bool{AddHotels: true},
	},
	{
		Name:  "agent-paid-hotels",
		Role:  cnst.RoleAgent,
		Tiers: paidTiers,
		Set:   map[Flag]bool{AddHotels: true},
	},
	{
		Name: "org-owner-agents",
		Role: cnst.RoleOrgOwner,
		Set:  map[Flag]bool{ManageAgents: true},
	},
	{
		Name:  "org-owner-paid-reports",
		Role:  cnst.RoleOrgOwner,
		Tiers: paidTiers,
		Set:   map[Flag]bool{ViewReports: true},
	},
	{
		Name:     "system-admin-all",
		Role:     cnst.RoleSystemAdmin,
		GrantAll: true,
	},
}

// Resolve derives the capability set for role and tier. A nil role resolves
// to the agent preset; unknown roles resolve to nothing granted.
func Resolve(role *cnst.Role, tier cnst.Tier) Permissions {
	if role == nil {
		return baseTable[defaultRole]
	}

	p := baseTable[*role]
	for _, r := range Rules {
		if r.matches(*role, tier) {
			r.apply(&p)
		}
	}
	return p
}

// Base returns the base table entry for role, before any rule is applied
func Base(role cnst.Role) Permissions {
	return baseTable[role]
}

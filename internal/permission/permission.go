// Package permission maps a (role, tier) pair onto the capability flags the
// rest of the application checks before acting.
package permission

import "github.com/amoylab/tourdesk/internal/common/cnst"

// Flag names a single capability
type Flag string

const (
	ViewDashboard      Flag = "canViewDashboard"
	ViewQuotes         Flag = "canViewQuotes"
	CreateQuotes       Flag = "canCreateQuotes"
	EditQuotes         Flag = "canEditQuotes"
	DeleteQuotes       Flag = "canDeleteQuotes"
	ApproveQuotes      Flag = "canApproveQuotes"
	ViewBookings       Flag = "canViewBookings"
	CreateBookings     Flag = "canCreateBookings"
	EditBookings       Flag = "canEditBookings"
	CancelBookings     Flag = "canCancelBookings"
	DeleteBookings     Flag = "canDeleteBookings"
	ViewHotels         Flag = "canViewHotels"
	AddHotels          Flag = "canAddHotels"
	EditHotels         Flag = "canEditHotels"
	DeleteHotels       Flag = "canDeleteHotels"
	ManageInventory    Flag = "canManageInventory"
	IssueVouchers      Flag = "canIssueVouchers"
	ViewPayments       Flag = "canViewPayments"
	ManagePayments     Flag = "canManagePayments"
	ManageClients      Flag = "canManageClients"
	ManageAgents       Flag = "canManageAgents"
	ViewReports        Flag = "canViewReports"
	ExportData         Flag = "canExportData"
	ManageOrganization Flag = "canManageOrganization"
	ManageUsers        Flag = "canManageUsers"
	AccessAdminPanel   Flag = "canAccessAdminPanel"
)

// AllFlags lists every capability in display order
var AllFlags = []Flag{
	ViewDashboard,
	ViewQuotes, CreateQuotes, EditQuotes, DeleteQuotes, ApproveQuotes,
	ViewBookings, CreateBookings, EditBookings, CancelBookings, DeleteBookings,
	ViewHotels, AddHotels, EditHotels, DeleteHotels, ManageInventory,
	IssueVouchers, ViewPayments, ManagePayments,
	ManageClients, ManageAgents, ViewReports, ExportData,
	ManageOrganization, ManageUsers, AccessAdminPanel,
}

// Permissions is the derived capability set of a session. It is never stored.
type Permissions struct {
	CanViewDashboard      bool `json:"canViewDashboard"`
	CanViewQuotes         bool `json:"canViewQuotes"`
	CanCreateQuotes       bool `json:"canCreateQuotes"`
	CanEditQuotes         bool `json:"canEditQuotes"`
	CanDeleteQuotes       bool `json:"canDeleteQuotes"`
	CanApproveQuotes      bool `json:"canApproveQuotes"`
	CanViewBookings       bool `json:"canViewBookings"`
	CanCreateBookings     bool `json:"canCreateBookings"`
	CanEditBookings       bool `json:"canEditBookings"`
	CanCancelBookings     bool `json:"canCancelBookings"`
	CanDeleteBookings     bool `json:"canDeleteBookings"`
	CanViewHotels         bool `json:"canViewHotels"`
	CanAddHotels          bool `json:"canAddHotels"`
	CanEditHotels         bool `json:"canEditHotels"`
	CanDeleteHotels       bool `json:"canDeleteHotels"`
	CanManageInventory    bool `json:"canManageInventory"`
	CanIssueVouchers      bool `json:"canIssueVouchers"`
	CanViewPayments       bool `json:"canViewPayments"`
	CanManagePayments     bool `json:"canManagePayments"`
	CanManageClients      bool `json:"canManageClients"`
	CanManageAgents       bool `json:"canManageAgents"`
	CanViewReports        bool `json:"canViewReports"`
	CanExportData         bool `json:"canExportData"`
	CanManageOrganization bool `json:"canManageOrganization"`
	CanManageUsers        bool `json:"canManageUsers"`
	CanAccessAdminPanel   bool `json:"canAccessAdminPanel"`
}

// field returns a pointer to the flag's field, or nil for unknown flags
func (p *Permissions) field(f Flag) *bool {
	switch f {
	case ViewDashboard:
		return &p.CanViewDashboard
	case ViewQuotes:
		return &p.CanViewQuotes
	case CreateQuotes:
		return &p.CanCreateQuotes
	case EditQuotes:
		return &p.CanEditQuotes
	case DeleteQuotes:
		return &p.CanDeleteQuotes
	case ApproveQuotes:
		return &p.CanApproveQuotes
	case ViewBookings:
		return &p.CanViewBookings
	case CreateBookings:
		return &p.CanCreateBookings
	case EditBookings:
		return &p.CanEditBookings
	case CancelBookings:
		return &p.CanCancelBookings
	case DeleteBookings:
		return &p.CanDeleteBookings
	case ViewHotels:
		return &p.CanViewHotels
	case AddHotels:
		return &p.CanAddHotels
	case EditHotels:
		return &p.CanEditHotels
	case DeleteHotels:
		return &p.CanDeleteHotels
	case ManageInventory:
		return &p.CanManageInventory
	case IssueVouchers:
		return &p.CanIssueVouchers
	case ViewPayments:
		return &p.CanViewPayments
	case ManagePayments:
		return &p.CanManagePayments
	case ManageClients:
		return &p.CanManageClients
	case ManageAgents:
		return &p.CanManageAgents
	case ViewReports:
		return &p.CanViewReports
	case ExportData:
		return &p.CanExportData
	case ManageOrganization:
		return &p.CanManageOrganization
	case ManageUsers:
		return &p.CanManageUsers
	case AccessAdminPanel:
		return &p.CanAccessAdminPanel
	}
	return nil
}

// Has reports whether flag f is granted. Unknown flags are never granted.
func (p Permissions) Has(f Flag) bool {
	if v := p.field(f); v != nil {
		return *v
	}
	return false
}

// Set grants or revokes flag f. Unknown flags are ignored.
func (p *Permissions) Set(f Flag, on bool) {
	if v := p.field(f); v != nil {
		*v = on
	}
}

// Flags returns the capability set as a flat name -> bool map
func (p Permissions) Flags() map[string]bool {
	out := make(map[string]bool, len(AllFlags))
	for _, f := range AllFlags {
		out[string(f)] = p.Has(f)
	}
	return out
}

// All returns a Permissions value with every flag granted
func All() Permissions {
	var p Permissions
	for _, f := range AllFlags {
		p.Set(f, true)
	}
	return p
}

// Grant builds a Permissions value with exactly the given flags set
func Grant(flags ...Flag) Permissions {
	var p Permissions
	for _, f := range flags {
		p.Set(f, true)
	}
	return p
}

// ParseRole converts a stored role string. An empty string yields nil, the
// "no role assigned" case.
func ParseRole(s string) *cnst.Role {
	if s == "" {
		return nil
	}
	r := cnst.Role(s)
	return &r
}

// ParseTier converts a stored tier string, defaulting to starter
func ParseTier(s string) cnst.Tier {
	t := cnst.Tier(s)
	if !t.Valid() {
		return cnst.TierStarter
	}
	return t
}

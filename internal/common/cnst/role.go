package cnst

// Role is the functional identity of a user. It is assigned on the user
// record and never changed by the session itself.
type Role string

const (
	RoleSystemAdmin  Role = "system_admin"
	RoleOrgOwner     Role = "org_owner"
	RoleTourOperator Role = "tour_operator"
	RoleAgent        Role = "agent"
	RoleClient       Role = "client"
)

// Roles lists every known role, most privileged first
var Roles = []Role{RoleSystemAdmin, RoleOrgOwner, RoleTourOperator, RoleAgent, RoleClient}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Tier is the subscription plan of an organization
type Tier string

const (
	TierStarter    Tier = "starter"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Tiers lists every known tier, cheapest first
var Tiers = []Tier{TierStarter, TierPro, TierEnterprise}

// Valid reports whether t is one of the known tiers
func (t Tier) Valid() bool {
	return t == TierStarter || t == TierPro || t == TierEnterprise
}

// Paid reports whether t is a paid plan (pro or enterprise)
func (t Tier) Paid() bool {
	return t == TierPro || t == TierEnterprise
}

package dto

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	User      any    `json:"user"`
}

// TierRequest switches the subscription tier of the current session
type TierRequest struct {
	Tier string `json:"tier" binding:"required"`
}

// OrganizationRequest creates an organization
type OrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	Tier string `json:"tier"`
}

// OrganizationTierRequest changes the persisted tier of an organization
type OrganizationTierRequest struct {
	Tier string `json:"tier" binding:"required"`
}

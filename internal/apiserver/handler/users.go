package handler

import (
	"github.com/amoylab/tourdesk/internal/apiserver/service"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/dto"
	"github.com/amoylab/tourdesk/internal/i18n"

	"github.com/gin-gonic/gin"
)

// tierOf reads an optional tier, writing a 400 for unknown plans
func tierOf(c *gin.Context, raw string) (cnst.Tier, bool) {
	if raw == "" {
		return cnst.TierStarter, true
	}
	tier := cnst.Tier(raw)
	if !tier.Valid() {
		i18n.RespondWithError(c, i18n.ErrorInvalidTier.WithParam("Tier", raw))
		return "", false
	}
	return tier, true
}

// CreateOrganization handles organization creation
func (h *Handler) CreateOrganization(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.OrganizationRequest
	if !h.bind(c, &req) {
		return
	}
	tier, ok := tierOf(c, req.Tier)
	if !ok {
		return
	}

	org, err := h.svc.CreateOrganization(c.Request.Context(), sess, req.Name, tier)
	if err != nil {
		h.fail(c, err, orgResource)
		return
	}
	i18n.Created(i18n.SuccessOrganizationCreated).WithPayload(org).Send(c)
}

// ListOrganizations handles listing organizations
func (h *Handler) ListOrganizations(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	orgs, err := h.svc.ListOrganizations(c.Request.Context(), sess)
	if err != nil {
		h.fail(c, err, orgResource)
		return
	}
	i18n.Success(i18n.SuccessOrganizationList).WithPayload(orgs).Send(c)
}

// SetOrganizationTier changes the persisted tier of an organization
func (h *Handler) SetOrganizationTier(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	orgID, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req dto.OrganizationTierRequest
	if !h.bind(c, &req) {
		return
	}
	tier, ok := tierOf(c, req.Tier)
	if !ok {
		return
	}

	if err := h.svc.SetOrganizationTier(c.Request.Context(), sess, orgID, tier); err != nil {
		h.fail(c, err, orgResource)
		return
	}
	i18n.Success(i18n.SuccessOrganizationTier).With("tier", tier).Send(c)
}

// CreateUser handles user creation
func (h *Handler) CreateUser(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req service.UserInput
	if !h.bind(c, &req) {
		return
	}
	if !cnst.Role(req.Role).Valid() {
		i18n.RespondWithError(c, i18n.ErrorInvalidRole.WithParam("Role", req.Role))
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), sess, req)
	if err != nil {
		h.fail(c, err, userResource)
		return
	}
	i18n.Created(i18n.SuccessUserCreated).WithPayload(user).Send(c)
}

// ListUsers handles listing the users of the caller's organization
func (h *Handler) ListUsers(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	users, err := h.svc.ListUsers(c.Request.Context(), sess)
	if err != nil {
		h.fail(c, err, userResource)
		return
	}
	i18n.Success(i18n.SuccessUserList).WithPayload(users).Send(c)
}

// UpdateUser handles user updates
func (h *Handler) UpdateUser(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req service.UserUpdate
	if !h.bind(c, &req) {
		return
	}
	if req.Role != nil && !cnst.Role(*req.Role).Valid() {
		i18n.RespondWithError(c, i18n.ErrorInvalidRole.WithParam("Role", *req.Role))
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), sess, id, req)
	if err != nil {
		h.fail(c, err, userResource)
		return
	}
	i18n.Success(i18n.SuccessUserUpdated).WithPayload(user).Send(c)
}

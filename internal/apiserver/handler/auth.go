package handler

import (
	"github.com/amoylab/tourdesk/internal/apiserver/middleware"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/dto"
	"github.com/amoylab/tourdesk/internal/i18n"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Login handles user login
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.svc.Login(c.Request.Context(), h.tokens, req.Username, req.Password)
	if err != nil {
		h.fail(c, err, userResource)
		return
	}

	h.logger.Info("user logged in",
		zap.Uint("user_id", res.User.ID),
		zap.String("session_id", res.Claims.SessionID()))
	i18n.Success(i18n.SuccessLogin).WithPayload(dto.LoginResponse{
		Token:     res.Token,
		ExpiresIn: int64(h.tokens.Duration().Seconds()),
		User:      res.User,
	}).Send(c)
}

// GetSession returns the session of the caller: profile, effective role,
// tier and capabilities
func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	i18n.Success(i18n.SuccessSessionInfo).WithPayload(gin.H{
		"session":     sess,
		"displayRole": sess.DisplayRole(),
	}).Send(c)
}

// SetTier switches the subscription tier of the current session and
// recomputes its capabilities
func (h *Handler) SetTier(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.TierRequest
	if !h.bind(c, &req) {
		return
	}
	tier := cnst.Tier(req.Tier)
	if !tier.Valid() {
		i18n.RespondWithError(c, i18n.ErrorInvalidTier.WithParam("Tier", req.Tier))
		return
	}

	if err := h.sessions.SetTier(c.Request.Context(), sess, tier); err != nil {
		h.fail(c, err, anyResource)
		return
	}
	i18n.Success(i18n.SuccessTierUpdated).WithPayload(sess).Send(c)
}

// Logout forgets every override of the session. The token itself stays valid
// until it expires.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		i18n.RespondWithError(c, i18n.ErrUnauthorized)
		return
	}
	if err := h.sessions.End(c.Request.Context(), claims.SessionID()); err != nil {
		h.fail(c, err, anyResource)
		return
	}
	i18n.Success(i18n.SuccessLogout).Send(c)
}

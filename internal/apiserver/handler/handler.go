// Package handler exposes the apiserver use cases over HTTP. Handlers bind the
// request, call the service with the session of the caller and translate the
// outcome with the i18n package.
package handler

import (
	"strconv"

	"github.com/amoylab/tourdesk/internal/apiserver/middleware"
	"github.com/amoylab/tourdesk/internal/apiserver/service"
	"github.com/amoylab/tourdesk/internal/auth/jwt"
	"github.com/amoylab/tourdesk/internal/i18n"
	"github.com/amoylab/tourdesk/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves every /api route
type Handler struct {
	svc      *service.Service
	tokens   *jwt.Service
	sessions *session.Manager
	logger   *zap.Logger
}

// NewHandler creates a handler
func NewHandler(svc *service.Service, tokens *jwt.Service, sessions *session.Manager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:      svc,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger.Named("handler"),
	}
}

// session returns the session loaded by the middleware or writes a 401
func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		i18n.RespondWithError(c, i18n.ErrUnauthorized)
		return nil, false
	}
	return sess, true
}

// id parses a positive numeric path parameter
func (h *Handler) id(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		i18n.RespondWithError(c, i18n.ErrorInvalidIdentifierParam.WithParam("ID", raw))
		return 0, false
	}
	return uint(v), true
}

// bind decodes the JSON body into req
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Debug("invalid request payload",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrorInvalidRequestPayload)
		return false
	}
	return true
}

// queryInt reads a non-negative integer query parameter, def when absent or
// malformed
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}

package middleware

import (
	"errors"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/i18n"
	"github.com/amoylab/tourdesk/internal/permission"
	"github.com/amoylab/tourdesk/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionMiddleware builds the session of the authenticated user. It must run
// after JWTAuthMiddleware.
func SessionMiddleware(manager *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			abort(c, i18n.ErrUnauthorized)
			return
		}

		sess, err := manager.Load(c.Request.Context(), claims.SessionID(), claims.UserID)
		switch {
		case errors.Is(err, cnst.ErrNotFound):
			abort(c, i18n.ErrorSessionNotFound)
			return
		case err != nil:
			logger.Error("failed to load session", zap.Uint("user_id", claims.UserID), zap.Error(err))
			abort(c, i18n.ErrInternalServer)
			return
		}
		if !sess.User.IsActive {
			abort(c, i18n.ErrorUserDisabled)
			return
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session loaded by SessionMiddleware
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}

// RequirePermission rejects requests whose session lacks flag
func RequirePermission(flag permission.Flag) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			abort(c, i18n.ErrUnauthorized)
			return
		}
		if !sess.Can(flag) {
			abort(c, i18n.ErrorPermissionDenied.WithParam("Permission", string(flag)))
			return
		}
		c.Next()
	}
}

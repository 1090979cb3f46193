package middleware

import (
	"net/http"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/i18n"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Language stores the preferred language of the request for translated
// responses
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cnst.XLang, i18n.LanguageFromRequest(c.Request))
		c.Next()
	}
}

// Logger logs every request once it has been served
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int("size", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
		}
		if sess, ok := CurrentSession(c); ok {
			fields = append(fields, zap.Uint("user_id", sess.User.UserID), zap.Uint("org_id", sess.OrgID()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request failed", fields...)
			return
		}
		logger.Debug("request served", fields...)
	}
}

// Recovery recovers from panics and returns a translated 500 error
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				abort(c, i18n.ErrInternalServer)
			}
		}()
		c.Next()
	}
}

package api

import (
	"emotioncolor/internal/auth"
	"emotioncolor/internal/entity"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	currentUserContextKey = "current-user"
	sessionCookieName     = "jwt"
)

// RequestUser 存储请求上下文中的认证用户信息，全部来自已验证的 token
type RequestUser struct {
	ID        uint
	Email     string
	Role      string
	ExpiresAt time.Time
}

// IsAdmin 判断用户是否具有管理员权限
func (u *RequestUser) IsAdmin() bool {
	return u != nil && u.Role == entity.UserRoleAdmin
}

// extractToken 优先读取 jwt cookie，其次读取 Authorization: Bearer
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	parts := strings.SplitN(strings.TrimSpace(c.GetHeader("Authorization")), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthMiddleware JWT 认证中间件，requiredRole 为空时只要求有效 token
func (h *HTTPHandler) AuthMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := h.gate.Authorize(extractToken(c), requiredRole)
		if err != nil {
			entry := logrus.WithError(err).WithFields(logrus.Fields{
				"path":       c.FullPath(),
				"request_id": c.GetString(requestIDContextKey),
			})
			if errors.Is(err, auth.ErrForbidden) {
				entry.Warn("role check failed")
				Forbidden(c, ErrCodeForbidden, msgForbidden)
				return
			}
			entry.WithField("reason", tokenRejectReason(err)).Info("token rejected")
			Unauthorized(c, ErrCodeUnauthorized)
			return
		}

		user := &RequestUser{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		}
		if claims.ExpiresAt != nil {
			user.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(currentUserContextKey, user)
		c.Next()
	}
}

// CurrentUser 从上下文获取当前认证用户
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}

// setSessionCookie 写入会话 cookie；maxAge 为负数时删除
func (h *HTTPHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", h.cfg.CookieSecure, true)
}

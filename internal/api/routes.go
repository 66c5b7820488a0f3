package api

import (
	"emotioncolor/internal/entity"
	"net/http"

	"github.com/gin-gonic/gin"
)

// access 路由的访问级别
type access int

const (
	accessPublic access = iota
	accessUser
	accessAdmin
)

// route 描述一条路由；表按顺序注册
type route struct {
	method      string
	path        string
	access      access
	rateLimited bool
	handler     func(*HTTPHandler, *gin.Context)
}

var routes = []route{
	{http.MethodGet, "/health", accessPublic, false, (*HTTPHandler).Health},
	{http.MethodGet, "/metrics", accessPublic, false, (*HTTPHandler).Metrics},

	{http.MethodPost, "/api/auth/register", accessPublic, false, (*HTTPHandler).Register},
	{http.MethodPost, "/api/auth/login", accessPublic, true, (*HTTPHandler).Login},
	{http.MethodPost, "/api/auth/logout", accessPublic, false, (*HTTPHandler).Logout},
	{http.MethodPost, "/api/auth/security-question", accessPublic, false, (*HTTPHandler).SecurityQuestion},
	{http.MethodPost, "/api/auth/verify-answer", accessPublic, true, (*HTTPHandler).VerifyAnswer},
	{http.MethodPost, "/api/auth/reset-password", accessPublic, true, (*HTTPHandler).ResetPassword},
	{http.MethodGet, "/api/auth/me", accessUser, false, (*HTTPHandler).Me},

	{http.MethodGet, "/api/colors", accessUser, false, (*HTTPHandler).ListColors},
	{http.MethodPost, "/api/colors", accessUser, false, (*HTTPHandler).AddColor},
	{http.MethodPut, "/api/colors", accessUser, false, (*HTTPHandler).UpdateColor},
	{http.MethodDelete, "/api/colors/:emotion", accessUser, false, (*HTTPHandler).DeleteColor},

	{http.MethodGet, "/api/admin/users", accessAdmin, false, (*HTTPHandler).ListUsers},
	{http.MethodGet, "/api/admin/stats/users", accessAdmin, false, (*HTTPHandler).UserStats},
	{http.MethodGet, "/api/admin/stats/endpoints", accessAdmin, false, (*HTTPHandler).EndpointStats},
	{http.MethodPost, "/api/admin/stats/export", accessAdmin, false, (*HTTPHandler).ExportStats},
}

// chain 返回路由的中间件链与处理函数
func (h *HTTPHandler) chain(rt route) []gin.HandlerFunc {
	handlers := make([]gin.HandlerFunc, 0, 4)
	if rt.rateLimited {
		handlers = append(handlers, h.RateLimitMiddleware())
	}
	switch rt.access {
	case accessUser:
		handlers = append(handlers, h.AuthMiddleware(""), h.UsageMiddleware())
	case accessAdmin:
		handlers = append(handlers, h.AuthMiddleware(entity.UserRoleAdmin), h.UsageMiddleware())
	}
	fn := rt.handler
	return append(handlers, func(c *gin.Context) { fn(h, c) })
}

// NewRouter 创建 gin 引擎并按路由表注册
func NewRouter(h *HTTPHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware(h.cfg.CORSAllowedOrigin))
	r.Use(h.MetricsMiddleware())

	for _, rt := range routes {
		r.Handle(rt.method, rt.path, h.chain(rt)...)
	}

	r.NoRoute(func(c *gin.Context) {
		NotFound(c, ErrCodeNotFound, msgRouteNotFound)
	})
	return r
}

package api

import (
	"emotioncolor/internal/auth"
	"emotioncolor/internal/config"
	"emotioncolor/internal/entity"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlowEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "a@b.com", "pw")

	w := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "a@b.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[entity.AuthResponse](t, w)
	assert.Equal(t, "a@b.com", resp.Email)
	assert.Equal(t, entity.UserRoleUser, resp.Role)
	assert.NotZero(t, resp.ID)
	assert.True(t, resp.ExpiresAt.Equal(srv.clock.Now().Add(time.Hour)))

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.NotContains(t, w.Body.String(), cookie.Value)

	w = srv.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	me := decodeBody[entity.AuthResponse](t, w)
	assert.Equal(t, resp.ID, me.ID)
	assert.Equal(t, "a@b.com", me.Email)

	// 令牌过期后被拒绝
	srv.clock.Advance(time.Hour + time.Second)
	w = srv.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody[APIError](t, w)
	assert.Equal(t, "Unauthorized access", body.Error)
	assert.Equal(t, ErrCodeUnauthorized, body.Code)
}

func TestLoginStillValidJustBeforeExpiry(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "a@b.com", "pw")
	cookie := srv.login(t, "a@b.com", "pw")

	srv.clock.Advance(59 * time.Minute)
	w := srv.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerHeaderFallback(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "a@b.com", "pw")
	cookie := srv.login(t, "a@b.com", "pw")

	req := newJSONRequest(t, http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	w := serve(srv, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "a@b.com", "pw")

	wrong := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "a@b.com", "password": "nope"})
	unknown := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "zz@b.com", "password": "pw"})

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, "Invalid credentials", decodeBody[APIError](t, wrong).Error)
	assert.Nil(t, sessionCookie(wrong))
	assert.Nil(t, sessionCookie(unknown))
}

func TestLoginEmailIsNormalised(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "Mixed@Case.com", "pw")
	srv.login(t, "mixed@case.com", "pw")
}

func TestLoginWithoutRole(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "orphan@b.com", "pw")
	user, err := srv.repo.GetUserByEmail(t.Context(), "orphan@b.com")
	require.NoError(t, err)
	require.NoError(t, srv.db.Where("user_id = ?", user.ID).Delete(&entity.DbUserRole{}).Error)

	w := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "orphan@b.com", "password": "pw"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Failed to retrieve user role.", decodeBody[APIError](t, w).Error)
	assert.Nil(t, sessionCookie(w))
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "a@b.com", "pw")

	w := srv.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"email": "A@B.com", "password": "x", "security_question": "q", "security_answer": "a",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = srv.do(t, http.MethodPost, "/api/auth/register", gin.H{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRouteRejections(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "a@b.com", "pw")
	cookie := srv.login(t, "a@b.com", "pw")

	other, err := auth.NewManager("another-secret", "emotioncolor", time.Hour, auth.WithClock(srv.clock.Now))
	require.NoError(t, err)
	forged, _, err := other.GenerateToken(auth.Identity{UserID: 1, Email: "a@b.com", Role: entity.UserRoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name           string
		path           string
		cookie         *http.Cookie
		expectedStatus int
		expectedCode   string
	}{
		{"无 token", "/api/colors", nil, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"格式错误", "/api/colors", &http.Cookie{Name: sessionCookieName, Value: "not.a.jwt"}, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"签名错误", "/api/colors", &http.Cookie{Name: sessionCookieName, Value: forged}, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"普通用户访问管理接口", "/api/admin/users", cookie, http.StatusForbidden, ErrCodeForbidden},
	}

	var rejected []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tt.cookie != nil {
				cookies = append(cookies, tt.cookie)
			}
			w := srv.do(t, http.MethodGet, tt.path, nil, cookies...)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decodeBody[APIError](t, w).Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				rejected = append(rejected, w.Body.String())
			}
		})
	}

	// 各种 token 失败的响应体完全一致
	require.Len(t, rejected, 3)
	assert.Equal(t, rejected[0], rejected[1])
	assert.Equal(t, rejected[0], rejected[2])
}

func TestLogoutClearsCookie(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully logged out.", decodeBody[entity.MessageResponse](t, w).Message)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
	assert.True(t, cookie.HttpOnly)
}

func TestSecureCookieFlag(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) { cfg.CookieSecure = true })
	srv.register(t, "a@b.com", "pw")
	cookie := srv.login(t, "a@b.com", "pw")
	assert.True(t, cookie.Secure)
}

func TestPasswordRecoveryFlow(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "a@b.com", "old")

	w := srv.do(t, http.MethodPost, "/api/auth/security-question", gin.H{"email": "a@b.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "First pet?", decodeBody[entity.SecurityQuestionResponse](t, w).Question)

	w = srv.do(t, http.MethodPost, "/api/auth/security-question", gin.H{"email": "missing@b.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Email is not found.", decodeBody[APIError](t, w).Error)

	w = srv.do(t, http.MethodPost, "/api/auth/verify-answer", gin.H{"email": "a@b.com", "answer": "max"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Please provide a correct answer.", decodeBody[APIError](t, w).Error)

	w = srv.do(t, http.MethodPost, "/api/auth/verify-answer", gin.H{"email": "a@b.com", "answer": " rex "})
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPost, "/api/auth/reset-password", gin.H{"email": "a@b.com", "answer": "max", "new_password": "new"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.do(t, http.MethodPost, "/api/auth/reset-password", gin.H{"email": "a@b.com", "answer": "REX", "new_password": "new"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "a@b.com", "password": "old"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	srv.login(t, "a@b.com", "new")
}

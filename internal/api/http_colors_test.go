package api

import (
	"emotioncolor/internal/entity"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorsUseTokenIdentity(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "alice@b.com", "pw")
	srv.register(t, "bob@b.com", "pw")
	alice := srv.login(t, "alice@b.com", "pw")
	bob := srv.login(t, "bob@b.com", "pw")

	w := srv.do(t, http.MethodPost, "/api/colors", gin.H{"emotion": "joy", "color": "#FFD700"}, alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Color data added successfully!", decodeBody[entity.MessageResponse](t, w).Message)

	w = srv.do(t, http.MethodPost, "/api/colors", gin.H{"emotion": "joy", "color": "#000000"}, alice)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 请求体中的 user_id 被忽略
	w = srv.do(t, http.MethodPost, "/api/colors", gin.H{"emotion": "fear", "color": "#111111", "user_id": 1}, bob)
	require.Equal(t, http.StatusCreated, w.Code)

	w = srv.do(t, http.MethodGet, "/api/colors", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []entity.ColorItem{{Emotion: "joy", Color: "#FFD700"}}, decodeBody[entity.ColorListResponse](t, w).Colors)

	w = srv.do(t, http.MethodGet, "/api/colors", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []entity.ColorItem{{Emotion: "fear", Color: "#111111"}}, decodeBody[entity.ColorListResponse](t, w).Colors)

	// bob 无法修改或删除 alice 的数据
	w = srv.do(t, http.MethodPut, "/api/colors", gin.H{"emotion": "joy", "color": "#222222"}, bob)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = srv.do(t, http.MethodDelete, "/api/colors/joy", nil, bob)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodPut, "/api/colors", gin.H{"emotion": "joy", "color": "#0000FF"}, alice)
	require.Equal(t, http.StatusOK, w.Code)
	w = srv.do(t, http.MethodGet, "/api/colors", nil, alice)
	assert.Equal(t, []entity.ColorItem{{Emotion: "joy", Color: "#0000FF"}}, decodeBody[entity.ColorListResponse](t, w).Colors)

	w = srv.do(t, http.MethodDelete, "/api/colors/joy", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Color data deleted successfully!", decodeBody[entity.MessageResponse](t, w).Message)

	w = srv.do(t, http.MethodGet, "/api/colors", nil, alice)
	assert.Empty(t, decodeBody[entity.ColorListResponse](t, w).Colors)
}

func TestColorValidation(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "a@b.com", "pw")
	cookie := srv.login(t, "a@b.com", "pw")

	w := srv.do(t, http.MethodPost, "/api/colors", gin.H{"emotion": "joy"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/api/colors", gin.H{"emotion": "a-very-long-emotion-name", "color": "#fff"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

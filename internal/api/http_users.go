package api

import (
	"context"
	"emotioncolor/internal/entity"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListUsers 管理员分页查看用户及其角色
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	query.Normalize(20, 100)

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	users, meta, err := h.repo.ListUsers(ctx, &query)
	if err != nil {
		logrus.WithError(err).WithField("request_id", c.GetString(requestIDContextKey)).Error("failed to list users")
		InternalError(c)
		return
	}

	c.JSON(http.StatusOK, entity.UserListResponse{Users: users, Meta: meta})
}

package api

import (
	"context"
	"emotioncolor/internal/entity"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// UserStats 每个用户的 API 调用次数
func (h *HTTPHandler) UserStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	items, err := h.usageService.UserUsage(ctx)
	if err != nil {
		respondError(c, err, "Failed to fetch API statistics.")
		return
	}
	c.JSON(http.StatusOK, entity.UserUsageListResponse{Users: items})
}

// EndpointStats 每个路由模板与方法的请求次数
func (h *HTTPHandler) EndpointStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	items, err := h.usageService.EndpointUsage(ctx)
	if err != nil {
		respondError(c, err, "Failed to fetch API statistics.")
		return
	}
	c.JSON(http.StatusOK, entity.EndpointUsageListResponse{Endpoints: items})
}

// ExportStats 将统计快照写入存储后端
func (h *HTTPHandler) ExportStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := h.usageService.Export(ctx)
	if err != nil {
		respondError(c, err, "failed to export usage snapshot")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Health 健康检查
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package api

import (
	"context"
	"emotioncolor/internal/entity"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListColors 返回当前用户的情绪颜色
func (h *HTTPHandler) ListColors(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, ErrCodeUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	items, err := h.colorService.List(ctx, user.ID)
	if err != nil {
		respondError(c, err, "Failed to fetch color data.")
		return
	}
	c.JSON(http.StatusOK, entity.ColorListResponse{Colors: items})
}

// AddColor 新增情绪颜色
func (h *HTTPHandler) AddColor(c *gin.Context) {
	h.writeColor(c, http.StatusCreated, "Color data added successfully!", h.colorService.Add)
}

// UpdateColor 修改情绪颜色
func (h *HTTPHandler) UpdateColor(c *gin.Context) {
	h.writeColor(c, http.StatusOK, "Color data updated successfully!", h.colorService.Update)
}

func (h *HTTPHandler) writeColor(c *gin.Context, status int, message string, apply func(context.Context, uint, string, string) error) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, ErrCodeUnauthorized)
		return
	}

	var req entity.ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := apply(ctx, user.ID, req.Emotion, req.Color); err != nil {
		respondError(c, err, "Failed to edit color data.")
		return
	}
	c.JSON(status, entity.MessageResponse{Message: message})
}

// DeleteColor 删除情绪颜色
func (h *HTTPHandler) DeleteColor(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, ErrCodeUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.colorService.Delete(ctx, user.ID, c.Param("emotion")); err != nil {
		respondError(c, err, "Failed to delete color data.")
		return
	}
	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Color data deleted successfully!"})
}

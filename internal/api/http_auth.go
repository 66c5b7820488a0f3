package api

import (
	"context"
	"emotioncolor/internal/auth"
	"emotioncolor/internal/entity"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Register 注册新用户
func (h *HTTPHandler) Register(c *gin.Context) {
	var req entity.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.authService.Register(ctx, req)
	if err != nil {
		respondError(c, err, msgRegisterFailed)
		return
	}

	logrus.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Successfully registered!",
		"user": entity.UserSummary{
			ID:    user.ID,
			Email: user.Email,
			Role:  entity.UserRoleUser,
		},
	})
}

// Login 用户登录，token 通过 jwt cookie 下发
func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	session, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrBadCredential) {
			logrus.WithError(err).WithField("request_id", c.GetString(requestIDContextKey)).Info("login rejected")
		}
		respondError(c, err, "failed to login")
		return
	}

	h.setSessionCookie(c, session.Token, int(h.authManager.TTL().Seconds()))
	c.JSON(http.StatusOK, entity.AuthResponse{
		UserSummary: entity.UserSummary{
			ID:    session.UserID,
			Email: session.Email,
			Role:  session.Role,
		},
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout 清除会话 cookie，token 本身不会被吊销
func (h *HTTPHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Successfully logged out."})
}

// Me 返回当前 token 对应的身份
func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, ErrCodeUnauthorized)
		return
	}
	c.JSON(http.StatusOK, entity.AuthResponse{
		UserSummary: entity.UserSummary{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
		ExpiresAt: user.ExpiresAt,
	})
}

// SecurityQuestion 返回账户的安全问题
func (h *HTTPHandler) SecurityQuestion(c *gin.Context) {
	var req entity.SecurityQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	question, err := h.authService.GetSecurityQuestion(ctx, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			NotFound(c, ErrCodeEmailNotFound, msgEmailNotFound)
			return
		}
		respondError(c, err, "failed to load security question")
		return
	}
	c.JSON(http.StatusOK, entity.SecurityQuestionResponse{Question: question})
}

// VerifyAnswer 校验安全问题答案
func (h *HTTPHandler) VerifyAnswer(c *gin.Context) {
	var req entity.SecurityAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.authService.VerifySecurityAnswer(ctx, req.Email, req.Answer); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			NotFound(c, ErrCodeEmailNotFound, msgEmailNotFound)
			return
		}
		respondError(c, err, "failed to verify security answer")
		return
	}
	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Answer verified successfully."})
}

// ResetPassword 答案正确时重置密码
func (h *HTTPHandler) ResetPassword(c *gin.Context) {
	var req entity.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.authService.ResetPassword(ctx, req.Email, req.Answer, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			NotFound(c, ErrCodeEmailNotFound, msgEmailNotFound)
			return
		}
		respondError(c, err, "failed to reset password")
		return
	}
	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Password reset successfully."})
}

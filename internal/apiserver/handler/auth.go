package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/secugard/secugard/internal/apiserver/middleware"
	"github.com/secugard/secugard/internal/common/dto"
	"github.com/secugard/secugard/internal/common/errorx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates a back-office user and returns a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}

	user, err := h.db.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidCredentials)
		return
	}
	if !user.IsActive {
		h.errs.HandleError(c, errorx.ErrInvalidCredentials)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		h.errs.HandleError(c, errorx.ErrInvalidCredentials)
		return
	}

	token, err := h.jwt.Issue(user)
	if err != nil {
		h.errs.HandleError(c, err)
		return
	}

	h.logger.Info("user logged in", zap.String("username", user.Username))
	ok(c, dto.LoginResponse{Token: token})
}

// ChangePassword updates the authenticated user's password.
func (h *Handler) ChangePassword(c *gin.Context) {
	claims, found := middleware.ClaimsFromContext(c)
	if !found {
		h.errs.HandleError(c, errorx.ErrUnauthorized)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}

	user, err := h.db.GetUserByUsername(c.Request.Context(), claims.Username)
	if err != nil {
		h.errs.HandleError(c, errorx.ErrUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
		h.errs.HandleError(c, errorx.ErrInvalidCredentials)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.errs.HandleError(c, err)
		return
	}
	user.Password = string(hashed)
	if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
		h.handleStoreError(c, err, "user", claims.Username)
		return
	}

	ok(c, gin.H{"success": true})
}

// GrantPermission adds a permission code to a user. Admin only.
func (h *Handler) GrantPermission(c *gin.Context) {
	claims, found := middleware.ClaimsFromContext(c)
	if !found || claims.Role != database.RoleAdmin {
		h.errs.HandleError(c, errorx.ErrPermissionDenied)
		return
	}

	var req dto.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	if err := h.db.GrantPermission(c.Request.Context(), req.UserID, req.Code); err != nil {
		h.handleStoreError(c, err, "permission", req.Code)
		return
	}
	ok(c, gin.H{"success": true})
}

// RevokePermission removes a permission code from a user. Admin only.
func (h *Handler) RevokePermission(c *gin.Context) {
	claims, found := middleware.ClaimsFromContext(c)
	if !found || claims.Role != database.RoleAdmin {
		h.errs.HandleError(c, errorx.ErrPermissionDenied)
		return
	}

	var req dto.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	if err := h.db.RevokePermission(c.Request.Context(), req.UserID, req.Code); err != nil {
		h.handleStoreError(c, err, "permission", req.Code)
		return
	}
	ok(c, gin.H{"success": true})
}

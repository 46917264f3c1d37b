package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/secugard/secugard/internal/common/cnst"
	"github.com/secugard/secugard/internal/common/dto"
	"github.com/secugard/secugard/internal/common/errorx"
)

func (h *Handler) ListEnterprises(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "enterprise") {
		return
	}
	enterprises, err := h.db.ListEnterprises(c.Request.Context())
	if err != nil {
		h.handleStoreError(c, err, "enterprise", "")
		return
	}
	ok(c, enterprises)
}

func (h *Handler) GetEnterprise(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "enterprise") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	e, err := h.db.GetEnterprise(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "enterprise", c.Param("id"))
		return
	}
	ok(c, e)
}

func (h *Handler) CreateEnterprise(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionAdd, "enterprise") {
		return
	}
	var req dto.CreateEnterpriseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	e := &database.Enterprise{Designation: req.Designation}
	if err := h.db.CreateEnterprise(c.Request.Context(), e); err != nil {
		h.handleStoreError(c, err, "enterprise", req.Designation)
		return
	}
	ok(c, e)
}

func (h *Handler) UpdateEnterprise(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionChange, "enterprise") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	var req dto.UpdateEnterpriseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	e, err := h.db.GetEnterprise(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "enterprise", c.Param("id"))
		return
	}
	e.Designation = req.Designation
	if err := h.db.UpdateEnterprise(c.Request.Context(), e); err != nil {
		h.handleStoreError(c, err, "enterprise", c.Param("id"))
		return
	}
	ok(c, e)
}

func (h *Handler) DeleteEnterprise(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionDelete, "enterprise") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	if err := h.db.DeleteEnterprise(c.Request.Context(), id); err != nil {
		h.handleStoreError(c, err, "enterprise", c.Param("id"))
		return
	}
	ok(c, gin.H{"success": true})
}

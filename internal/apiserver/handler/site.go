package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/secugard/secugard/internal/common/cnst"
	"github.com/secugard/secugard/internal/common/dto"
	"github.com/secugard/secugard/internal/common/errorx"
)

func (h *Handler) ListSites(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "site") {
		return
	}
	sites, err := h.db.ListSites(c.Request.Context())
	if err != nil {
		h.handleStoreError(c, err, "site", "")
		return
	}
	ok(c, sites)
}

func (h *Handler) GetSite(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "site") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	site, err := h.db.GetSite(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "site", c.Param("id"))
		return
	}
	ok(c, site)
}

func (h *Handler) CreateSite(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionAdd, "site") {
		return
	}
	var req dto.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	site := &database.Site{Designation: req.Designation, EnterpriseID: req.EnterpriseID}
	if err := h.db.CreateSite(c.Request.Context(), site); err != nil {
		h.handleStoreError(c, err, "site", req.Designation)
		return
	}
	ok(c, site)
}

func (h *Handler) UpdateSite(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionChange, "site") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	var req dto.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	site, err := h.db.GetSite(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "site", c.Param("id"))
		return
	}
	site.Designation = req.Designation
	site.EnterpriseID = req.EnterpriseID
	site.Enterprise = nil
	if err := h.db.UpdateSite(c.Request.Context(), site); err != nil {
		h.handleStoreError(c, err, "site", c.Param("id"))
		return
	}
	ok(c, site)
}

func (h *Handler) DeleteSite(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionDelete, "site") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	if err := h.db.DeleteSite(c.Request.Context(), id); err != nil {
		h.handleStoreError(c, err, "site", c.Param("id"))
		return
	}
	ok(c, gin.H{"success": true})
}

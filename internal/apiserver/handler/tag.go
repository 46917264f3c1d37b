package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/secugard/secugard/internal/common/cnst"
	"github.com/secugard/secugard/internal/common/dto"
	"github.com/secugard/secugard/internal/common/errorx"
)

func (h *Handler) ListTags(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "tag") {
		return
	}
	tags, err := h.db.ListTags(c.Request.Context())
	if err != nil {
		h.handleStoreError(c, err, "tag", "")
		return
	}
	ok(c, tags)
}

// ListZoneTags lists the tags of one zone, in display order.
func (h *Handler) ListZoneTags(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "tag") {
		return
	}
	zoneID, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	tags, err := h.db.ListTagsByZone(c.Request.Context(), zoneID)
	if err != nil {
		h.handleStoreError(c, err, "tag", "")
		return
	}
	ok(c, tags)
}

func (h *Handler) GetTag(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "tag") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	tag, err := h.db.GetTag(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "tag", c.Param("id"))
		return
	}
	ok(c, tag)
}

func (h *Handler) CreateTag(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionAdd, "tag") {
		return
	}
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	tag := &database.Tag{
		ZoneID:      req.ZoneID,
		CodeNFC:     req.CodeNFC,
		Designation: req.Designation,
		Order:       req.Order,
		Observation: req.Observation,
	}
	if err := h.db.CreateTag(c.Request.Context(), tag); err != nil {
		h.handleStoreError(c, err, "tag", req.Designation)
		return
	}
	ok(c, tag)
}

func (h *Handler) UpdateTag(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionChange, "tag") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	var req dto.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	tag, err := h.db.GetTag(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "tag", c.Param("id"))
		return
	}
	tag.ZoneID = req.ZoneID
	tag.CodeNFC = req.CodeNFC
	tag.Designation = req.Designation
	tag.Order = req.Order
	tag.Observation = req.Observation
	tag.Zone = nil
	if err := h.db.UpdateTag(c.Request.Context(), tag); err != nil {
		h.handleStoreError(c, err, "tag", c.Param("id"))
		return
	}
	ok(c, tag)
}

func (h *Handler) DeleteTag(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionDelete, "tag") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	if err := h.db.DeleteTag(c.Request.Context(), id); err != nil {
		h.handleStoreError(c, err, "tag", c.Param("id"))
		return
	}
	ok(c, gin.H{"success": true})
}

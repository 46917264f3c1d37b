package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/secugard/secugard/internal/common/cnst"
	"github.com/secugard/secugard/internal/common/dto"
	"github.com/secugard/secugard/internal/common/errorx"
	"go.uber.org/zap"
)

func (h *Handler) ListZones(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "zone") {
		return
	}
	zones, err := h.db.ListZones(c.Request.Context())
	if err != nil {
		h.handleStoreError(c, err, "zone", "")
		return
	}
	ok(c, zones)
}

func (h *Handler) GetZone(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "zone") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	zone, err := h.db.GetZone(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "zone", c.Param("id"))
		return
	}
	ok(c, zone)
}

func (h *Handler) CreateZone(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionAdd, "zone") {
		return
	}
	var req dto.CreateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	zone := &database.Zone{Designation: req.Designation, SiteID: req.SiteID}
	if err := h.db.CreateZone(c.Request.Context(), zone); err != nil {
		h.handleStoreError(c, err, "zone", req.Designation)
		return
	}
	ok(c, zone)
}

// UpdateZone edits the zone's own fields. The plan state is not part of
// the payload; only confirm and reopen move it, and the column-restricted
// write cannot clobber a state flip committed in between.
func (h *Handler) UpdateZone(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionChange, "zone") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	var req dto.UpdateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	if err := h.db.UpdateZoneInfo(c.Request.Context(), id, req.Designation, req.SiteID); err != nil {
		h.handleStoreError(c, err, "zone", c.Param("id"))
		return
	}
	zone, err := h.db.GetZone(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "zone", c.Param("id"))
		return
	}
	ok(c, zone)
}

func (h *Handler) DeleteZone(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionDelete, "zone") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	if err := h.db.DeleteZone(c.Request.Context(), id); err != nil {
		h.handleStoreError(c, err, "zone", c.Param("id"))
		return
	}
	ok(c, gin.H{"success": true})
}

// ConfirmZone validates the zone's plan and generates its occurrences.
func (h *Handler) ConfirmZone(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionConfirm, "zone") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	zone, err := h.engine.Confirm(c.Request.Context(), id, time.Now())
	if err != nil {
		h.handleStoreError(c, err, "zone", c.Param("id"))
		return
	}
	h.logger.Info("zone confirmed", zap.Uint("zone_id", zone.ID))
	ok(c, zone)
}

// ReopenZone reverts a validated plan to draft.
func (h *Handler) ReopenZone(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionReopen, "zone") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	zone, err := h.engine.Reopen(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "zone", c.Param("id"))
		return
	}
	h.logger.Info("zone reopened", zap.Uint("zone_id", zone.ID))
	ok(c, zone)
}

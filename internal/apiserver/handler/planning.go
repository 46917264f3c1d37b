package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/secugard/secugard/internal/common/cnst"
	"github.com/secugard/secugard/internal/common/dto"
	"github.com/secugard/secugard/internal/common/errorx"
)

// planningScope resolves the zone and day index a planning request is
// nested under. Both always come from the URL, never from the body.
func (h *Handler) planningScope(c *gin.Context) (uint, int, bool) {
	zoneID, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return 0, 0, false
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || !database.ValidDayIndex(day) {
		h.errs.HandleError(c, errorx.ValidationError("day", "must be a weekday index 0-6 or the holiday bucket 8"))
		return 0, 0, false
	}
	return zoneID, day, true
}

// scopedPlanning loads a planning and checks it belongs to the request's
// zone and day. Plannings outside the scope read as not found.
func (h *Handler) scopedPlanning(c *gin.Context, zoneID uint, day int) (*database.Planning, bool) {
	planningID, valid := pathID(c, "planningId")
	if !valid {
		h.badID(c, "planningId")
		return nil, false
	}
	p, err := h.db.GetPlanning(c.Request.Context(), planningID)
	if err != nil {
		h.handleStoreError(c, err, "planning", c.Param("planningId"))
		return nil, false
	}
	if p.ZoneID != zoneID || p.SelectedDayIndex != day {
		h.errs.HandleError(c, errorx.NotFoundError("planning", c.Param("planningId")))
		return nil, false
	}
	return p, true
}

func (h *Handler) ListPlannings(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "planning") {
		return
	}
	zoneID, day, valid := h.planningScope(c)
	if !valid {
		return
	}
	plannings, err := h.db.ListPlanningsByZoneAndDay(c.Request.Context(), zoneID, day)
	if err != nil {
		h.handleStoreError(c, err, "planning", "")
		return
	}
	ok(c, plannings)
}

func (h *Handler) GetPlanning(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "planning") {
		return
	}
	zoneID, day, valid := h.planningScope(c)
	if !valid {
		return
	}
	p, found := h.scopedPlanning(c, zoneID, day)
	if !found {
		return
	}
	ok(c, p)
}

func (h *Handler) CreatePlanning(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionAdd, "planning") {
		return
	}
	zoneID, day, valid := h.planningScope(c)
	if !valid {
		return
	}
	var req dto.CreatePlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	p := &database.Planning{
		ZoneID:           zoneID,
		SelectedDayIndex: day,
		CheckTime:        req.CheckTime,
		ToleratedTime:    req.ToleratedTime,
		Observation:      req.Observation,
	}
	if err := h.db.CreatePlanning(c.Request.Context(), p); err != nil {
		h.handleStoreError(c, err, "planning", "")
		return
	}
	ok(c, p)
}

func (h *Handler) UpdatePlanning(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionChange, "planning") {
		return
	}
	zoneID, day, valid := h.planningScope(c)
	if !valid {
		return
	}
	p, found := h.scopedPlanning(c, zoneID, day)
	if !found {
		return
	}
	var req dto.UpdatePlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	p.CheckTime = req.CheckTime
	p.ToleratedTime = req.ToleratedTime
	p.Observation = req.Observation
	if err := h.db.UpdatePlanning(c.Request.Context(), p); err != nil {
		h.handleStoreError(c, err, "planning", c.Param("planningId"))
		return
	}
	ok(c, p)
}

func (h *Handler) DeletePlanning(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionDelete, "planning") {
		return
	}
	zoneID, day, valid := h.planningScope(c)
	if !valid {
		return
	}
	p, found := h.scopedPlanning(c, zoneID, day)
	if !found {
		return
	}
	if err := h.db.DeletePlanning(c.Request.Context(), p.ID); err != nil {
		h.handleStoreError(c, err, "planning", c.Param("planningId"))
		return
	}
	ok(c, gin.H{"success": true})
}

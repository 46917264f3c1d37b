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

func (h *Handler) ListPatrolLogs(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "patrollog") {
		return
	}
	logs, err := h.db.ListPatrolLogs(c.Request.Context())
	if err != nil {
		h.handleStoreError(c, err, "patrollog", "")
		return
	}
	ok(c, logs)
}

// ListZonePatrolLogs lists the occurrences of one zone's tags.
func (h *Handler) ListZonePatrolLogs(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "patrollog") {
		return
	}
	zoneID, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	logs, err := h.db.ListPatrolLogsByZone(c.Request.Context(), zoneID)
	if err != nil {
		h.handleStoreError(c, err, "patrollog", "")
		return
	}
	ok(c, logs)
}

func (h *Handler) GetPatrolLog(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "patrollog") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	log, err := h.db.GetPatrolLog(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "patrollog", c.Param("id"))
		return
	}
	ok(c, log)
}

// CreatePatrolLog records an unplanned visit entry by hand. It lands in
// the same table as generated occurrences.
func (h *Handler) CreatePatrolLog(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionAdd, "patrollog") {
		return
	}
	var req dto.CreatePatrolLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	log := &database.PatrolLog{
		TagID:              req.TagID,
		CheckDatetime:      req.CheckDatetime,
		CheckTolerance:     req.CheckTolerance,
		AudioPath:          req.AudioPath,
		ImagePath:          req.ImagePath,
		DescriptionAnomaly: req.DescriptionAnomaly,
	}
	if err := h.db.CreatePatrolLog(c.Request.Context(), log); err != nil {
		h.handleStoreError(c, err, "patrollog", "")
		return
	}
	ok(c, log)
}

func (h *Handler) UpdatePatrolLog(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionChange, "patrollog") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	var req dto.UpdatePatrolLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	log, err := h.db.GetPatrolLog(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "patrollog", c.Param("id"))
		return
	}
	log.AudioPath = req.AudioPath
	log.ImagePath = req.ImagePath
	log.DescriptionAnomaly = req.DescriptionAnomaly
	log.Tag = nil
	log.CheckedBy = nil
	log.Planning = nil
	if err := h.db.UpdatePatrolLog(c.Request.Context(), log); err != nil {
		h.handleStoreError(c, err, "patrollog", c.Param("id"))
		return
	}
	ok(c, log)
}

func (h *Handler) DeletePatrolLog(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionDelete, "patrollog") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	if err := h.db.DeletePatrolLog(c.Request.Context(), id); err != nil {
		h.handleStoreError(c, err, "patrollog", c.Param("id"))
		return
	}
	ok(c, gin.H{"success": true})
}

// CheckPatrolLog marks an occurrence as visited by the guard whose PIN is
// supplied. Checking is final; a checked occurrence cannot be re-checked.
func (h *Handler) CheckPatrolLog(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionCheck, "patrollog") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	var req dto.CheckPatrolLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}

	log, err := h.db.GetPatrolLog(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "patrollog", c.Param("id"))
		return
	}
	if log.IsChecked {
		h.errs.HandleError(c, errorx.ErrResourceExists.WithDetail("reason", "occurrence already checked"))
		return
	}

	emp, err := h.db.GetEmployeeByPIN(c.Request.Context(), req.CodePIN)
	if err != nil {
		h.errs.HandleError(c, errorx.ValidationError("codePin", "no employee matches this PIN"))
		return
	}

	now := time.Now()
	log.IsChecked = true
	log.CheckedDatetime = &now
	log.CheckedByID = &emp.ID
	if req.AudioPath != "" {
		log.AudioPath = req.AudioPath
	}
	if req.ImagePath != "" {
		log.ImagePath = req.ImagePath
	}
	if req.DescriptionAnomaly != "" {
		log.DescriptionAnomaly = req.DescriptionAnomaly
	}
	log.Tag = nil
	log.CheckedBy = nil
	log.Planning = nil
	if err := h.db.UpdatePatrolLog(c.Request.Context(), log); err != nil {
		h.handleStoreError(c, err, "patrollog", c.Param("id"))
		return
	}

	h.logger.Info("patrol log checked",
		zap.Uint("patrol_log_id", log.ID),
		zap.Uint("employee_id", emp.ID))
	ok(c, log)
}

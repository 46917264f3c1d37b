package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/secugard/secugard/internal/common/cnst"
	"github.com/secugard/secugard/internal/common/dto"
	"github.com/secugard/secugard/internal/common/errorx"
)

func (h *Handler) ListHolidays(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "holiday") {
		return
	}
	holidays, err := h.db.ListHolidays(c.Request.Context())
	if err != nil {
		h.handleStoreError(c, err, "holiday", "")
		return
	}
	ok(c, holidays)
}

func (h *Handler) GetHoliday(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "holiday") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	holiday, err := h.db.GetHoliday(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "holiday", c.Param("id"))
		return
	}
	ok(c, holiday)
}

func (h *Handler) CreateHoliday(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionAdd, "holiday") {
		return
	}
	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.errs.HandleError(c, errorx.ValidationError("date", "must be formatted YYYY-MM-DD"))
		return
	}
	holiday := &database.Holiday{Designation: req.Designation, Date: date}
	if err := h.db.CreateHoliday(c.Request.Context(), holiday); err != nil {
		h.handleStoreError(c, err, "holiday", req.Designation)
		return
	}
	ok(c, holiday)
}

func (h *Handler) UpdateHoliday(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionChange, "holiday") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	var req dto.UpdateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.errs.HandleError(c, errorx.ValidationError("date", "must be formatted YYYY-MM-DD"))
		return
	}
	holiday, err := h.db.GetHoliday(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "holiday", c.Param("id"))
		return
	}
	holiday.Designation = req.Designation
	holiday.Date = date
	if err := h.db.UpdateHoliday(c.Request.Context(), holiday); err != nil {
		h.handleStoreError(c, err, "holiday", c.Param("id"))
		return
	}
	ok(c, holiday)
}

func (h *Handler) DeleteHoliday(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionDelete, "holiday") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	if err := h.db.DeleteHoliday(c.Request.Context(), id); err != nil {
		h.handleStoreError(c, err, "holiday", c.Param("id"))
		return
	}
	ok(c, gin.H{"success": true})
}

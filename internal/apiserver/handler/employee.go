package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/secugard/secugard/internal/common/cnst"
	"github.com/secugard/secugard/internal/common/dto"
	"github.com/secugard/secugard/internal/common/errorx"
)

func (h *Handler) ListEmployees(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "employee") {
		return
	}
	employees, err := h.db.ListEmployees(c.Request.Context())
	if err != nil {
		h.handleStoreError(c, err, "employee", "")
		return
	}
	ok(c, employees)
}

func (h *Handler) GetEmployee(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionView, "employee") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	emp, err := h.db.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "employee", c.Param("id"))
		return
	}
	ok(c, emp)
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionAdd, "employee") {
		return
	}
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	emp := &database.Employee{Designation: req.Designation, CodePIN: req.CodePIN, SiteID: req.SiteID}
	if err := h.db.CreateEmployee(c.Request.Context(), emp); err != nil {
		h.handleStoreError(c, err, "employee", req.Designation)
		return
	}
	ok(c, emp)
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionChange, "employee") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.HandleError(c, errorx.ErrInvalidInput.WithDetail("cause", err.Error()))
		return
	}
	emp, err := h.db.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.handleStoreError(c, err, "employee", c.Param("id"))
		return
	}
	emp.Designation = req.Designation
	emp.CodePIN = req.CodePIN
	emp.SiteID = req.SiteID
	emp.Site = nil
	if err := h.db.UpdateEmployee(c.Request.Context(), emp); err != nil {
		h.handleStoreError(c, err, "employee", c.Param("id"))
		return
	}
	ok(c, emp)
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	if !h.requirePerm(c, cnst.ActionDelete, "employee") {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		h.badID(c, "id")
		return
	}
	if err := h.db.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.handleStoreError(c, err, "employee", c.Param("id"))
		return
	}
	ok(c, gin.H{"success": true})
}

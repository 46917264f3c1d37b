package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/secugard/secugard/internal/apiserver/middleware"
	"github.com/secugard/secugard/internal/auth/acl"
	"github.com/secugard/secugard/internal/auth/jwt"
	"github.com/secugard/secugard/internal/common/errorx"
	"github.com/secugard/secugard/internal/core/plan"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler carries the dependencies of every HTTP handler.
type Handler struct {
	db     database.Store
	logger *zap.Logger
	jwt    *jwt.Service
	acl    acl.Checker
	engine *plan.Engine
	errs   *errorx.ErrorHandler
}

func NewHandler(db database.Store, logger *zap.Logger, jwtService *jwt.Service, checker acl.Checker, engine *plan.Engine, errs *errorx.ErrorHandler) *Handler {
	return &Handler{
		db:     db,
		logger: logger.Named("handler"),
		jwt:    jwtService,
		acl:    checker,
		engine: engine,
		errs:   errs,
	}
}

// requirePerm evaluates the actor's permission before any domain state is
// read. It writes the error response and returns false on failure.
func (h *Handler) requirePerm(c *gin.Context, action, model string) bool {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		h.errs.HandleError(c, errorx.ErrUnauthorized)
		return false
	}
	perm := acl.Perm(action, model)
	allowed, err := h.acl.HasPermission(c.Request.Context(), claims.UserID, string(claims.Role), perm)
	if err != nil {
		h.errs.HandleError(c, err)
		return false
	}
	if !allowed {
		h.errs.HandleError(c, errorx.ErrPermissionDenied.WithDetail("permission", perm))
		return false
	}
	return true
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// handleStoreError maps store and engine errors onto the API error
// taxonomy before responding.
func (h *Handler) handleStoreError(c *gin.Context, err error, resource, identifier string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		h.errs.HandleError(c, errorx.NotFoundError(resource, identifier))
	case errors.Is(err, database.ErrPlanNotEditable):
		h.errs.HandleError(c, errorx.ErrPlanNotEditable)
	case errors.Is(err, database.ErrEmployeeProtected):
		h.errs.HandleError(c, errorx.ErrEmployeeProtected)
	case errors.Is(err, database.ErrInvalidDayIndex):
		h.errs.HandleError(c, errorx.ValidationError("dayIndex", "must be a weekday index 0-6 or the holiday bucket 8"))
	case errors.Is(err, database.ErrInvalidCheckTime):
		h.errs.HandleError(c, errorx.ValidationError("checkTime", "must be an HH:MM or HH:MM:SS clock time"))
	case errors.Is(err, plan.ErrInvalidTransition):
		h.errs.HandleError(c, errorx.ErrInvalidTransition)
	default:
		h.errs.HandleError(c, errorx.ErrDatabaseError.WithDetail("cause", err.Error()))
	}
}

func (h *Handler) badID(c *gin.Context, name string) {
	h.errs.HandleError(c, errorx.ValidationError(name, "must be a positive integer"))
}

func ok(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

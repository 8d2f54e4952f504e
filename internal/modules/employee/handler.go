package employee

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"customscrm/internal/domain"
	"customscrm/internal/middleware"
	"customscrm/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/employees", h.List)
	rg.PUT("/employees/:id/role", h.UpdateRole)
	rg.POST("/employees/:id/block", h.Block)
	rg.POST("/employees/:id/unblock", h.Unblock)
	rg.DELETE("/employees/:id", h.Remove)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Employee not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Operation not applicable to this employee")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func employeeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid employee ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) List(c *gin.Context) {
	groups, err := h.service.List(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, groups)
}

func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.service.UpdateRole(c.Request.Context(), middleware.Principal(c), id, domain.UserRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) Block(c *gin.Context) {
	h.setBlocked(c, true)
}

func (h *Handler) Unblock(c *gin.Context) {
	h.setBlocked(c, false)
}

func (h *Handler) setBlocked(c *gin.Context, blocked bool) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	u, err := h.service.SetBlocked(c.Request.Context(), middleware.Principal(c), id, blocked)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) Remove(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	var req RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.Remove(c.Request.Context(), middleware.Principal(c), id, req.TransferToUserID); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

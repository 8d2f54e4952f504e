package certificate

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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
	rg.POST("/certificates", h.Create)
	rg.GET("/certificates", h.List)
	rg.GET("/certificates/:id", h.Get)
	rg.PUT("/certificates/:id", h.Update)
	rg.DELETE("/certificates/:id", h.Delete)
	rg.POST("/certificates/:id/status", h.UpdateStatus)
	rg.POST("/certificates/:id/fill-number", h.FillNumber)
	rg.POST("/certificates/:id/assign", h.Assign)
	rg.POST("/certificates/:id/redirect", h.Redirect)
	rg.POST("/certificates/:id/confirm-review", h.ConfirmReview)
	rg.POST("/certificates/:id/confirm-payment", h.ConfirmPayment)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Certificate not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Certificate state changed, re-fetch and retry")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func certID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid certificate ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cert, err := h.service.Create(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cert)
}

func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	items, err := h.service.List(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := certID(c)
	if !ok {
		return
	}

	details, err := h.service.Get(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, details)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := certID(c)
	if !ok {
		return
	}

	var req UpdateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cert, err := h.service.Update(c.Request.Context(), middleware.Principal(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cert)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := certID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := certID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cert, err := h.service.UpdateStatus(c.Request.Context(), middleware.Principal(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cert)
}

func (h *Handler) FillNumber(c *gin.Context) {
	id, ok := certID(c)
	if !ok {
		return
	}

	var req FillNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cert, err := h.service.FillNumber(c.Request.Context(), middleware.Principal(c), id, req.CertificateNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cert)
}

func (h *Handler) Assign(c *gin.Context) {
	id, ok := certID(c)
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cert, err := h.service.Assign(c.Request.Context(), middleware.Principal(c), id, req.TargetUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cert)
}

func (h *Handler) Redirect(c *gin.Context) {
	id, ok := certID(c)
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cert, err := h.service.Redirect(c.Request.Context(), middleware.Principal(c), id, req.TargetUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cert)
}

func (h *Handler) ConfirmReview(c *gin.Context) {
	id, ok := certID(c)
	if !ok {
		return
	}

	cert, err := h.service.ConfirmReview(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cert)
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	id, ok := certID(c)
	if !ok {
		return
	}

	cert, err := h.service.ConfirmPayment(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cert)
}

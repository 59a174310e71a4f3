package connect

import (
	"errors"
	"net/http"

	"holdmytime/internal/middleware"
	"holdmytime/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/connect/create-account", h.CreateAccount)
	rg.POST("/connect/refresh-link", h.RefreshLink)
	rg.POST("/connect/check-status", h.CheckStatus)
}

func (h *Handler) CreateAccount(c *gin.Context) {
	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	link, err := h.service.CreateAccount(c.Request.Context(), middleware.UserID(c), req.BusinessID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, link)
}

func (h *Handler) RefreshLink(c *gin.Context) {
	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	link, err := h.service.RefreshLink(c.Request.Context(), middleware.UserID(c), req.BusinessID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, link)
}

func (h *Handler) CheckStatus(c *gin.Context) {
	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	status, err := h.service.CheckStatus(c.Request.Context(), middleware.UserID(c), req.BusinessID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, status)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBusinessNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this business")
	case errors.Is(err, ErrNotConnected):
		response.Error(c, http.StatusConflict, "NOT_CONNECTED", "Business has no payment account yet")
	case errors.Is(err, ErrProcessor):
		response.Error(c, http.StatusBadGateway, "PROCESSOR_ERROR", "Payment processor is unavailable, please retry")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

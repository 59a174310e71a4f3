package business

import (
	"errors"
	"net/http"

	"holdmytime/internal/middleware"
	"holdmytime/internal/pkg/response"
	"holdmytime/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the booking-page lookup used by customers.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/businesses/:slug", h.GetBySlug)
}

// RegisterOwnerRoutes mounts the authenticated owner endpoints.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.POST("/businesses", h.CreateBusiness)
	rg.GET("/businesses", h.ListBusinesses)
	rg.DELETE("/businesses/:id", h.DeleteBusiness)
}

func (h *Handler) CreateBusiness(c *gin.Context) {
	var req CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Details(err))
		return
	}

	b, err := h.service.CreateBusiness(c.Request.Context(), middleware.UserID(c), middleware.UserEmail(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionRequired):
			response.Error(c, http.StatusPaymentRequired, "SUBSCRIPTION_REQUIRED", "An active subscription is required to create booking pages")
		case errors.Is(err, ErrSlugTaken):
			response.Error(c, http.StatusConflict, "SLUG_TAKEN", "That page address is already in use")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create business")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"business": b})
}

func (h *Handler) ListBusinesses(c *gin.Context) {
	businesses, err := h.service.ListByOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list businesses")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"businesses": businesses})
}

func (h *Handler) GetBySlug(c *gin.Context) {
	b, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load business")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"business": b})
}

func (h *Handler) DeleteBusiness(c *gin.Context) {
	err := h.service.DeleteBusiness(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this business")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete business")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

package account

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
	rg.POST("/account/subscription", h.CreateSubscription)
	rg.POST("/account/delete", h.DeleteAccount)
}

func (h *Handler) CreateSubscription(c *gin.Context) {
	url, err := h.service.CreateSubscription(c.Request.Context(), middleware.UserID(c), middleware.UserEmail(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadySubscribed):
			response.Error(c, http.StatusConflict, "ALREADY_SUBSCRIBED", "Your subscription is already active")
		case errors.Is(err, ErrProcessor):
			response.Error(c, http.StatusBadGateway, "PROCESSOR_ERROR", "Payment processor is unavailable, please retry")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start subscription checkout")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"checkout_url": url})
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(c.Request.Context(), middleware.UserID(c), middleware.UserEmail(c)); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete account")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

package webhook

import (
	"errors"
	"net/http"

	"holdmytime/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the processor callback. It lives outside the
// versioned API group: the path is configured at the processor and never
// carries auth.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/webhooks/payment", h.Receive)
}

func (h *Handler) Receive(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Could not read request body")
		return
	}

	err = h.service.Process(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "Webhook signature verification failed")
			return
		}
		// 500 asks the processor to redeliver
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Event processing failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

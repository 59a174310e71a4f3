package booking

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterPublicRoutes mounts the customer-facing booking endpoint. No auth:
// customers book through a public page link.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
}

// RegisterOwnerRoutes mounts the authenticated owner endpoints.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Details(err))
		return
	}

	b, checkoutURL, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBusinessNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Business not found")
		case errors.Is(err, ErrBusinessNotPayable):
			response.Error(c, http.StatusUnprocessableEntity, "BUSINESS_NOT_PAYABLE", "This business is not accepting payments yet")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrProcessor):
			response.Error(c, http.StatusBadGateway, "PROCESSOR_ERROR", "Payment processor is unavailable, please retry")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		}
		return
	}

	response.Success(c, http.StatusCreated, CreateBookingResponse{
		BookingID:   b.ID,
		CheckoutURL: checkoutURL,
	})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	err := h.service.CancelBooking(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this booking")
		case errors.Is(err, ErrAlreadySettled):
			response.Error(c, http.StatusConflict, "ALREADY_SETTLED", "Booking is no longer pending")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel booking")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"canceled": true})
}

func (h *Handler) ListBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := h.service.ListByOwner(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

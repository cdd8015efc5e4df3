package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	bookingapp "staybook/internal/app/handlers/booking"
	"staybook/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	AccommodationID string    `json:"accommodation_id" binding:"required"`
	CheckIn         time.Time `json:"check_in" binding:"required"`
	CheckOut        time.Time `json:"check_out" binding:"required"`
	Guests          int       `json:"guests" binding:"required"`
	DiscountCents   int64     `json:"discount_cents" binding:"omitempty,gte=0"`
	Services        []string  `json:"services"`
	State           string    `json:"state" binding:"omitempty,state_label"`
}

func (h BookingHandler) Create(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok || p.GuestID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "guest identity required"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		CommandID:       uuid.NewString(),
		AccommodationID: req.AccommodationID,
		GuestID:         p.GuestID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		DiscountCents:   req.DiscountCents,
		Services:        req.Services,
		RequestedState:  req.State,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	view, err := commands.Dispatch[bookingapp.CreateBookingCommand, *dto.BookingView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

type updateBookingRequest struct {
	State            *string  `json:"state" binding:"omitempty"`
	TotalPriceCents  *int64   `json:"total_price_cents" binding:"omitempty,gte=0"`
	PaymentConfirmed *bool    `json:"payment_confirmed"`
	TransactionID    *string  `json:"transaction_id"`
	DiscountCents    *int64   `json:"discount_cents" binding:"omitempty,gte=0"`
	Services         []string `json:"services"`
}

func (h BookingHandler) Update(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.UpdateBookingCommand{
		BookingID:        c.Param("id"),
		State:            req.State,
		TotalPriceCents:  req.TotalPriceCents,
		PaymentConfirmed: req.PaymentConfirmed,
		TransactionID:    req.TransactionID,
		DiscountCents:    req.DiscountCents,
		Services:         req.Services,
	}
	view, err := commands.Dispatch[bookingapp.UpdateBookingCommand, *dto.BookingView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "requester identity required"})
		return
	}
	cmd := bookingapp.CancelBookingCommand{
		BookingID:        c.Param("id"),
		RequesterGuestID: p.GuestID,
		RequesterHostID:  p.HostID,
	}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, *bookingapp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListByGuest(c *gin.Context) {
	query := bookingapp.ListGuestBookingsQuery{GuestID: c.Param("id")}
	collection, err := queries.Ask[bookingapp.ListGuestBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

func (h BookingHandler) ListByAccommodation(c *gin.Context) {
	query := bookingapp.ListAccommodationBookingsQuery{AccommodationID: c.Param("id")}
	collection, err := queries.Ask[bookingapp.ListAccommodationBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

var _ BookingHTTP = BookingHandler{}

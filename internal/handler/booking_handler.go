package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"carwash/internal/model"
	"carwash/internal/service"
)

// BookingHandler handles booking endpoints.
type BookingHandler struct {
	bookings service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CreateBookingRequest represents a booking request. Omitted fields are taken from the slot and service.
type CreateBookingRequest struct {
	SlotID     string           `json:"slotId" validate:"required,uuid"`
	ServiceID  string           `json:"serviceId" validate:"omitempty,uuid"`
	Date       string           `json:"date"`
	StartTime  string           `json:"startTime"`
	EndTime    string           `json:"endTime"`
	TotalPrice *decimal.Decimal `json:"totalPrice" swaggertype:"number"`
	Notes      string           `json:"notes" validate:"max=1000"`
}

// UpdateBookingStatusRequest represents an admin status change.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

// ListMine godoc
// @Summary List the caller's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.Booking}
// @Failure 401 {object} errors.ErrorResponse
// @Router /bookings/my-bookings [get]
func (h *BookingHandler) ListMine(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	bookings, err := h.bookings.ListForUser(c.Request().Context(), who.UserID)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Bookings fetched successfully", bookings)
}

// ListAll godoc
// @Summary List every booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.Booking}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /bookings [get]
func (h *BookingHandler) ListAll(c echo.Context) error {
	bookings, err := h.bookings.ListAll(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "All bookings fetched successfully", bookings)
}

// Create godoc
// @Summary Book a slot
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking data"
// @Success 201 {object} Response{data=model.Booking}
// @Failure 400 {object} errors.ErrorResponse "Slot not available"
// @Failure 401 {object} errors.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	var req CreateBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	slotID, _ := uuid.Parse(req.SlotID)
	serviceID, err := parseOptionalUUID(req.ServiceID)
	if err != nil {
		return badRequest("Invalid serviceId", "INVALID_ID")
	}
	in := service.CreateBookingInput{
		UserID:     who.UserID,
		SlotID:     slotID,
		ServiceID:  serviceID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		TotalPrice: req.TotalPrice,
		Notes:      req.Notes,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return badRequest("date must be YYYY-MM-DD", "INVALID_DATE")
		}
		in.Date = &date
	}

	booking, err := h.bookings.Create(c.Request().Context(), in)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "Booking created successfully", booking)
}

// UpdateStatus godoc
// @Summary Change a booking's status
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body UpdateBookingStatusRequest true "New status"
// @Success 200 {object} Response{data=model.Booking}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bookings/{id} [put]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateBookingStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	booking, err := h.bookings.UpdateStatus(c.Request().Context(), id, model.BookingStatus(req.Status))
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Booking updated successfully", booking)
}

// Cancel godoc
// @Summary Cancel a booking
// @Description Frees the slot and deletes the booking. Owner or admin only.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} Response
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.bookings.Cancel(c.Request().Context(), id, who.UserID, who.Role); err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Booking cancelled successfully", nil)
}

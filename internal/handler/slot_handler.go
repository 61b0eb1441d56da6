package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"carwash/internal/repository"
	"carwash/internal/service"
)

// SlotHandler handles slot inventory endpoints.
type SlotHandler struct {
	slots service.SlotService
}

// NewSlotHandler creates a new slot handler.
func NewSlotHandler(slots service.SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

// CreateSlotRequest represents a new slot. Date is YYYY-MM-DD or RFC 3339.
type CreateSlotRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Service   string `json:"service" validate:"required,uuid"`
}

// BulkCreateSlotsRequest represents several slots created together.
type BulkCreateSlotsRequest struct {
	Slots []CreateSlotRequest `json:"slots" validate:"required,min=1,dive"`
}

// UpdateSlotRequest represents a partial slot update.
type UpdateSlotRequest struct {
	Date      *string `json:"date"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	IsBooked  *bool   `json:"isBooked"`
}

func (r CreateSlotRequest) input() (service.CreateSlotInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return service.CreateSlotInput{}, badRequest("date must be YYYY-MM-DD", "INVALID_DATE")
	}
	serviceID, err := uuid.Parse(r.Service)
	if err != nil {
		return service.CreateSlotInput{}, badRequest("Invalid service", "INVALID_ID")
	}
	return service.CreateSlotInput{
		Date:      date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		ServiceID: serviceID,
	}, nil
}

// Available godoc
// @Summary List available slots
// @Tags slots
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD)"
// @Param serviceId query string false "Service ID"
// @Success 200 {object} Response{data=[]model.Slot}
// @Failure 400 {object} errors.ErrorResponse
// @Router /slots/available [get]
func (h *SlotHandler) Available(c echo.Context) error {
	var filter repository.SlotFilter

	if raw := c.QueryParam("date"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return badRequest("date must be YYYY-MM-DD", "INVALID_DATE")
		}
		filter.Date = &date
	}
	if raw := c.QueryParam("serviceId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest("Invalid serviceId", "INVALID_ID")
		}
		filter.ServiceID = &id
	}

	slots, err := h.slots.Available(c.Request().Context(), filter)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Slots fetched successfully", slots)
}

// Create godoc
// @Summary Create a slot
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSlotRequest true "Slot data"
// @Success 201 {object} Response{data=model.Slot}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /slots [post]
func (h *SlotHandler) Create(c echo.Context) error {
	var req CreateSlotRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}

	slot, err := h.slots.Create(c.Request().Context(), in)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "Slot created successfully", slot)
}

// CreateBulk godoc
// @Summary Create several slots at once
// @Description Either every slot is created or none is.
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkCreateSlotsRequest true "Slots"
// @Success 201 {object} Response{data=[]model.Slot}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /slots/bulk [post]
func (h *SlotHandler) CreateBulk(c echo.Context) error {
	var req BulkCreateSlotsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	inputs := make([]service.CreateSlotInput, len(req.Slots))
	for i, item := range req.Slots {
		in, err := item.input()
		if err != nil {
			return err
		}
		inputs[i] = in
	}

	slots, err := h.slots.CreateBulk(c.Request().Context(), inputs)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "Slots created successfully", slots)
}

// Update godoc
// @Summary Update a slot
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param request body UpdateSlotRequest true "Fields to change"
// @Success 200 {object} Response{data=model.Slot}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /slots/{id} [put]
func (h *SlotHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateSlotRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := service.UpdateSlotInput{StartTime: req.StartTime, EndTime: req.EndTime, IsBooked: req.IsBooked}
	if req.Date != nil {
		var date time.Time
		if date, err = parseDate(*req.Date); err != nil {
			return badRequest("date must be YYYY-MM-DD", "INVALID_DATE")
		}
		in.Date = &date
	}

	slot, err := h.slots.Update(c.Request().Context(), id, in)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Slot updated successfully", slot)
}

// Delete godoc
// @Summary Delete a slot
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /slots/{id} [delete]
func (h *SlotHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.slots.Delete(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Slot deleted successfully", nil)
}

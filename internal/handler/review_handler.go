package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"carwash/internal/service"
)

// ReviewHandler handles review endpoints.
type ReviewHandler struct {
	reviews service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReviewRequest represents a new review.
type CreateReviewRequest struct {
	ServiceID string `json:"serviceId" validate:"required,uuid"`
	BookingID string `json:"bookingId" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required,max=2000"`
}

// List godoc
// @Summary List reviews, newest first
// @Tags reviews
// @Produce json
// @Success 200 {object} Response{data=[]model.Review}
// @Router /reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	reviews, err := h.reviews.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Reviews fetched successfully", reviews)
}

// ListByService godoc
// @Summary List a service's reviews, newest first
// @Tags reviews
// @Produce json
// @Param serviceId path string true "Service ID"
// @Success 200 {object} Response{data=[]model.Review}
// @Failure 400 {object} errors.ErrorResponse
// @Router /reviews/service/{serviceId} [get]
func (h *ReviewHandler) ListByService(c echo.Context) error {
	serviceID, err := pathID(c, "serviceId")
	if err != nil {
		return err
	}
	reviews, err := h.reviews.ListByService(c.Request().Context(), serviceID)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Reviews fetched successfully", reviews)
}

// Create godoc
// @Summary Post a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReviewRequest true "Review"
// @Success 201 {object} Response{data=model.Review}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}
	var req CreateReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	serviceID, _ := uuid.Parse(req.ServiceID)
	bookingID, _ := uuid.Parse(req.BookingID)

	review, err := h.reviews.Create(c.Request().Context(), service.CreateReviewInput{
		UserID:    who.UserID,
		ServiceID: serviceID,
		BookingID: bookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "Review created successfully", review)
}

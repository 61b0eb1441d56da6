package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"carwash/internal/service"
)

// ServiceHandler handles catalog endpoints.
type ServiceHandler struct {
	catalog service.CatalogService
}

// NewServiceHandler creates a new catalog handler.
func NewServiceHandler(catalog service.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// CreateServiceRequest represents a new catalog entry.
type CreateServiceRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	Duration    int             `json:"duration" validate:"omitempty,min=1"`
	Image       string          `json:"image" validate:"omitempty,url"`
}

// UpdateServiceRequest represents a partial catalog update.
type UpdateServiceRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
	Duration    *int             `json:"duration" validate:"omitempty,min=1"`
	Image       *string          `json:"image"`
	IsActive    *bool            `json:"isActive"`
}

// List godoc
// @Summary List active services
// @Tags services
// @Produce json
// @Success 200 {object} Response{data=[]model.Service}
// @Failure 500 {object} errors.ErrorResponse
// @Router /services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	services, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Services fetched successfully", services)
}

// Get godoc
// @Summary Get a service
// @Tags services
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} Response{data=model.Service}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /services/{id} [get]
func (h *ServiceHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	svc, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Service fetched successfully", svc)
}

// Create godoc
// @Summary Create a service
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateServiceRequest true "Service data"
// @Success 201 {object} Response{data=model.Service}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	var req CreateServiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	svc, err := h.catalog.Create(c.Request().Context(), service.CreateServiceInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Image:       req.Image,
	})
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "Service created successfully", svc)
}

// Update godoc
// @Summary Update a service
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Param request body UpdateServiceRequest true "Fields to change"
// @Success 200 {object} Response{data=model.Service}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /services/{id} [put]
func (h *ServiceHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateServiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	svc, err := h.catalog.Update(c.Request().Context(), id, service.UpdateServiceInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Image:       req.Image,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Service updated successfully", svc)
}

// Delete godoc
// @Summary Delete a service
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /services/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.Delete(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Service deleted successfully", nil)
}

// UploadImage godoc
// @Summary Upload a service image
// @Tags services
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Param image formData file true "Image file"
// @Success 200 {object} Response{data=model.Service}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /services/{id}/image [put]
func (h *ServiceHandler) UploadImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	file, closeFile, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeFile()

	svc, err := h.catalog.SetImage(c.Request().Context(), id, file)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "Service image updated successfully", svc)
}

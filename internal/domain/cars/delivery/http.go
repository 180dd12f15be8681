package delivery

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vroomprestige/vroom-api/internal/domain/cars"
	"github.com/vroomprestige/vroom-api/pkg/middleware"
	"github.com/vroomprestige/vroom-api/pkg/response"
)

type CarUsecase interface {
	ListCars(ctx context.Context, filter cars.Filter) ([]cars.CarRow, error)
	ListFeatured(ctx context.Context) ([]cars.CarRow, error)
	ListBrands(ctx context.Context) ([]cars.Brand, error)
	ListTypes(ctx context.Context) ([]cars.VehicleType, error)
	CreateCar(ctx context.Context, req cars.CreateCarRequest) (*cars.CreateCarResponse, error)
	UpdateCar(ctx context.Context, carID int, req cars.UpdateCarRequest) (*cars.UpdateCarResult, error)
	DeleteCar(ctx context.Context, carID int) error
}

type CarHandler struct {
	ctx     context.Context
	usecase CarUsecase
}

func NewCarHandler(ctx context.Context, usecase CarUsecase) *CarHandler {
	return &CarHandler{
		ctx:     ctx,
		usecase: usecase,
	}
}

// GetCarList serves GET /api/cars?brand=&type=&search=
func (h *CarHandler) GetCarList(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	filter := cars.Filter{
		Brand:  c.QueryParam("brand"),
		Type:   c.QueryParam("type"),
		Search: c.QueryParam("search"),
	}

	rows, err := h.usecase.ListCars(ctx, filter)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Failed to list cars")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Int("count", len(rows)).Msg("Cars listed")
	return response.Success(c, http.StatusOK, "success", rows)
}

// GetFeaturedCars serves GET /api/cars/featured
func (h *CarHandler) GetFeaturedCars(c echo.Context) error {
	ctx := h.ctx

	rows, err := h.usecase.ListFeatured(ctx)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "success", rows)
}

// CreateCar serves POST /api/admin/cars
func (h *CarHandler) CreateCar(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	var req cars.CreateCarRequest
	if err := c.Bind(&req); err != nil {
		logger.Error().Err(err).Msg("Failed to bind car payload")
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		logger.Warn().Err(err).Msg("Car validation failed")
		return response.Error(c, http.StatusBadRequest, "missing_required_fields", err.Error())
	}

	result, err := h.usecase.CreateCar(ctx, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			logger.Warn().Str("reason", apiErr.Message).Msg("Car creation rejected")
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Failed to create car")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Int("car_id", result.ID).Msg("Car created")
	return response.Success(c, http.StatusCreated, "car_created_successfully", result)
}

// UpdateCar serves PUT /api/admin/cars/:id
func (h *CarHandler) UpdateCar(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_car_id", c.Param("id"))
	}

	var req cars.UpdateCarRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	result, err := h.usecase.UpdateCar(ctx, carID, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Int("car_id", carID).Msg("Failed to update car")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	if result.NoChanges {
		logger.Info().Int("car_id", carID).Msg("Car update was a no-op")
		return response.Success(c, http.StatusOK, "no_changes_detected", result)
	}

	logger.Info().Int("car_id", carID).Int64("affected_rows", result.AffectedRows).Msg("Car updated")
	return response.Success(c, http.StatusOK, "car_updated_successfully", result)
}

// DeleteCar serves DELETE /api/admin/cars/:id
func (h *CarHandler) DeleteCar(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_car_id", c.Param("id"))
	}

	if err := h.usecase.DeleteCar(ctx, carID); err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Int("car_id", carID).Msg("Failed to delete car")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Int("car_id", carID).Msg("Car deleted")
	return response.Success(c, http.StatusOK, "car_deleted_successfully", nil)
}

package delivery

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vroomprestige/vroom-api/internal/domain/reservations"
	"github.com/vroomprestige/vroom-api/pkg/middleware"
	"github.com/vroomprestige/vroom-api/pkg/response"
)

type ReservationUsecase interface {
	ListAll(ctx context.Context) ([]reservations.Row, error)
	ListForUser(ctx context.Context, userID string) ([]reservations.Row, error)
	CreateSelf(ctx context.Context, userID string, req reservations.CreateRequest) (*reservations.CreateResponse, error)
	AdminCreate(ctx context.Context, req reservations.AdminWriteRequest) (*reservations.AdminWriteResponse, error)
	AdminUpdate(ctx context.Context, reservationID string, req reservations.AdminWriteRequest) (*reservations.AdminWriteResponse, error)
	AdminDelete(ctx context.Context, reservationID string) error
}

type ReservationHandler struct {
	ctx     context.Context
	usecase ReservationUsecase
}

func NewReservationHandler(ctx context.Context, usecase ReservationUsecase) *ReservationHandler {
	return &ReservationHandler{
		ctx:     ctx,
		usecase: usecase,
	}
}

// CreateReservation serves POST /api/reservations (self-service)
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	user, ok := middleware.GetSessionUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
	}

	var req reservations.CreateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.CreateSelf(ctx, user.ID, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Failed to create reservation")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("reservation_id", result.ID).Str("user_id", user.ID).Msg("Reservation created")
	return response.Success(c, http.StatusCreated, "reservation_created_successfully", result)
}

// GetUserReservations serves GET /api/reservations/user
func (h *ReservationHandler) GetUserReservations(c echo.Context) error {
	ctx := h.ctx

	user, ok := middleware.GetSessionUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
	}

	rows, err := h.usecase.ListForUser(ctx, user.ID)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "success", rows)
}

// GetAllReservations serves GET /api/admin/reservations
func (h *ReservationHandler) GetAllReservations(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	rows, err := h.usecase.ListAll(ctx)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Int("count", len(rows)).Msg("Reservations listed for admin dashboard")
	return response.Success(c, http.StatusOK, "success", rows)
}

// CreateAdminReservation serves POST /api/admin/reservations
func (h *ReservationHandler) CreateAdminReservation(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	var req reservations.AdminWriteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.AdminCreate(ctx, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Failed to create reservation")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("reservation_id", result.ID).Str("status", result.Status).Msg("Admin reservation created")
	return response.Success(c, http.StatusCreated, "reservation_created_successfully", result)
}

// UpdateReservation serves PUT /api/admin/reservations/:id
func (h *ReservationHandler) UpdateReservation(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	reservationID := c.Param("id")

	var req reservations.AdminWriteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.AdminUpdate(ctx, reservationID, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Str("reservation_id", reservationID).Msg("Failed to update reservation")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("reservation_id", reservationID).Str("status", result.Status).Msg("Reservation updated")
	return response.Success(c, http.StatusOK, "reservation_updated_successfully", result)
}

// DeleteReservation serves DELETE /api/admin/reservations/:id
func (h *ReservationHandler) DeleteReservation(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	reservationID := c.Param("id")

	if err := h.usecase.AdminDelete(ctx, reservationID); err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Str("reservation_id", reservationID).Msg("Failed to delete reservation")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("reservation_id", reservationID).Msg("Reservation deleted")
	return response.Success(c, http.StatusOK, "reservation_deleted_successfully", nil)
}

package delivery

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vroomprestige/vroom-api/internal/domain/users"
	"github.com/vroomprestige/vroom-api/pkg/middleware"
	"github.com/vroomprestige/vroom-api/pkg/response"
)

// AdminUserHandler serves the /api/admin/users surface.
type AdminUserHandler struct {
	ctx     context.Context
	usecase UserUsecase
}

func NewAdminUserHandler(ctx context.Context, usecase UserUsecase) *AdminUserHandler {
	return &AdminUserHandler{
		ctx:     ctx,
		usecase: usecase,
	}
}

// GetUserList serves GET /api/admin/users
func (h *AdminUserHandler) GetUserList(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	summaries, err := h.usecase.ListUsers(ctx)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Failed to list users")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Int("count", len(summaries)).Msg("Users listed")
	return response.Success(c, http.StatusOK, "success", summaries)
}

// CreateUser serves POST /api/admin/users
func (h *AdminUserHandler) CreateUser(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	var req users.AdminCreateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		logger.Warn().Err(err).Msg("User validation failed")
		return response.Error(c, http.StatusBadRequest, "missing_required_fields", err.Error())
	}

	result, err := h.usecase.AdminCreate(ctx, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			logger.Warn().Str("reason", apiErr.Message).Str("email", req.Email).Msg("User creation rejected")
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Failed to create user")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("user_id", result.ID).Msg("User created by admin")
	return response.Success(c, http.StatusCreated, "user_created_successfully", result)
}

// UpdateUser serves PUT /api/admin/users/:id
func (h *AdminUserHandler) UpdateUser(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	userID := c.Param("id")

	var req users.AdminUpdateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := h.usecase.AdminUpdate(ctx, userID, req); err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to update user")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("user_id", userID).Msg("User updated by admin")
	return response.Success(c, http.StatusOK, "user_updated_successfully", nil)
}

// DeleteUser serves DELETE /api/admin/users/:id
func (h *AdminUserHandler) DeleteUser(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	userID := c.Param("id")

	caller, ok := middleware.GetSessionUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "no_session_found", nil)
	}

	if err := h.usecase.AdminDelete(ctx, userID, caller.ID); err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to delete user")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("user_id", userID).Msg("User deleted by admin")
	return response.Success(c, http.StatusOK, "user_deleted_successfully", nil)
}

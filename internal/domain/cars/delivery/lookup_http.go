package delivery

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vroomprestige/vroom-api/pkg/response"
)

// LookupHandler serves the read-mostly brand and vehicle-type tables.
type LookupHandler struct {
	ctx     context.Context
	usecase CarUsecase
}

func NewLookupHandler(ctx context.Context, usecase CarUsecase) *LookupHandler {
	return &LookupHandler{
		ctx:     ctx,
		usecase: usecase,
	}
}

// GetAllBrands serves GET /api/cars/brands
func (h *LookupHandler) GetAllBrands(c echo.Context) error {
	brands, err := h.usecase.ListBrands(h.ctx)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "success", brands)
}

// GetAllTypes serves GET /api/cars/types
func (h *LookupHandler) GetAllTypes(c echo.Context) error {
	types, err := h.usecase.ListTypes(h.ctx)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "success", types)
}

package delivery

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vroomprestige/vroom-api/internal/domain/users"
	"github.com/vroomprestige/vroom-api/internal/platform/session"
	"github.com/vroomprestige/vroom-api/pkg/middleware"
	"github.com/vroomprestige/vroom-api/pkg/response"
)

type UserUsecase interface {
	Register(ctx context.Context, req users.RegisterRequest) (*users.User, error)
	Login(ctx context.Context, req users.LoginRequest) (*users.User, error)
	GetProfile(ctx context.Context, userID string) (*users.User, error)
	UpdateProfile(ctx context.Context, userID string, req users.ProfileUpdateRequest) error
	ListUsers(ctx context.Context) ([]users.Summary, error)
	AdminCreate(ctx context.Context, req users.AdminCreateRequest) (*users.AdminCreateResponse, error)
	AdminUpdate(ctx context.Context, userID string, req users.AdminUpdateRequest) error
	AdminDelete(ctx context.Context, userID string, callerID string) error
}

type AuthHandler struct {
	ctx      context.Context
	usecase  UserUsecase
	sessions *session.Store
}

func NewAuthHandler(ctx context.Context, usecase UserUsecase, sessions *session.Store) *AuthHandler {
	return &AuthHandler{
		ctx:      ctx,
		usecase:  usecase,
		sessions: sessions,
	}
}

func sessionUserFrom(user *users.User) session.User {
	return session.User{
		ID:      user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Name:    user.Name,
		Surname: user.Surname,
		Photo:   user.Photo,
	}
}

// Register serves POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	var req users.RegisterRequest
	if err := c.Bind(&req); err != nil {
		logger.Error().Err(err).Msg("Failed to bind register payload")
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		logger.Warn().Err(err).Msg("Register validation failed")
		return response.Error(c, http.StatusBadRequest, "missing_required_fields", err.Error())
	}

	user, err := h.usecase.Register(ctx, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			logger.Warn().Str("reason", apiErr.Message).Str("email", req.Email).Msg("Registration rejected")
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Failed to register user")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	logger.Info().Str("user_id", user.ID).Msg("User registered")
	return response.Success(c, http.StatusCreated, "user_registered_successfully", user)
}

// Login serves POST /api/auth/login. On success it creates a server-side
// session and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	var req users.LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "missing_required_fields", err.Error())
	}

	user, err := h.usecase.Login(ctx, req)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			logger.Warn().Str("email", req.Email).Msg("Login rejected")
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Msg("Login failed")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	sessionID, err := h.sessions.Create(ctx, sessionUserFrom(user))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create session")
		return response.Error(c, http.StatusInternalServerError, "session_store_error", err.Error())
	}
	c.SetCookie(session.NewCookie(sessionID))

	logger.Info().Str("user_id", user.ID).Msg("User logged in")
	return response.Success(c, http.StatusOK, "login_successful", user)
}

// Logout serves POST /api/auth/logout. It destroys the server-side session
// and expires the cookie; logging out without a session is not an error.
func (h *AuthHandler) Logout(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	cookie, err := c.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(ctx, cookie.Value); err != nil {
			logger.Error().Err(err).Msg("Failed to delete session")
			return response.Error(c, http.StatusInternalServerError, "session_store_error", err.Error())
		}
	}
	c.SetCookie(session.ExpiredCookie())

	logger.Info().Msg("User logged out")
	return response.Success(c, http.StatusOK, "logout_successful", nil)
}

// Check serves GET /api/auth/check. It reports whether the caller holds a
// valid session without requiring one.
func (h *AuthHandler) Check(c echo.Context) error {
	ctx := h.ctx

	payload := map[string]interface{}{
		"is_authenticated": false,
		"user":             nil,
		"session_id":       "",
	}

	cookie, err := c.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return response.Success(c, http.StatusOK, "success", payload)
	}

	user, err := h.sessions.Get(ctx, cookie.Value)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "session_store_error", err.Error())
	}
	if user == nil || user.ID == "" {
		return response.Success(c, http.StatusOK, "success", payload)
	}

	payload["is_authenticated"] = true
	payload["user"] = user
	payload["session_id"] = cookie.Value
	return response.Success(c, http.StatusOK, "success", payload)
}

// GetProfile serves GET /api/users/profile
func (h *AuthHandler) GetProfile(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	sessUser, ok := middleware.GetSessionUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "no_session_found", nil)
	}

	user, err := h.usecase.GetProfile(ctx, sessUser.ID)
	if err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Str("user_id", sessUser.ID).Msg("Failed to load profile")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	return response.Success(c, http.StatusOK, "success", user)
}

// UpdateProfile serves PUT /api/users/profile. After a successful write the
// session payload is refreshed so the cached name stays in sync.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	logger := middleware.GetLogger(c)
	ctx := h.ctx

	sessUser, ok := middleware.GetSessionUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "no_session_found", nil)
	}

	var req users.ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}

	if err := h.usecase.UpdateProfile(ctx, sessUser.ID, req); err != nil {
		if apiErr, ok := err.(*response.APIError); ok {
			return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
		}
		logger.Error().Err(err).Str("user_id", sessUser.ID).Msg("Failed to update profile")
		return response.Error(c, http.StatusInternalServerError, "internal_server_error", err.Error())
	}

	sessUser.Name = req.Name
	sessUser.Surname = req.Surname
	if sessionID := middleware.GetSessionID(c); sessionID != "" {
		if err := h.sessions.Update(ctx, sessionID, sessUser); err != nil {
			logger.Warn().Err(err).Msg("Failed to refresh session payload")
		}
	}

	logger.Info().Str("user_id", sessUser.ID).Msg("Profile updated")
	return response.Success(c, http.StatusOK, "profile_updated_successfully", nil)
}

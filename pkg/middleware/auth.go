package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vroomprestige/vroom-api/internal/platform/session"
	"github.com/vroomprestige/vroom-api/pkg/constant"
	"github.com/vroomprestige/vroom-api/pkg/response"
	"github.com/vroomprestige/vroom-api/pkg/token"
)

// SessionAuth resolves the caller to a stored session user. Two paths exist:
// the session cookie written at login, and a signed X-Service-Token credential
// for trusted callers. A valid service token binds a session as a side effect
// when the request carries none, matching the historical login-free flow for
// the mobile client.
func SessionAuth(store *session.Store, tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			logger := GetLogger(c)
			ctx := c.Request().Context()

			if raw := c.Request().Header.Get(constant.HeaderServiceToken); raw != "" {
				claims, err := tokens.Validate(raw)
				if err != nil {
					logger.Warn().Err(err).Msg("Service token rejected")
					return response.Error(c, http.StatusUnauthorized, "invalid_service_token", err.Error())
				}

				user := resolveCookieUser(c, store)
				if user == nil {
					minted := session.User{ID: claims.UserID, Role: claims.Role}
					sid, err := store.Create(ctx, minted)
					if err != nil {
						return response.Error(c, http.StatusInternalServerError, "session_store_error", err.Error())
					}
					c.SetCookie(session.NewCookie(sid))
					c.Set(string(constant.CtxKeySessionID), sid)
					c.Set(string(constant.CtxKeySessionUser), minted)
					logger.Info().Str("user_id", claims.UserID).Msg("Session bound from service token")
					return next(c)
				}

				c.Set(string(constant.CtxKeySessionUser), *user)
				return next(c)
			}

			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return response.Error(c, http.StatusUnauthorized, "no_session_found", nil)
			}

			user, err := store.Get(ctx, cookie.Value)
			if err != nil {
				return response.Error(c, http.StatusInternalServerError, "session_store_error", err.Error())
			}
			if user == nil || user.ID == "" {
				return response.Error(c, http.StatusUnauthorized, "session_expired_or_invalid", nil)
			}

			c.Set(string(constant.CtxKeySessionID), cookie.Value)
			c.Set(string(constant.CtxKeySessionUser), *user)
			return next(c)
		}
	}
}

func resolveCookieUser(c echo.Context, store *session.Store) *session.User {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	user, err := store.Get(c.Request().Context(), cookie.Value)
	if err != nil || user == nil || user.ID == "" {
		return nil
	}
	c.Set(string(constant.CtxKeySessionID), cookie.Value)
	return user
}

// GetSessionUser extracts the authenticated session user from echo context.
func GetSessionUser(c echo.Context) (session.User, bool) {
	user, ok := c.Get(string(constant.CtxKeySessionUser)).(session.User)
	return user, ok
}

// GetSessionID extracts the current session id from echo context.
func GetSessionID(c echo.Context) string {
	sid, _ := c.Get(string(constant.CtxKeySessionID)).(string)
	return sid
}

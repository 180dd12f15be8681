package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	carDelivery "github.com/vroomprestige/vroom-api/internal/domain/cars/delivery"
	reservationDelivery "github.com/vroomprestige/vroom-api/internal/domain/reservations/delivery"
	userDelivery "github.com/vroomprestige/vroom-api/internal/domain/users/delivery"
	"github.com/vroomprestige/vroom-api/internal/platform/imageproxy"
	"github.com/vroomprestige/vroom-api/internal/platform/session"
	appMiddleware "github.com/vroomprestige/vroom-api/pkg/middleware"
	"github.com/vroomprestige/vroom-api/pkg/response"
	"github.com/vroomprestige/vroom-api/pkg/token"
)

func setupRoutes(
	e *echo.Echo,
	authHandler *userDelivery.AuthHandler,
	adminUserHandler *userDelivery.AdminUserHandler,
	carHandler *carDelivery.CarHandler,
	lookupHandler *carDelivery.LookupHandler,
	reservationHandler *reservationDelivery.ReservationHandler,
	proxyService *imageproxy.Service,
	sessionStore *session.Store,
	tokenService *token.Service,
) {
	// Middleware
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:8100"},
		AllowCredentials: true,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// Custom error handler
	e.HTTPErrorHandler = response.CustomErrorHandler

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status": "ok",
		})
	})

	sessionAuth := appMiddleware.SessionAuth(sessionStore, tokenService)

	api := e.Group("/api")

	// Auth routes (Public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/check", authHandler.Check)
	}

	// Car catalog routes (Public)
	cars := api.Group("/cars")
	{
		cars.GET("", carHandler.GetCarList)          // GET /api/cars?brand=&type=&search=
		cars.GET("/featured", carHandler.GetFeaturedCars)
		cars.GET("/brands", lookupHandler.GetAllBrands)
		cars.GET("/types", lookupHandler.GetAllTypes)
	}

	// Image proxy (Public)
	api.GET("/proxy-image", proxyService.HandleProxyImage) // GET /api/proxy-image?url=...

	// Profile routes (require session)
	users := api.Group("/users")
	{
		users.GET("/profile", authHandler.GetProfile, sessionAuth)
		users.PUT("/profile", authHandler.UpdateProfile, sessionAuth)
	}

	// Reservation routes (require session)
	reservations := api.Group("/reservations")
	{
		reservations.POST("", reservationHandler.CreateReservation, sessionAuth)
		reservations.GET("/user", reservationHandler.GetUserReservations, sessionAuth)
	}

	// Admin routes (require session + elevated role)
	admin := api.Group("/admin")
	admin.Use(sessionAuth, appMiddleware.AdminOnly())
	{
		adminUsers := admin.Group("/users")
		{
			adminUsers.GET("", adminUserHandler.GetUserList)
			adminUsers.POST("", adminUserHandler.CreateUser)
			adminUsers.PUT("/:id", adminUserHandler.UpdateUser)
			adminUsers.DELETE("/:id", adminUserHandler.DeleteUser)
		}

		adminCars := admin.Group("/cars")
		{
			adminCars.POST("", carHandler.CreateCar)
			adminCars.PUT("/:id", carHandler.UpdateCar)
			adminCars.DELETE("/:id", carHandler.DeleteCar)
		}

		adminReservations := admin.Group("/reservations")
		{
			adminReservations.GET("", reservationHandler.GetAllReservations)
			adminReservations.POST("", reservationHandler.CreateAdminReservation)
			adminReservations.PUT("/:id", reservationHandler.UpdateReservation)
			adminReservations.DELETE("/:id", reservationHandler.DeleteReservation)
		}
	}
}

package routes

import (
	"net/http"
	"time"

	"trimly/handlers"
	"trimly/middleware"
	"trimly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the session and credential endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/session/init", hb.Auth.InitSessionHandler)

	api := r.Group("/api/auth")
	{
		api.POST("/otp/send", hb.Auth.SendOtpHandler)
		api.POST("/otp/verify", hb.Auth.VerifyOtpHandler)
		api.POST("/login", hb.Auth.LoginHandler)
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/complete-registration", hb.Auth.CompleteRegistrationHandler)
		api.POST("/refresh", hb.Auth.RefreshHandler)
		api.POST("/logout", hb.Auth.LogoutHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", hb.Auth.MeHandler)
	}
}

// RegisterProfileRoutes registers the client profile endpoints.
func RegisterProfileRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/profile")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.Profile.GetProfileHandler)
		api.PUT("", hb.Profile.UpdateProfileHandler)
	}
}

// RegisterBookingRoutes registers the booking wizard endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Public catalog endpoints.
	r.GET("/api/services", hb.Booking.GetServicesHandler)
	r.GET("/api/slots", hb.Booking.GetSlotsHandler)

	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.Use(middleware.JWTAuthMiddleware())
		bookingGroup.POST("/draft", hb.Booking.CreateDraftHandler)
		bookingGroup.PUT("/draft/:draftID", hb.Booking.UpdateDraftHandler)
		bookingGroup.POST("/draft/:draftID/confirm", hb.Booking.ConfirmDraftHandler)
	}

	history := r.Group("/api/bookings")
	{
		history.Use(middleware.JWTAuthMiddleware())
		history.GET("", hb.Booking.ListBookingsHandler)
		history.GET("/stats", hb.Booking.StatsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Device-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterProfileRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r)
}

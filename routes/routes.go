package routes

import (
	"time"

	"interviewhub/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers endpoints that need no caller identity.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/interviewers", hb.Interviewers.ListInterviewers)
		api.GET("/interviewers/:id", hb.Interviewers.GetInterviewer)
		api.GET("/interviewers/:id/availability", hb.Interviewers.GetAvailability)
		api.GET("/interviewers/:id/rating", hb.Reviews.GetRating)
		api.GET("/interviewers/:id/reviews", hb.Reviews.ListReviews)
		api.POST("/pricing/quote", hb.Bookings.Quote)

		// Authenticated by the Stripe signature header.
		api.POST("/payments/webhook", hb.Payments.Webhook)
	}
}

// RegisterInterviewerRoutes registers the signed-in interviewer's profile endpoints.
func RegisterInterviewerRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	me := r.Group("/api/interviewers/me")
	{
		me.Use(auth)
		me.PUT("", hb.Interviewers.UpsertProfile)
		me.PUT("/availability", hb.Interviewers.UpdateAvailability)
		me.PUT("/rate", hb.Interviewers.UpdateRate)
		me.POST("/image", hb.Interviewers.UploadProfileImage)
	}
}

// RegisterCandidateRoutes registers the signed-in candidate's profile endpoints.
func RegisterCandidateRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	me := r.Group("/api/candidates/me")
	{
		me.Use(auth)
		me.GET("", hb.Candidates.GetProfile)
		me.PUT("", hb.Candidates.UpsertProfile)
		me.POST("/resume", hb.Candidates.UploadResume)
	}
}

// RegisterBookingRoutes registers booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(auth)
		bookingGroup.POST("", hb.Bookings.CreateBooking)
		bookingGroup.GET("", hb.Bookings.ListBookings)
		bookingGroup.GET("/:id", hb.Bookings.GetBooking)
		bookingGroup.PUT("/:id/complete", hb.Bookings.CompleteBooking)
		bookingGroup.PUT("/:id/cancel", hb.Bookings.CancelBooking)
	}
}

// RegisterReviewRoutes registers review submission.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	r.POST("/api/reviews", auth, hb.Reviews.SubmitReview)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, adminAuth gin.HandlerFunc) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(adminAuth)
		adminGroup.DELETE("/reviews/:id", hb.Admin.DeleteReview)
		adminGroup.POST("/interviewers/:id/recompute", hb.Admin.Recompute)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth, adminAuth gin.HandlerFunc) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterPublicRoutes(r, hb)
	RegisterInterviewerRoutes(r, hb, auth)
	RegisterCandidateRoutes(r, hb, auth)
	RegisterBookingRoutes(r, hb, auth)
	RegisterReviewRoutes(r, hb, auth)
	RegisterAdminRoutes(r, hb, adminAuth)
}

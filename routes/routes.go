package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atalvarez9/events-directory-backend/config"
	"github.com/atalvarez9/events-directory-backend/internal/attendee"
	"github.com/atalvarez9/events-directory-backend/internal/event"
	"github.com/atalvarez9/events-directory-backend/middleware"
)

// Setup registers the API surface.
func Setup(router *gin.Engine, cfg *config.Config, eventHandler *event.Handler, attendeeHandler *attendee.Handler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimiter())

	// Listing and detail work anonymously; an authenticated caller
	// additionally sees their own unapproved events.
	public := api.Group("")
	public.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		public.GET("/events", eventHandler.ListEvents)
		public.GET("/events/:id", eventHandler.GetEvent)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.POST("/events", eventHandler.CreateEvent)
		protected.PUT("/events/:id", eventHandler.UpdateEvent)

		protected.PATCH("/events/:id/approve", eventHandler.ApproveEvent)
		protected.PATCH("/events/:id/reject", eventHandler.RejectEvent)
		protected.GET("/events/:id/history", eventHandler.EventHistory)

		protected.POST("/events/:id/attendees", attendeeHandler.RSVP)
		protected.DELETE("/events/:id/attendees", attendeeHandler.CancelRSVP)
	}
}

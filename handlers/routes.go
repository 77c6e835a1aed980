package handlers

import (
	"log"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"

	"ticketdesk/security"
	"ticketdesk/utils"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Events   *EventHandler
	Bookings *BookingHandler
	IDCards  *IDCardHandler
	Admin    *AdminHandler
	Limiter  *security.RateLimiter
	Redis    *redis.Client
}

// Bind registers the API routes on serve.
func Bind(app core.App, deps Deps) {
	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Event catalog endpoints
		e.Router.GET("/api/events", deps.Events.List)
		e.Router.POST("/api/events", deps.Events.Create)
		e.Router.DELETE("/api/events/{eventId}", deps.Events.Delete)

		// Booking endpoints, rate limited
		bookings := e.Router.Group("/api/bookings")
		if deps.Limiter != nil {
			bookings.BindFunc(deps.Limiter.Middleware())
		}
		bookings.POST("", deps.Bookings.Initiate)
		bookings.POST("/{pendingId}/confirm", deps.Bookings.Confirm)
		bookings.POST("/{pendingId}/abandon", deps.Bookings.Abandon)

		// Ticket ledger endpoints
		e.Router.GET("/api/tickets", deps.Bookings.ListTickets)
		e.Router.DELETE("/api/tickets/{ticketId}", deps.Bookings.CancelTicket)

		// ID card endpoints
		e.Router.GET("/api/idcards", deps.IDCards.List)
		e.Router.POST("/api/idcards", deps.IDCards.Issue)

		// Admin endpoints
		e.Router.GET("/api/admin/dashboard", deps.Admin.GetDashboard)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if deps.Redis != nil {
				if err := utils.RedisHealthCheck(deps.Redis); err != nil {
					return e.JSON(503, map[string]string{
						"status": "unhealthy",
						"error":  err.Error(),
					})
				}
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})
}

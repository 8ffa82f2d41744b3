package http

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the ride endpoints on g. createLimiter guards ride creation.
func (h *RidesHandler) RegisterRoutes(g *echo.Group, createLimiter ...echo.MiddlewareFunc) {
	ridesGroup := g.Group("/rides")
	ridesGroup.POST("", h.RequestRide, createLimiter...)
	ridesGroup.GET("", h.ListRides)
	ridesGroup.GET("/active", h.GetActiveRide)
	ridesGroup.GET("/events", h.StreamEvents)
	ridesGroup.GET("/ws", h.StreamEventsWS)
	ridesGroup.GET("/:rideID", h.GetRide)

	ridesGroup.POST("/:rideID/price", h.ProposePrice)
	ridesGroup.POST("/:rideID/accept", h.AcceptPrice)
	ridesGroup.POST("/:rideID/reject", h.RejectPrice)
	ridesGroup.POST("/:rideID/driver", h.AssignDriver)
	ridesGroup.POST("/:rideID/decline", h.DeclineRequest)
	ridesGroup.POST("/:rideID/start", h.StartRide)
	ridesGroup.POST("/:rideID/complete", h.CompleteRide)
	ridesGroup.POST("/:rideID/cancel", h.Cancel)

	g.GET("/drivers/me/requests", h.ListDriverInbox)
}

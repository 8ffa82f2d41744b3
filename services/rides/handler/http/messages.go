package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/riopardo/rides/internal/pkg/middleware"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/internal/utils"
	"github.com/riopardo/rides/services/rides"
)

// MessagesHandler handles the chat between a ride's passenger and driver
type MessagesHandler struct {
	messageUC rides.MessageUC
}

// NewMessagesHandler creates a new ride chat HTTP handler
func NewMessagesHandler(messageUC rides.MessageUC) *MessagesHandler {
	return &MessagesHandler{messageUC: messageUC}
}

// RegisterRoutes mounts the chat endpoints on g
func (h *MessagesHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/rides/:rideID/messages", h.SendMessage)
	g.GET("/rides/:rideID/messages", h.ListMessages)
}

// SendMessage stores a message for the ride's other participant
func (h *MessagesHandler) SendMessage(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	msg, err := h.messageUC.SendMessage(c.Request().Context(), c.Param("rideID"), actor, req.Content)
	if err != nil {
		return errorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Message sent", msg)
}

// ListMessages returns the ride's messages, oldest first, limited by ?limit=n
func (h *MessagesHandler) ListMessages(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return utils.BadRequestResponse(c, "limit must be a non-negative integer")
		}
		limit = n
	}

	list, err := h.messageUC.ListMessages(c.Request().Context(), c.Param("rideID"), actor, limit)
	if err != nil {
		return errorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", list)
}

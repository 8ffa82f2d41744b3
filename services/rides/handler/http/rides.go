package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/pkg/middleware"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/internal/pkg/websocket"
	"github.com/riopardo/rides/internal/utils"
	"github.com/riopardo/rides/services/rides"
)

const streamBuffer = 16

// RidesHandler handles HTTP requests for ride operations
type RidesHandler struct {
	rideUC   rides.RideUC
	stream   rides.RideStream
	messages rides.MessageStream
	ws       *websocket.Manager
}

// NewRidesHandler creates a new ride HTTP handler. stream may be nil, in
// which case the event stream endpoint answers 503.
func NewRidesHandler(rideUC rides.RideUC, stream rides.RideStream) *RidesHandler {
	return &RidesHandler{
		rideUC: rideUC,
		stream: stream,
		ws:     websocket.NewManager(),
	}
}

// WithMessageStream also pushes chat messages on the event streams
func (h *RidesHandler) WithMessageStream(messages rides.MessageStream) *RidesHandler {
	h.messages = messages
	return h
}

// RequestRide handles ride creation by a passenger
func (h *RidesHandler) RequestRide(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.CreateRideRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	ride, err := h.rideUC.RequestRide(c.Request().Context(), actor, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Ride requested", ride)
}

// ProposePrice handles the driver's price offer
func (h *RidesHandler) ProposePrice(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.ProposePriceRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	ride, err := h.rideUC.ProposePrice(c.Request().Context(), c.Param("rideID"), actor, req.Price)
	if err != nil {
		return errorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Price proposed", ride)
}

// AcceptPrice handles the passenger accepting the proposed price
func (h *RidesHandler) AcceptPrice(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.AcceptPriceRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	ride, err := h.rideUC.AcceptPrice(c.Request().Context(), c.Param("rideID"), actor, req.PaymentMethod)
	if err != nil {
		return errorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Price accepted", ride)
}

// AssignDriver handles re-targeting a driverless request
func (h *RidesHandler) AssignDriver(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.AssignDriverRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	ride, err := h.rideUC.AssignDriver(c.Request().Context(), c.Param("rideID"), actor, req.DriverID)
	if err != nil {
		return errorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver assigned", ride)
}

type simpleTransition func(ctx context.Context, rideID string, actor models.Actor) (*models.RideRequest, error)

// transition builds a handler for operations that carry no body
func (h *RidesHandler) transition(message string, run simpleTransition) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := middleware.ActorFromContext(c)
		if !ok {
			return utils.UnauthorizedResponse(c, "")
		}

		ride, err := run(c.Request().Context(), c.Param("rideID"), actor)
		if err != nil {
			return errorResponse(c, err)
		}
		return utils.SuccessResponse(c, http.StatusOK, message, ride)
	}
}

// RejectPrice handles the passenger rejecting the proposed price
func (h *RidesHandler) RejectPrice(c echo.Context) error {
	return h.transition("Price rejected", h.rideUC.RejectPrice)(c)
}

// DeclineRequest handles the driver declining the request
func (h *RidesHandler) DeclineRequest(c echo.Context) error {
	return h.transition("Ride declined", h.rideUC.DeclineRequest)(c)
}

// StartRide handles the driver picking the passenger up
func (h *RidesHandler) StartRide(c echo.Context) error {
	return h.transition("Ride started", h.rideUC.StartRide)(c)
}

// CompleteRide handles the end of the trip
func (h *RidesHandler) CompleteRide(c echo.Context) error {
	return h.transition("Ride completed", h.rideUC.CompleteRide)(c)
}

// Cancel handles cancellation by either participant
func (h *RidesHandler) Cancel(c echo.Context) error {
	return h.transition("Ride cancelled", h.rideUC.Cancel)(c)
}

// GetRide returns one ride the caller takes part in
func (h *RidesHandler) GetRide(c echo.Context) error {
	return h.transition("", h.rideUC.GetRide)(c)
}

// GetActiveRide returns the caller's current ride
func (h *RidesHandler) GetActiveRide(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	ride, err := h.rideUC.GetActiveRide(c.Request().Context(), actor)
	if err != nil {
		return errorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", ride)
}

// ListRides returns the caller's rides, filtered by ?status=a,b&limit=n
func (h *RidesHandler) ListRides(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	filter := models.RideFilter{Statuses: statusesParam(c)}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return utils.BadRequestResponse(c, "limit must be a non-negative integer")
		}
		filter.Limit = limit
	}

	list, err := h.rideUC.ListRides(c.Request().Context(), actor, filter)
	if err != nil {
		return errorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", list)
}

// ListDriverInbox returns the requests waiting on the driver's price
func (h *RidesHandler) ListDriverInbox(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	list, err := h.rideUC.ListDriverInbox(c.Request().Context(), actor)
	if err != nil {
		return errorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", list)
}

// StreamEvents pushes the caller's ride transitions and chat messages as
// server-sent events until the client goes away
func (h *RidesHandler) StreamEvents(c echo.Context) error {
	sub, err := h.subscribe(c)
	if sub == nil {
		return err
	}
	defer sub.close()

	ctx := c.Request().Context()
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	for {
		var (
			id, event string
			payload   interface{}
		)
		select {
		case <-ctx.Done():
			return nil
		case e := <-sub.events:
			id, event, payload = fmt.Sprintf("%s.%d", e.RequestID, e.Version), string(e.NewStatus), e
		case m := <-sub.messages:
			id, event, payload = m.ID, messageEvent, m
		}

		data, err := json.Marshal(payload)
		if err != nil {
			logger.ErrorCtx(ctx, "Failed to encode stream payload", logger.String("event", event), logger.Err(err))
			continue
		}
		if _, err := fmt.Fprintf(res, "id: %s\nevent: %s\ndata: %s\n\n", id, event, data); err != nil {
			return nil
		}
		res.Flush()
	}
}

// StreamEventsWS pushes the same events as StreamEvents over a websocket
func (h *RidesHandler) StreamEventsWS(c echo.Context) error {
	sub, err := h.subscribe(c)
	if sub == nil {
		return err
	}
	defer sub.close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	messages := make(chan websocket.Message)
	go func() {
		defer close(messages)
		for {
			var (
				msg websocket.Message
				err error
			)
			select {
			case <-ctx.Done():
				return
			case e := <-sub.events:
				msg, err = websocket.NewMessage(string(e.NewStatus), e)
			case m := <-sub.messages:
				msg, err = websocket.NewMessage(messageEvent, m)
			}
			if err != nil {
				logger.ErrorCtx(ctx, "Failed to encode stream payload", logger.Err(err))
				continue
			}
			select {
			case messages <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := h.ws.Stream(ctx, c, messages); err != nil {
		logger.WarnCtx(ctx, "Websocket upgrade failed", logger.Err(err))
	}
	return nil
}

// messageEvent names chat messages on the stream
const messageEvent = "message"

type subscription struct {
	events   chan models.RideEvent
	messages chan models.RideMessage
	stops    []func()
}

func (s *subscription) close() {
	for _, stop := range s.stops {
		stop()
	}
}

// subscribe registers buffered subscriptions scoped to the caller. On a nil
// subscription the error response is already written and err is the write
// result. Without a message stream the messages channel never delivers.
func (h *RidesHandler) subscribe(c echo.Context) (*subscription, error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return nil, utils.UnauthorizedResponse(c, "")
	}
	if h.stream == nil {
		return nil, utils.ServiceUnavailableResponse(c, "Event stream is not available")
	}

	filter := models.EventFilter{Statuses: statusesParam(c)}
	switch actor.Role {
	case models.RolePassenger:
		filter.PassengerID = actor.ID
	case models.RoleDriver:
		filter.DriverID = actor.ID
	default:
		return nil, utils.ForbiddenResponse(c, "")
	}

	ctx := c.Request().Context()
	sub := &subscription{
		events:   make(chan models.RideEvent, streamBuffer),
		messages: make(chan models.RideMessage, streamBuffer),
	}
	stop, err := h.stream.Subscribe(filter, func(_ context.Context, e models.RideEvent) {
		select {
		case sub.events <- e:
		default:
			logger.WarnCtx(ctx, "Dropping ride event for slow stream client",
				logger.String("ride_id", e.RequestID),
				logger.String("user_id", actor.ID))
		}
	})
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to subscribe to ride events", logger.Err(err))
		return nil, utils.ServiceUnavailableResponse(c, "Event stream is not available")
	}
	sub.stops = append(sub.stops, stop)

	if h.messages != nil {
		stop, err := h.messages.SubscribeMessages(actor.ID, func(_ context.Context, m models.RideMessage) {
			select {
			case sub.messages <- m:
			default:
				logger.WarnCtx(ctx, "Dropping ride message for slow stream client",
					logger.String("ride_id", m.RideID),
					logger.String("user_id", actor.ID))
			}
		})
		if err != nil {
			sub.close()
			logger.ErrorCtx(ctx, "Failed to subscribe to ride messages", logger.Err(err))
			return nil, utils.ServiceUnavailableResponse(c, "Event stream is not available")
		}
		sub.stops = append(sub.stops, stop)
	}
	return sub, nil
}

func statusesParam(c echo.Context) []models.RideStatus {
	var out []models.RideStatus
	for _, raw := range c.QueryParams()["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, models.RideStatus(s))
			}
		}
	}
	return out
}

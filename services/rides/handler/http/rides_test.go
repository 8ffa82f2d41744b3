package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/riopardo/rides/internal/pkg/middleware"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
	"github.com/riopardo/rides/services/rides/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	passenger = models.Passenger("P1")
	driver    = models.Driver("D1")
)

func sampleRide(status models.RideStatus) *models.RideRequest {
	return &models.RideRequest{
		ID:          "ride-1",
		PassengerID: passenger.ID,
		DriverID:    driver.ID,
		Origin:      models.TextPlace("Rua A"),
		Destination: models.TextPlace("Rua B"),
		Status:      status,
		Version:     1,
	}
}

// newContext builds an echo context for the given request, authenticated as actor when set
func newContext(method, target, body string, actor *models.Actor, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	if actor != nil {
		middleware.SetActor(c, *actor)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRidesHandler_RequestRide_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRideUC := mocks.NewMockRideUC(ctrl)
	handler := NewRidesHandler(mockRideUC, nil)

	mockRideUC.EXPECT().
		RequestRide(gomock.Any(), passenger, models.CreateRideRequest{
			Origin:      models.TextPlace("Rua A"),
			Destination: models.TextPlace("Rua B"),
			DriverID:    driver.ID,
		}).
		Return(sampleRide(models.RideStatusWaitingPrice), nil)

	c, rec := newContext(http.MethodPost, "/rides",
		`{"origin":{"address":"Rua A"},"destination":{"address":"Rua B"},"driver_id":"D1"}`, &passenger)

	err := handler.RequestRide(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "waitingPrice", data["status"])
}

func TestRidesHandler_RequiresIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewRidesHandler(mocks.NewMockRideUC(ctrl), nil)

	c, rec := newContext(http.MethodGet, "/rides/active", "", nil)

	err := handler.GetActiveRide(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRidesHandler_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewRidesHandler(mocks.NewMockRideUC(ctrl), nil)

	c, rec := newContext(http.MethodPost, "/rides/ride-1/price", `{"price":"cheap"}`, &driver, "rideID", "ride-1")

	err := handler.ProposePrice(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRidesHandler_ProposePrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRideUC := mocks.NewMockRideUC(ctrl)
	handler := NewRidesHandler(mockRideUC, nil)

	proposed := sampleRide(models.RideStatusPriceProposed)
	proposed.ProposedPrice = models.MoneyPtr(models.Money(1250))
	mockRideUC.EXPECT().ProposePrice(gomock.Any(), "ride-1", driver, 12.5).Return(proposed, nil)

	c, rec := newContext(http.MethodPost, "/rides/ride-1/price", `{"price":12.5}`, &driver, "rideID", "ride-1")

	err := handler.ProposePrice(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, 12.5, data["proposed_price"])
}

func TestRidesHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"validation", &rides.ValidationError{Operation: models.OpAcceptPrice, Field: "payment_method", Reason: "must be one of pix, cash"}, http.StatusBadRequest},
		{"forbidden", &rides.ForbiddenError{RideID: "ride-1", Operation: models.OpAcceptPrice, Actor: passenger}, http.StatusForbidden},
		{"not found", rides.NotFoundError("ride-1"), http.StatusNotFound},
		{"invalid transition", &rides.TransitionError{RideID: "ride-1", Operation: models.OpAcceptPrice, Status: models.RideStatusCancelled, Role: models.RolePassenger}, http.StatusConflict},
		{"conflicting request", &rides.ConflictError{PassengerID: "P1", ActiveRideID: "ride-0"}, http.StatusConflict},
		{"version conflict", rides.ErrVersionConflict, http.StatusConflict},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockRideUC := mocks.NewMockRideUC(ctrl)
			handler := NewRidesHandler(mockRideUC, nil)

			mockRideUC.EXPECT().AcceptPrice(gomock.Any(), "ride-1", passenger, "pix").Return(nil, tt.err)

			c, rec := newContext(http.MethodPost, "/rides/ride-1/accept", `{"payment_method":"pix"}`, &passenger, "rideID", "ride-1")

			err := handler.AcceptPrice(c)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "connection refused")
			}
		})
	}
}

func TestRidesHandler_TransitionDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRideUC := mocks.NewMockRideUC(ctrl)
	handler := NewRidesHandler(mockRideUC, nil)

	mockRideUC.EXPECT().
		StartRide(gomock.Any(), "ride-1", driver).
		Return(nil, &rides.TransitionError{RideID: "ride-1", Operation: models.OpStartRide, Status: models.RideStatusWaitingPrice, Role: models.RoleDriver})

	c, rec := newContext(http.MethodPost, "/rides/ride-1/start", "", &driver, "rideID", "ride-1")

	require.NoError(t, handler.StartRide(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	details := decodeBody(t, rec)["details"].(map[string]interface{})
	assert.Equal(t, "startRide", details["operation"])
	assert.Equal(t, "waitingPrice", details["status"])
}

func TestRidesHandler_SimpleTransitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRideUC := mocks.NewMockRideUC(ctrl)
	handler := NewRidesHandler(mockRideUC, nil)

	mockRideUC.EXPECT().RejectPrice(gomock.Any(), "ride-1", passenger).Return(sampleRide(models.RideStatusWaitingPrice), nil)
	mockRideUC.EXPECT().DeclineRequest(gomock.Any(), "ride-1", driver).Return(sampleRide(models.RideStatusRejected), nil)
	mockRideUC.EXPECT().CompleteRide(gomock.Any(), "ride-1", driver).Return(sampleRide(models.RideStatusCompleted), nil)
	mockRideUC.EXPECT().Cancel(gomock.Any(), "ride-1", passenger).Return(sampleRide(models.RideStatusCancelled), nil)
	mockRideUC.EXPECT().GetRide(gomock.Any(), "ride-1", passenger).Return(sampleRide(models.RideStatusCancelled), nil)

	calls := []struct {
		run   func(echo.Context) error
		actor models.Actor
	}{
		{handler.RejectPrice, passenger},
		{handler.DeclineRequest, driver},
		{handler.CompleteRide, driver},
		{handler.Cancel, passenger},
		{handler.GetRide, passenger},
	}
	for _, call := range calls {
		actor := call.actor
		c, rec := newContext(http.MethodPost, "/rides/ride-1", "", &actor, "rideID", "ride-1")
		require.NoError(t, call.run(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRidesHandler_AssignDriver(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRideUC := mocks.NewMockRideUC(ctrl)
	handler := NewRidesHandler(mockRideUC, nil)

	mockRideUC.EXPECT().AssignDriver(gomock.Any(), "ride-1", passenger, "D2").Return(sampleRide(models.RideStatusWaitingPrice), nil)

	c, rec := newContext(http.MethodPost, "/rides/ride-1/driver", `{"driver_id":"D2"}`, &passenger, "rideID", "ride-1")

	require.NoError(t, handler.AssignDriver(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRidesHandler_ListRides(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRideUC := mocks.NewMockRideUC(ctrl)
	handler := NewRidesHandler(mockRideUC, nil)

	mockRideUC.EXPECT().
		ListRides(gomock.Any(), passenger, models.RideFilter{
			Statuses: []models.RideStatus{models.RideStatusCompleted, models.RideStatusCancelled},
			Limit:    5,
		}).
		Return([]*models.RideRequest{sampleRide(models.RideStatusCompleted)}, nil)

	c, rec := newContext(http.MethodGet, "/rides?status=completed,cancelled&limit=5", "", &passenger)

	require.NoError(t, handler.ListRides(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"], 1)

	c, rec = newContext(http.MethodGet, "/rides?limit=-1", "", &passenger)
	require.NoError(t, handler.ListRides(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRidesHandler_ListDriverInbox(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRideUC := mocks.NewMockRideUC(ctrl)
	handler := NewRidesHandler(mockRideUC, nil)

	mockRideUC.EXPECT().ListDriverInbox(gomock.Any(), driver).Return([]*models.RideRequest{}, nil)

	c, rec := newContext(http.MethodGet, "/drivers/me/requests", "", &driver)

	require.NoError(t, handler.ListDriverInbox(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// fakeStream delivers queued events as soon as a subscriber registers
type fakeStream struct {
	events       []models.RideEvent
	filter       models.EventFilter
	unsubscribed bool
}

func (f *fakeStream) Subscribe(filter models.EventFilter, handler rides.EventHandler) (func(), error) {
	f.filter = filter
	for _, e := range f.events {
		handler(context.Background(), e)
	}
	return func() { f.unsubscribed = true }, nil
}

func TestRidesHandler_StreamEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	stream := &fakeStream{events: []models.RideEvent{
		{RequestID: "ride-1", PassengerID: "P1", DriverID: "D1", NewStatus: models.RideStatusPriceProposed, Version: 2},
	}}
	handler := NewRidesHandler(mocks.NewMockRideUC(ctrl), stream)

	c, rec := newContext(http.MethodGet, "/rides/events?status=priceProposed", "", &passenger)
	ctx, cancel := context.WithCancel(context.Background())
	c.SetRequest(c.Request().WithContext(ctx))
	time.AfterFunc(100*time.Millisecond, cancel)

	require.NoError(t, handler.StreamEvents(c))

	assert.True(t, stream.unsubscribed)
	assert.Equal(t, "P1", stream.filter.PassengerID)
	assert.Equal(t, []models.RideStatus{models.RideStatusPriceProposed}, stream.filter.Statuses)
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), "id: ride-1.2\nevent: priceProposed\n")
	assert.Contains(t, rec.Body.String(), `"request_id":"ride-1"`)
}

func TestRidesHandler_StreamUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewRidesHandler(mocks.NewMockRideUC(ctrl), nil)

	c, rec := newContext(http.MethodGet, "/rides/events", "", &driver)

	require.NoError(t, handler.StreamEvents(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRidesHandler_StreamEventsWS(t *testing.T) {
	ctrl := gomock.NewController(t)
	stream := &fakeStream{events: []models.RideEvent{
		{RequestID: "ride-1", PassengerID: "P1", DriverID: "D1", NewStatus: models.RideStatusAccepted, Version: 3},
	}}
	handler := NewRidesHandler(mocks.NewMockRideUC(ctrl), stream)

	e := echo.New()
	e.GET("/rides/ws", handler.StreamEventsWS, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.SetActor(c, driver)
			return next(c)
		}
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/rides/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var msg struct {
		Event string           `json:"event"`
		Data  models.RideEvent `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, "accepted", msg.Event)
	assert.Equal(t, "ride-1", msg.Data.RequestID)
	assert.Equal(t, int64(3), msg.Data.Version)
}

package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/services/rides"
	"github.com/riopardo/rides/services/rides/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagesHandler_SendMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUC := mocks.NewMockMessageUC(ctrl)
	handler := NewMessagesHandler(mockUC)

	mockUC.EXPECT().SendMessage(gomock.Any(), "ride-1", passenger, "Estou chegando").
		Return(&models.RideMessage{ID: "m-1", RideID: "ride-1", SenderID: "P1", ReceiverID: "D1", Content: "Estou chegando"}, nil)

	c, rec := newContext(http.MethodPost, "/rides/ride-1/messages", `{"content":"Estou chegando"}`, &passenger, "rideID", "ride-1")

	require.NoError(t, handler.SendMessage(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "D1", data["receiver_id"])
}

func TestMessagesHandler_OutsiderGetsForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUC := mocks.NewMockMessageUC(ctrl)
	handler := NewMessagesHandler(mockUC)
	outsider := models.Driver("D2")

	mockUC.EXPECT().SendMessage(gomock.Any(), "ride-1", outsider, "oi").
		Return(nil, &rides.ForbiddenError{RideID: "ride-1", Operation: models.OpSendMessage, Actor: outsider})
	mockUC.EXPECT().ListMessages(gomock.Any(), "ride-1", outsider, 0).
		Return(nil, &rides.ForbiddenError{RideID: "ride-1", Operation: models.OpRead, Actor: outsider})

	c, rec := newContext(http.MethodPost, "/rides/ride-1/messages", `{"content":"oi"}`, &outsider, "rideID", "ride-1")
	require.NoError(t, handler.SendMessage(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newContext(http.MethodGet, "/rides/ride-1/messages", "", &outsider, "rideID", "ride-1")
	require.NoError(t, handler.ListMessages(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMessagesHandler_ListMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockUC := mocks.NewMockMessageUC(ctrl)
	handler := NewMessagesHandler(mockUC)

	mockUC.EXPECT().ListMessages(gomock.Any(), "ride-1", driver, 20).
		Return([]*models.RideMessage{{ID: "m-1"}, {ID: "m-2"}}, nil)

	c, rec := newContext(http.MethodGet, "/rides/ride-1/messages?limit=20", "", &driver, "rideID", "ride-1")
	require.NoError(t, handler.ListMessages(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"], 2)

	c, rec = newContext(http.MethodGet, "/rides/ride-1/messages?limit=-1", "", &driver, "rideID", "ride-1")
	require.NoError(t, handler.ListMessages(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessagesHandler_RequiresIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewMessagesHandler(mocks.NewMockMessageUC(ctrl))

	c, rec := newContext(http.MethodPost, "/rides/ride-1/messages", `{"content":"oi"}`, nil, "rideID", "ride-1")
	require.NoError(t, handler.SendMessage(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// fakeMessageStream delivers queued messages as soon as a subscriber registers
type fakeMessageStream struct {
	messages []models.RideMessage
	userID   string
}

func (f *fakeMessageStream) SubscribeMessages(userID string, handler rides.MessageHandler) (func(), error) {
	f.userID = userID
	for _, m := range f.messages {
		if m.Involves(userID) {
			handler(context.Background(), m)
		}
	}
	return func() {}, nil
}

func TestRidesHandler_StreamEventsCarriesMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	messages := &fakeMessageStream{messages: []models.RideMessage{
		{ID: "m-1", RideID: "ride-1", SenderID: "D1", ReceiverID: "P1", Content: "Cheguei"},
	}}
	handler := NewRidesHandler(mocks.NewMockRideUC(ctrl), &fakeStream{}).WithMessageStream(messages)

	c, rec := newContext(http.MethodGet, "/rides/events", "", &passenger)
	ctx, cancel := context.WithCancel(context.Background())
	c.SetRequest(c.Request().WithContext(ctx))
	time.AfterFunc(100*time.Millisecond, cancel)

	require.NoError(t, handler.StreamEvents(c))

	assert.Equal(t, "P1", messages.userID)
	assert.Contains(t, rec.Body.String(), "id: m-1\nevent: message\n")
	assert.Contains(t, rec.Body.String(), `"content":"Cheguei"`)
}

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/riopardo/rides/internal/pkg/constants"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	topic   string
	message interface{}
	err     error
}

func (f *fakePublisher) Publish(topic string, message interface{}) error {
	f.topic = topic
	f.message = message
	return f.err
}

func TestNSQGateway_PublishTransition(t *testing.T) {
	pub := &fakePublisher{}
	gw := NewNSQGateway(pub, models.NSQConfig{})

	event := ev("r1", 2, models.RideStatusPriceProposed)
	require.NoError(t, gw.PublishTransition(context.Background(), event))
	assert.Equal(t, constants.TopicRideStatus, pub.topic)
	assert.Equal(t, event, pub.message)
}

func TestNSQGateway_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nsqd unavailable")}
	gw := NewNSQGateway(pub, models.NSQConfig{})

	err := gw.PublishTransition(context.Background(), ev("r1", 2, models.RideStatusPriceProposed))
	assert.ErrorContains(t, err, "nsqd unavailable")
}

func TestNSQGateway_SubscribeUnreachable(t *testing.T) {
	gw := NewNSQGateway(&fakePublisher{}, models.NSQConfig{NSQDAddress: "127.0.0.1:1"})

	unsubscribe, err := gw.Subscribe(models.EventFilter{}, func(context.Context, models.RideEvent) {})
	assert.Error(t, err)
	assert.Nil(t, unsubscribe)
}

func TestDecodeNSQ(t *testing.T) {
	c := &collector{}
	handle := decodeNSQ(Monotonic(models.EventFilter{}, c.handle))

	body, err := json.Marshal(ev("r1", 1, models.RideStatusWaitingPrice))
	require.NoError(t, err)

	assert.NoError(t, handle(body))
	assert.NoError(t, handle(body))
	assert.NoError(t, handle([]byte("garbage")))

	assert.Len(t, c.snapshot(), 1)
}

func TestNSQGateway_PublishMessage(t *testing.T) {
	pub := &fakePublisher{}
	gw := NewNSQGateway(pub, models.NSQConfig{})

	msg := models.RideMessage{ID: "m-1", RideID: "r1", SenderID: "P1", ReceiverID: "D1", Content: "oi"}
	require.NoError(t, gw.PublishMessage(context.Background(), msg))
	assert.Equal(t, constants.TopicRideMessage, pub.topic)
	assert.Equal(t, msg, pub.message)
}

func TestDecodeNSQMessage_KeepsOwnMessages(t *testing.T) {
	var got []string
	handle := decodeNSQMessage("D1", func(_ context.Context, m models.RideMessage) {
		got = append(got, m.ID)
	})

	for _, m := range []models.RideMessage{
		{ID: "m-1", SenderID: "P1", ReceiverID: "D1"},
		{ID: "m-2", SenderID: "P2", ReceiverID: "D2"},
		{ID: "m-3", SenderID: "D1", ReceiverID: "P1"},
	} {
		body, err := json.Marshal(m)
		require.NoError(t, err)
		assert.NoError(t, handle(body))
	}
	assert.NoError(t, handle([]byte("garbage")))

	assert.Equal(t, []string{"m-1", "m-3"}, got)
}

package nsq

import (
	"encoding/json"
	"fmt"

	"github.com/nsqio/go-nsq"
	"github.com/riopardo/rides/internal/pkg/logger"
)

// MessageHandler is a function that processes NSQ messages
type MessageHandler func(message []byte) error

// Consumer handles consuming messages from NSQ topics
type Consumer struct {
	consumer *nsq.Consumer
}

// NewConsumer creates a consumer for topic/channel connected to nsqd or, when
// lookupd addresses are given, to the lookupd instances
func NewConsumer(topic, channel, nsqdAddress string, lookupd []string, handler MessageHandler) (*Consumer, error) {
	if !nsq.IsValidTopicName(topic) {
		return nil, fmt.Errorf("invalid NSQ topic %q", topic)
	}
	if !nsq.IsValidChannelName(channel) {
		return nil, fmt.Errorf("invalid NSQ channel %q", channel)
	}

	config := nsq.NewConfig()
	consumer, err := nsq.NewConsumer(topic, channel, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ consumer: %w", err)
	}
	consumer.SetLogger(nil, nsq.LogLevelError)

	consumer.AddHandler(nsq.HandlerFunc(func(message *nsq.Message) error {
		if err := handler(message.Body); err != nil {
			logger.Error("Error processing NSQ message",
				logger.String("topic", topic),
				logger.String("channel", channel),
				logger.Err(err))
			// returning the error requeues the message
			return err
		}
		return nil
	}))

	if len(lookupd) > 0 {
		err = consumer.ConnectToNSQLookupds(lookupd)
	} else {
		err = consumer.ConnectToNSQD(nsqdAddress)
	}
	if err != nil {
		consumer.Stop()
		return nil, fmt.Errorf("failed to connect NSQ consumer: %w", err)
	}

	return &Consumer{consumer: consumer}, nil
}

// UnmarshalMessage deserializes a JSON message into the provided struct
func UnmarshalMessage(messageBody []byte, v interface{}) error {
	if err := json.Unmarshal(messageBody, v); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return nil
}

// Stop gracefully stops the consumer and waits for in-flight handlers
func (c *Consumer) Stop() {
	c.consumer.Stop()
	<-c.consumer.StopChan
}

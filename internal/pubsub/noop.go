package pubsub

import (
	"context"

	"github.com/charmbracelet/log"
)

type noopClient struct{}

// NewNoop returns a client that only logs events. It is used when no GCP project is configured.
func NewNoop() PubSubClient {
	return noopClient{}
}

func (noopClient) SendMessage(ctx context.Context, topic EventType, data any) error {
	if _, err := Encode(data); err != nil {
		return err
	}
	log.Debug("Pub/Sub disabled, dropping event", "topic", topic)
	return nil
}

func (noopClient) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

func (noopClient) Close() {}

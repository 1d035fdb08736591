package pubsub

// PubSubClient publishes and decodes the application's async events.
type PubSubClient interface {
	SendMessage(topic EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
}

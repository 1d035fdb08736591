package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventGenerateSummary EventType = "generate-summary"
	EventNotifyResult    EventType = "notify-result"
)

// MatchEvent is the payload published for asynchronous per-match work,
// commentary generation and result notification alike.
type MatchEvent struct {
	MatchID string `msgpack:"match_id"`
}

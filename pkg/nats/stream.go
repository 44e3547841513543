package nats

import (
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// StreamName is the JetStream stream holding analyst events
	StreamName = "FINQA_EVENTS"
	subjectRoot = "finqa"
)

// Subject returns the subject an event type is published on
func Subject(eventType string) string {
	return fmt.Sprintf("%s.%s", subjectRoot, eventType)
}

// EventType recovers the event type from a subject
func EventType(subject string) string {
	return strings.TrimPrefix(subject, subjectRoot+".")
}

func connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

package telemetry

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one telemetry event. Events carry what happened to a project's
// deployment state; the logging subscriber turns them into structured logs,
// and tests subscribe directly.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// RunID ties the event to one CLI invocation.
	RunID string `json:"run_id,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// Event types.
const (
	EventTypeArtifactCompiled = "artifact.compiled"
	EventTypeDriftDetected    = "drift.detected"
	EventTypeValidationFailed = "validation.failed"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventPublisher fans events out to subscribers, synchronously and in
// subscription order. The tool is single-invocation, so there is no buffering.
type EventPublisher struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
	runID       string
}

// NewEventPublisher creates a publisher scoped to one run.
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{runID: uuid.NewString()}
}

// RunID returns the run identifier shared by every event from this publisher.
func (p *EventPublisher) RunID() string {
	return p.runID
}

// Subscribe registers a subscriber for all subsequent events.
func (p *EventPublisher) Subscribe(s EventSubscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, s)
}

// Publish delivers an event of the given type to every subscriber.
func (p *EventPublisher) Publish(eventType, message string, data map[string]interface{}) {
	event := Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		RunID:     p.runID,
		Message:   message,
		Data:      data,
	}

	p.mu.RLock()
	subs := make([]EventSubscriber, len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.RUnlock()

	for _, s := range subs {
		s(event)
	}
}

// LoggingSubscriber returns a subscriber that writes events to the logger as
// structured log lines.
func LoggingSubscriber(logger *Logger) EventSubscriber {
	return func(e Event) {
		logger.Zerolog().Info().
			Str("event_id", e.ID).
			Str("event_type", e.Type).
			Str("run_id", e.RunID).
			Fields(e.Data).
			Msg(e.Message)
	}
}

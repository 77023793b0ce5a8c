package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// Event types
const (
	TypeLessonCompleted    = "lesson.completed"
	TypeLessonUnlocked     = "lesson.unlocked"
	TypeLevelAdvanced      = "level.advanced"
	TypeQuestionsGenerated = "questions.generated"
)

// Event is a notification about something that already happened.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// LessonCompletedPayload accompanies TypeLessonCompleted.
type LessonCompletedPayload struct {
	UserID   uuid.UUID                `json:"user_id"`
	LessonID uuid.UUID                `json:"lesson_id"`
	Outcome  domain.CompletionOutcome `json:"outcome"`
}

// LessonUnlockedPayload accompanies TypeLessonUnlocked.
type LessonUnlockedPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	LessonID uuid.UUID `json:"lesson_id"`
}

// LevelAdvancedPayload accompanies TypeLevelAdvanced.
type LevelAdvancedPayload struct {
	UserID     uuid.UUID        `json:"user_id"`
	LangPairID uuid.UUID        `json:"lang_pair_id"`
	From       domain.CEFRLevel `json:"from"`
	To         domain.CEFRLevel `json:"to"`
}

// QuestionsGeneratedPayload accompanies TypeQuestionsGenerated.
type QuestionsGeneratedPayload struct {
	LessonID uuid.UUID `json:"lesson_id"`
	Count    int       `json:"count"`
	Issues   int       `json:"issues"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

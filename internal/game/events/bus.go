package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var _ Bus = (*EventBus)(nil)

type funcHandler struct {
	id      string
	handler EventHandler
}

// EventBus is a synchronous event bus. Handlers run on the publishing
// goroutine in subscription order; a panicking handler is logged and skipped.
type EventBus struct {
	mu           sync.RWMutex
	subscribers  map[string]Subscriber
	order        []string
	funcHandlers map[string][]funcHandler
	logger       zerolog.Logger
}

// NewEventBus creates a new event bus using the global logger
func NewEventBus() *EventBus {
	return NewEventBusWithLogger(log.Logger)
}

func NewEventBusWithLogger(logger zerolog.Logger) *EventBus {
	return &EventBus{
		subscribers:  make(map[string]Subscriber),
		funcHandlers: make(map[string][]funcHandler),
		logger:       logger.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds a subscriber, replacing any existing one with the same ID
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id := subscriber.ID()
	if _, exists := eb.subscribers[id]; !exists {
		eb.order = append(eb.order, id)
	}
	eb.subscribers[id] = subscriber
	eb.logger.Debug().Str("subscriber_id", id).Msg("Subscriber added to event bus")
}

func (eb *EventBus) Unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if _, exists := eb.subscribers[subscriberID]; !exists {
		return
	}
	delete(eb.subscribers, subscriberID)
	for i, id := range eb.order {
		if id == subscriberID {
			eb.order = append(eb.order[:i], eb.order[i+1:]...)
			break
		}
	}
	eb.logger.Debug().Str("subscriber_id", subscriberID).Msg("Subscriber removed from event bus")
}

// SubscribeFunc registers handler for one event type and returns an ID that
// can be passed to UnsubscribeFunc.
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id := eventType + "/" + uuid.NewString()
	eb.funcHandlers[eventType] = append(eb.funcHandlers[eventType], funcHandler{id: id, handler: handler})
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("handler_id", id).
		Msg("Function handler added to event bus")
	return id
}

func (eb *EventBus) UnsubscribeFunc(handlerID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for eventType, handlers := range eb.funcHandlers {
		for i, h := range handlers {
			if h.id == handlerID {
				eb.funcHandlers[eventType] = append(handlers[:i], handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers event to every interested subscriber and to the function
// handlers registered for its type.
func (eb *EventBus) Publish(event Event) {
	eventType := event.Type()

	// Handlers are snapshotted so they may (un)subscribe while being called.
	eb.mu.RLock()
	subs := make([]Subscriber, 0, len(eb.order))
	for _, id := range eb.order {
		if s := eb.subscribers[id]; s.InterestedIn(eventType) {
			subs = append(subs, s)
		}
	}
	handlers := append([]funcHandler(nil), eb.funcHandlers[eventType]...)
	eb.mu.RUnlock()

	for _, s := range subs {
		eb.dispatch(event, s.ID(), s.HandleEvent)
	}
	for _, h := range handlers {
		eb.dispatch(event, h.id, h.handler)
	}
}

func (eb *EventBus) dispatch(event Event, handlerID string, handle EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("handler_id", handlerID).
				Str("event_type", event.Type()).
				Interface("panic", r).
				Msg("Event handler panicked")
		}
	}()
	handle(event)
}

// SubscriberCount returns the number of object subscribers
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// FuncHandlerCount returns the number of function handlers for eventType
func (eb *EventBus) FuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.funcHandlers[eventType])
}

package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events"
)

// LoggerSubscriber writes events to a structured log
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // nil means every type
	devMode         bool            // log the full event as JSON too
}

func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter restricts logging to eventTypes. An empty list logs all.
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent logs event with fields specific to its type
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.logLevel).
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("event_time", event.Timestamp())

	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Ints("piles", e.Piles).
			Int("starting_player", e.StartingPlayer)

	case *events.MoveExecutedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("player_id", e.PlayerID).
			Int("pile", e.Action.Pile).
			Int("count", e.Action.Count).
			Ints("after", e.After)

	case *events.MoveRejectedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("player_id", e.PlayerID).
			Int("pile", e.Action.Pile).
			Int("count", e.Action.Count).
			Str("reason", e.Reason)

	case *events.GameEndedEvent:
		logEvent.
			Int("winner", e.Winner).
			Int("final_turn", e.FinalTurn).
			Dur("duration", e.Duration)

	case *events.EpisodeCompletedEvent:
		logEvent.
			Int("episode", e.Episode).
			Int("winner", e.Winner).
			Int("moves", e.Moves).
			Int("table_size", e.TableSize)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Game event")
}

package subscribers_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events/subscribers"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		lines = append(lines, m)
	}
	return lines
}

func TestLoggerSubscriber(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("test-logger", zerolog.Nop(), zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeGameStarted))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "GameStartedEvent",
			event: events.NewGameStartedEvent("game-1", core.DefaultPiles(), 0),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, []interface{}{float64(1), float64(3), float64(5), float64(7)}, logLine["piles"])
				assert.Equal(t, float64(0), logLine["starting_player"])
			},
		},
		{
			name: "MoveExecutedEvent",
			event: events.NewMoveExecutedEvent("game-1", 2, 1, core.Action{Pile: 3, Count: 4},
				core.Piles{1, 3, 5, 7}, core.Piles{1, 3, 5, 3}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(2), logLine["turn"])
				assert.Equal(t, float64(1), logLine["player_id"])
				assert.Equal(t, float64(3), logLine["pile"])
				assert.Equal(t, float64(4), logLine["count"])
			},
		},
		{
			name:  "GameEndedEvent",
			event: events.NewGameEndedEvent("game-1", 1, 12, 5*time.Millisecond),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(1), logLine["winner"])
				assert.Equal(t, float64(12), logLine["final_turn"])
			},
		},
		{
			name:  "EpisodeCompletedEvent",
			event: events.NewEpisodeCompletedEvent("game-1", 42, 0, 7, 120),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(42), logLine["episode"])
				assert.Equal(t, float64(120), logLine["table_size"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("event-logger", zerolog.New(&buf), zerolog.InfoLevel)

			logSub.HandleEvent(tc.event)

			lines := decodeLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, "Game event", lines[0]["message"])
			assert.Equal(t, "info", lines[0]["level"])
			assert.Equal(t, tc.event.Type(), lines[0]["event_type"])
			assert.Equal(t, "game-1", lines[0]["game_id"])
			tc.check(t, lines[0])
		})
	}
}

func TestLoggerSubscriberFilter(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("filtered", zerolog.Nop(), zerolog.DebugLevel)
	logSub.SetEventFilter([]string{events.TypeGameEnded})

	assert.True(t, logSub.InterestedIn(events.TypeGameEnded))
	assert.False(t, logSub.InterestedIn(events.TypeMoveExecuted))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeMoveExecuted))
}

func TestLoggerSubscriberDevMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev", zerolog.New(&buf), zerolog.WarnLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewGameEndedEvent("game-2", 0, 3, time.Second))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["level"])
	data, ok := lines[0]["event_data"].(map[string]interface{})
	require.True(t, ok, "event_data should be embedded JSON")
	assert.Equal(t, "game.ended", data["type"])
	assert.Equal(t, float64(0), data["winner"])
}

func TestLoggerSubscriberOnBus(t *testing.T) {
	var buf bytes.Buffer
	bus := events.NewEventBusWithLogger(zerolog.Nop())
	logSub := subscribers.NewLoggerSubscriber("bus-logger", zerolog.New(&buf), zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeGameStarted})
	bus.Subscribe(logSub)

	bus.Publish(events.NewGameStartedEvent("g", core.Piles{1}, 0))
	bus.Publish(events.NewGameEndedEvent("g", 1, 1, 0))

	assert.Len(t, decodeLines(t, &buf), 1)
}

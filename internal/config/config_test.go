package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
game:
  initial_piles: [2, 4, 6]
agent:
  alpha: 0.25
  epsilon: 0.2
  seed: 99
training:
  episodes: 500
server:
  port: 8080
ui:
  window:
    width: 1024
    height: 768
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	reset()
	err = Init(configFile)
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, []int{2, 4, 6}, c.Game.InitialPiles)
	assert.Equal(t, 0.25, c.Agent.Alpha)
	assert.Equal(t, 0.2, c.Agent.Epsilon)
	assert.Equal(t, int64(99), c.Agent.Seed)
	assert.Equal(t, 500, c.Training.Episodes)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 1024, c.UI.Window.Width)
	assert.Equal(t, 768, c.UI.Window.Height)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	reset()

	err := Init("/non/existent/path/config.yaml")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, []int{1, 3, 5, 7}, c.Game.InitialPiles)
	assert.Equal(t, 0.5, c.Agent.Alpha)
	assert.Equal(t, 0.1, c.Agent.Epsilon)
	assert.Equal(t, 10000, c.Training.Episodes)
	assert.Equal(t, 1.0, c.Training.Rewards.Win)
	assert.Equal(t, -1.0, c.Training.Rewards.Lose)
	assert.Equal(t, -1, c.Play.HumanPlayer)
	assert.Equal(t, 1000, c.Play.MoveDelayMs)
	assert.Equal(t, 50051, c.Server.Port)
	assert.Equal(t, 100, c.Server.MaxGames)
	assert.Equal(t, 1000, c.Server.MaxPileObjects)
	assert.Equal(t, "console", c.Logging.Format)
}

func TestEnvironmentVariables(t *testing.T) {
	reset()

	t.Setenv("NIM_TRAINING_EPISODES", "250")
	t.Setenv("NIM_SERVER_PORT", "9090")
	t.Setenv("NIM_AGENT_EPSILON", "0.3")

	err := Init("")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 250, c.Training.Episodes)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 0.3, c.Agent.Epsilon)
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("agent:\n  alpha: 0\n"), 0644))

	reset()
	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent.alpha")
}

func TestReload(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("training:\n  episodes: 100\n"), 0644))

	reset()
	require.NoError(t, Init(configFile))
	active := Get()

	require.NoError(t, os.WriteFile(configFile, []byte("training:\n  episodes: 250\n"), 0644))
	require.NoError(t, v.ReadInConfig())
	c, err := reload()
	require.NoError(t, err)
	assert.Same(t, active, c, "reload updates the config in place")
	assert.Equal(t, 250, Get().Training.Episodes)

	require.NoError(t, os.WriteFile(configFile, []byte("agent:\n  alpha: 3\n"), 0644))
	require.NoError(t, v.ReadInConfig())
	_, err = reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent.alpha")
	assert.Equal(t, 250, Get().Training.Episodes, "invalid file keeps previous values")
	assert.Equal(t, 0.5, Get().Agent.Alpha)
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	baseContent := `
training:
  episodes: 100
server:
  port: 50051
`
	require.NoError(t, os.WriteFile(baseConfig, []byte(baseContent), 0644))

	envConfig := filepath.Join(tmpDir, "config.prod.yaml")
	envContent := `
training:
  episodes: 50000
server:
  port: 8080
logging:
  format: "json"
`
	require.NoError(t, os.WriteFile(envConfig, []byte(envContent), 0644))

	oldWd, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldWd) }()

	reset()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("prod"))

	c := Get()
	assert.Equal(t, 50000, c.Training.Episodes)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "json", c.Logging.Format)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		reset()
		require.NoError(t, Init(""))
		c := *Get()
		return &c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"empty piles", func(c *Config) { c.Game.InitialPiles = nil }, "game.initial_piles"},
		{"negative pile", func(c *Config) { c.Game.InitialPiles = []int{1, -2} }, "game.initial_piles[1]"},
		{"all zero piles", func(c *Config) { c.Game.InitialPiles = []int{0, 0} }, "at least one object"},
		{"alpha above one", func(c *Config) { c.Agent.Alpha = 1.5 }, "agent.alpha"},
		{"negative epsilon", func(c *Config) { c.Agent.Epsilon = -0.1 }, "agent.epsilon"},
		{"zero episodes", func(c *Config) { c.Training.Episodes = 0 }, "training.episodes"},
		{"inverted rewards", func(c *Config) { c.Training.Rewards.Win = -2 }, "training.rewards"},
		{"bad human seat", func(c *Config) { c.Play.HumanPlayer = 2 }, "play.human_player"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"no game slots", func(c *Config) { c.Server.MaxGames = 0 }, "server.max_games"},
		{"no pile objects", func(c *Config) { c.Server.MaxPileObjects = 0 }, "server.max_pile_objects"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	assert.NoError(t, Validate(valid()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := Validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

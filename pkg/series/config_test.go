package series

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraftwerk28/reversi-game/pkg/match"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engines:
  - name: mine
    cmd: ./bot
    arg: play --policy greedy
    tc: 40/10+0.1
  - name: theirs
    cmd: ./other
game-pairs: 5
delay: 250ms
black-hole: c6
`), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Len(t, config.Engines, 2)
	assert.Equal(t, "play --policy greedy", config.Engines[0].Arg)
	assert.Equal(t, "40/10+0.1", config.Engines[0].TimeC)
	assert.Equal(t, 5, config.GamePairs)
	assert.Equal(t, 1, config.Concurrency)
	assert.Equal(t, 250*time.Millisecond, config.Delay)
	assert.Equal(t, "c6", config.BlackHole)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		config := DefaultConfig()
		config.Engines = []match.EngineConfig{{Name: "a", Cmd: "a"}, {Name: "b", Cmd: "b"}}
		return config
	}

	config := valid()
	assert.NoError(t, config.Validate())

	cases := map[string]func(*Config){
		"one engine":      func(c *Config) { c.Engines = c.Engines[:1] },
		"nameless engine": func(c *Config) { c.Engines[1].Name = "" },
		"no command":      func(c *Config) { c.Engines[0].Cmd = "" },
		"no games":        func(c *Config) { c.GamePairs = 0 },
		"no threads":      func(c *Config) { c.Concurrency = 0 },
		"bad tc":          func(c *Config) { c.Engines[0].TimeC = "soon" },
		"bad hole":        func(c *Config) { c.BlackHole = "Z0" },
		"opening hole":    func(c *Config) { c.BlackHole = "d4" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			config := valid()
			mutate(&config)
			assert.Error(t, config.Validate())

			_, err := NewSeries(config)
			assert.Error(t, err)
		})
	}
}

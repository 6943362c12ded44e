package match

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraftwerk28/reversi-game/pkg/bot"
	"github.com/kraftwerk28/reversi-game/pkg/record"
	"github.com/kraftwerk28/reversi-game/pkg/reversi"
)

const helperEnv = "REVERSI_MATCH_HELPER"

// The test binary doubles as the bots: with helperEnv set it plays the
// mode named by its first argument instead of running tests.
func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) != "" {
		os.Exit(helperBot(os.Args[1]))
	}

	os.Setenv(helperEnv, "1")
	os.Exit(m.Run())
}

func helperBot(mode string) int {
	in := bufio.NewScanner(os.Stdin)
	drain := func() {
		for in.Scan() {
		}
	}

	switch mode {
	case "greedy", "random":
		policy, err := bot.NewPolicy(mode, 1)
		if err != nil {
			return 2
		}

		if err := bot.NewPlayer(os.Stdin, os.Stdout, bot.Config{Policy: policy}).Run(context.Background()); err != nil {
			return 1
		}
		return 0

	case "illegal", "pass":
		in.Scan()
		in.Scan()
		move := "H8"
		if mode == "pass" {
			move = "pass"
		}
		fmt.Println("thinking...")
		fmt.Println(move)
		drain()
		return 0

	case "silent":
		drain()
		return 0

	default:
		return 3
	}
}

func helper(mode string) EngineConfig {
	return EngineConfig{Name: mode, Cmd: os.Args[0], Arg: mode}
}

func TestCompleteGame(t *testing.T) {
	store, err := record.Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	defer store.Close()

	config := &Config{
		BlackHole: "c6",
		Engines:   [2]EngineConfig{helper("greedy"), helper("random")},
		Recorder:  store,
	}

	result, reason, err := Run(context.Background(), config)
	require.NoError(t, err)
	assert.Regexp(t, `^\d+-\d+ discs$`, reason)
	assert.NotEmpty(t, config.ID)

	ctx := context.Background()
	game, err := store.Game(ctx, config.ID)
	require.NoError(t, err)
	assert.Equal(t, "C6", game.BlackHole)
	assert.Equal(t, result.String(), game.Result)
	assert.Equal(t, reason, game.Reason)

	moves, err := store.Moves(ctx, config.ID)
	require.NoError(t, err)
	require.NotEmpty(t, moves)

	// Replaying the record reaches the same final position.
	replay, err := reversi.New(reversi.Black, "C6")
	require.NoError(t, err)
	side := reversi.Black
	for i, move := range moves {
		assert.Equal(t, i, move.Ply)
		assert.Equal(t, side.String(), move.Side)

		if move.Move != Pass {
			sq, err := reversi.NewSquare(move.Move)
			require.NoError(t, err)
			_, err = replay.Play(side, sq)
			require.NoError(t, err, "ply %d", i)
		}

		assert.Equal(t, replay.Render(), move.Board)
		side = side.Opposite()
	}

	assert.NotEqual(t, reversi.Ongoing, replay.Result())
	assert.Equal(t, ResultOf(replay.Result()), result)
	assert.Equal(t, fmt.Sprintf("%d-%d discs", replay.Count(reversi.Black), replay.Count(reversi.White)), reason)
}

func TestForcedPassIsForwarded(t *testing.T) {
	store, err := record.Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	defer store.Close()

	// Greedy against greedy around A1 leaves black stuck two plies from
	// the end while white still has H8.
	config := &Config{
		BlackHole: "A1",
		Engines:   [2]EngineConfig{helper("greedy"), helper("greedy")},
		Recorder:  store,
	}

	result, reason, err := Run(context.Background(), config)
	require.NoError(t, err)
	assert.Equal(t, Loss, result)
	assert.Equal(t, "22-41 discs", reason)

	moves, err := store.Moves(context.Background(), config.ID)
	require.NoError(t, err)
	require.Len(t, moves, 60)

	assert.Equal(t, Pass, moves[58].Move)
	assert.Equal(t, reversi.Black.String(), moves[58].Side)
	assert.Equal(t, "H8", moves[59].Move)
	assert.Equal(t, reversi.White.String(), moves[59].Side)
}

func TestForfeits(t *testing.T) {
	cases := []struct {
		name    string
		engines [2]EngineConfig
		want    Result
		reason  string
	}{
		{"illegal black", [2]EngineConfig{helper("illegal"), helper("greedy")}, Loss, "played H8"},
		{"illegal white", [2]EngineConfig{helper("greedy"), helper("illegal")}, Win, "played H8"},
		{"unjustified pass", [2]EngineConfig{helper("pass"), helper("greedy")}, Loss, "passed with legal moves"},
		{"crash", [2]EngineConfig{helper("greedy"), helper("crash")}, Win, ""},
		{"missing binary", [2]EngineConfig{{Name: "ghost", Cmd: filepath.Join(t.TempDir(), "ghost")}, helper("greedy")}, Loss, "ghost"},
		{"bad time control", [2]EngineConfig{helper("greedy"), {Name: "x", Cmd: os.Args[0], Arg: "greedy", TimeC: "fast"}}, Win, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result, reason, err := Run(context.Background(), &Config{BlackHole: "A1", Engines: c.engines})
			require.NoError(t, err)
			assert.Equal(t, c.want, result, reason)
			assert.Contains(t, reason, c.reason)
		})
	}
}

func TestTimeout(t *testing.T) {
	silent := helper("silent")
	silent.TimeC = "0.2+0"

	start := time.Now()
	result, reason, err := Run(context.Background(), &Config{
		BlackHole: "A1",
		Engines:   [2]EngineConfig{silent, helper("greedy")},
	})
	require.NoError(t, err)
	assert.Equal(t, Loss, result)
	assert.Contains(t, reason, ErrReadTimeout.Error())
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	result, reason, err := Run(ctx, &Config{
		BlackHole: "A1",
		Engines:   [2]EngineConfig{helper("silent"), helper("silent")},
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, Draw, result)
	assert.Equal(t, "interrupted", reason)
}

func TestBlackHoleChoice(t *testing.T) {
	_, _, err := Run(context.Background(), &Config{BlackHole: "E5"})
	assert.ErrorIs(t, err, reversi.ErrInvalidCoordinate)

	_, _, err = Run(context.Background(), &Config{BlackHole: "J1"})
	assert.ErrorIs(t, err, reversi.ErrInvalidCoordinate)

	config := &Config{Rand: rand.New(rand.NewSource(3))}
	for i := 0; i < 100; i++ {
		label, err := pickBlackHole(config)
		require.NoError(t, err)

		sq, err := reversi.NewSquare(label)
		require.NoError(t, err)
		assert.False(t, reversi.IsOpening(sq))
	}
}

func TestAwaitSkipsNoise(t *testing.T) {
	engine, err := StartEngine(helper("illegal"))
	require.NoError(t, err)
	defer engine.Kill()

	require.NoError(t, engine.Write("A1"))
	require.NoError(t, engine.Write("black"))

	line, err := engine.Await(movePattern, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "H8", line)

	require.NoError(t, engine.Kill())
	require.NoError(t, engine.Kill())

	_, err = engine.Await(movePattern, time.Second)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

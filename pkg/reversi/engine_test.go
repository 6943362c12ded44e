package reversi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, side Side, hole string) *Engine {
	t.Helper()

	engine, err := New(side, hole)
	require.NoError(t, err)
	return engine
}

// emptyEngine returns an engine on a board holding nothing but the black
// hole, for hand-built positions.
func emptyEngine(side Side, hole Square) *Engine {
	engine := &Engine{hole: hole, side: side}
	engine.board[hole] = BlackHole
	return engine
}

func TestNew(t *testing.T) {
	t.Run("opening position", func(t *testing.T) {
		engine := newEngine(t, Black, "A1")
		board := engine.Board()

		assert.Equal(t, WhiteDisc, board[27]) // D4
		assert.Equal(t, WhiteDisc, board[36]) // E5
		assert.Equal(t, BlackDisc, board[28]) // E4
		assert.Equal(t, BlackDisc, board[35]) // D5
		assert.Equal(t, BlackHole, board[0])

		assert.Equal(t, 2, engine.Count(Black))
		assert.Equal(t, 2, engine.Count(White))
		assert.Equal(t, SquareN-5, board.Count(Empty))
		assert.Equal(t, 1, board.Count(BlackHole))
	})

	t.Run("remembers side and hole", func(t *testing.T) {
		engine := newEngine(t, White, "g7")
		assert.Equal(t, White, engine.Side())
		assert.Equal(t, Square(54), engine.BlackHole())
	})

	t.Run("malformed label", func(t *testing.T) {
		_, err := New(Black, "Z9")
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	})

	t.Run("hole on opening square", func(t *testing.T) {
		_, err := New(Black, "D4")
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	})

	t.Run("invalid side", func(t *testing.T) {
		_, err := New(Side(0), "A1")
		assert.Error(t, err)
	})
}

func TestOpeningMoves(t *testing.T) {
	t.Run("black without interference", func(t *testing.T) {
		engine := newEngine(t, Black, "A1")
		moves := engine.LegalMoves(false)

		assert.Equal(t, []Square{19, 26, 37, 44}, moves.Squares())
		assert.Equal(t, []Square{27}, moves[19]) // D3 flips D4
		assert.Equal(t, []Square{27}, moves[26]) // C4 flips D4
		assert.Equal(t, []Square{36}, moves[37]) // F5 flips E5
		assert.Equal(t, []Square{36}, moves[44]) // E6 flips E5
	})

	t.Run("black hole at D3 is excluded", func(t *testing.T) {
		engine := newEngine(t, Black, "D3")
		moves := engine.LegalMoves(false)

		assert.False(t, moves.Contains(19))
		assert.Equal(t, []Square{26, 37, 44}, moves.Squares())
	})

	t.Run("opposite side", func(t *testing.T) {
		engine := newEngine(t, Black, "A1")
		moves := engine.LegalMoves(true)

		assert.Equal(t, []Square{20, 29, 34, 43}, moves.Squares())
		assert.Equal(t, engine.Moves(White), moves)
	})
}

func TestBlackHoleExclusion(t *testing.T) {
	// A1 black, B1 white: the only Othello placement for black is C1.
	engine := emptyEngine(Black, 2)
	engine.board[0] = BlackDisc
	engine.board[1] = WhiteDisc

	assert.Empty(t, engine.LegalMoves(false))

	// The same position with C1 open does allow it.
	open := emptyEngine(Black, 63)
	open.board[0] = BlackDisc
	open.board[1] = WhiteDisc

	assert.Equal(t, Moves{2: {1}}, open.LegalMoves(false))
}

func TestCaptureRunsConcatenate(t *testing.T) {
	// C1 is reachable from A1 (over B1) and from C3 (over C2).
	engine := emptyEngine(Black, 63)
	engine.board[0] = BlackDisc  // A1
	engine.board[1] = WhiteDisc  // B1
	engine.board[18] = BlackDisc // C3
	engine.board[10] = WhiteDisc // C2

	moves := engine.Moves(Black)
	assert.Equal(t, []Square{1, 10}, moves[2])
}

func TestRunStopsAtOwnDiscAndEdge(t *testing.T) {
	engine := emptyEngine(Black, 63)
	engine.board[0] = BlackDisc // A1
	engine.board[1] = WhiteDisc // B1
	engine.board[2] = BlackDisc // C1, closes the run before an empty cell
	engine.board[6] = BlackDisc // G1
	engine.board[7] = WhiteDisc // H1, run walks off the board

	assert.Empty(t, engine.Moves(Black))
}

func TestApplyMove(t *testing.T) {
	t.Run("flips captures", func(t *testing.T) {
		engine := newEngine(t, Black, "A1")

		captures, err := engine.Play(Black, 26)
		require.NoError(t, err)
		assert.Equal(t, []Square{27}, captures)

		board := engine.Board()
		assert.Equal(t, BlackDisc, board[26])
		assert.Equal(t, BlackDisc, board[27])
		assert.Equal(t, 4, engine.Count(Black))
		assert.Equal(t, 1, engine.Count(White))
	})

	t.Run("rejects placements outside the legal map", func(t *testing.T) {
		engine := newEngine(t, Black, "A1")
		before := engine.Board()

		for _, sq := range []Square{1, 20, 27, 28, 0, -1, 64} {
			_, err := engine.Play(Black, sq)
			assert.ErrorIs(t, err, ErrIllegalMove, "square %d", sq)
			assert.Equal(t, before, engine.Board())
		}
	})

	t.Run("structural checks", func(t *testing.T) {
		engine := newEngine(t, Black, "D3")
		before := engine.Board()

		cases := []struct {
			name      string
			placement Square
			captures  []Square
		}{
			{"no captures", 26, nil},
			{"black hole", 19, []Square{27}},
			{"occupied", 27, []Square{36}},
			{"off the board", 64, []Square{27}},
			{"capture of own disc", 26, []Square{28}},
			{"capture off the board", 26, []Square{99}},
		}

		for _, tc := range cases {
			err := engine.ApplyMove(Black, tc.placement, tc.captures)
			assert.ErrorIs(t, err, ErrIllegalMove, tc.name)
			assert.Equal(t, before, engine.Board(), tc.name)
		}

		assert.ErrorIs(t, engine.ApplyMove(Side(7), 26, []Square{27}), ErrIllegalMove)
	})
}

func TestApplyOpponentMove(t *testing.T) {
	engine := newEngine(t, Black, "A1")
	_, err := engine.Play(Black, 26)
	require.NoError(t, err)

	t.Run("unknown placement", func(t *testing.T) {
		before := engine.Board()
		_, err := engine.ApplyOpponentMove(63)
		assert.ErrorIs(t, err, ErrIllegalOpponentMove)
		assert.Equal(t, before, engine.Board())
	})

	t.Run("legal placement", func(t *testing.T) {
		// White C5 flips D5 back after black C4.
		captures, err := engine.ApplyOpponentMove(34)
		require.NoError(t, err)
		assert.Equal(t, []Square{35}, captures)
		assert.Equal(t, WhiteDisc, engine.Board()[34])
	})
}

func TestLabels(t *testing.T) {
	engine := newEngine(t, Black, "A1")

	sq, err := engine.IndexForLabel("e6")
	require.NoError(t, err)
	assert.Equal(t, Square(44), sq)

	label, err := engine.LabelForIndex(44)
	require.NoError(t, err)
	assert.Equal(t, "E6", label)

	_, err = engine.LabelForIndex(64)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestRender(t *testing.T) {
	engine := newEngine(t, Black, "D3")

	want := "--------\n" +
		"--------\n" +
		"---X----\n" +
		"---WB---\n" +
		"---BW---\n" +
		"--------\n" +
		"--------\n" +
		"--------"
	assert.Equal(t, want, engine.Render())
	assert.Equal(t, want, engine.Render(), "rendering must not change state")
}

func TestOpposite(t *testing.T) {
	assert.Equal(t, White, Black.Opposite())
	assert.Equal(t, Black, White.Opposite())
	assert.Panics(t, func() { Side(0).Opposite() })
	assert.Panics(t, func() { Side(3).Disc() })
}

func TestNewSide(t *testing.T) {
	side, err := NewSide(" Black\n")
	require.NoError(t, err)
	assert.Equal(t, Black, side)

	side, err = NewSide("WHITE")
	require.NoError(t, err)
	assert.Equal(t, White, side)

	_, err = NewSide("red")
	assert.Error(t, err)
}

func TestResult(t *testing.T) {
	assert.Equal(t, Ongoing, newEngine(t, Black, "A1").Result())

	engine := emptyEngine(Black, 0)
	engine.board[10] = BlackDisc
	engine.board[11] = BlackDisc
	engine.board[40] = WhiteDisc
	assert.Equal(t, BlackWins, engine.Result())

	engine.board[41] = WhiteDisc
	assert.Equal(t, Draw, engine.Result())

	engine.board[42] = WhiteDisc
	assert.Equal(t, WhiteWins, engine.Result())
}

// TestRandomGames plays random games and checks the move generator and
// applicator against each other at every ply.
func TestRandomGames(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for game := 0; game < 50; game++ {
		hole := Square(rng.Intn(SquareN))
		for hole == 27 || hole == 28 || hole == 35 || hole == 36 {
			hole = Square(rng.Intn(SquareN))
		}

		engine := newEngine(t, Black, hole.String())
		side := Black

		for engine.Result() == Ongoing {
			moves := engine.Moves(side)
			if len(moves) == 0 {
				side = side.Opposite()
				continue
			}

			board := engine.Board()
			for placement, captures := range moves {
				require.Equal(t, Empty, board[placement])
				require.NotEqual(t, hole, placement)
				require.NotEmpty(t, captures)
				for _, sq := range captures {
					require.Equal(t, side.Opposite().Disc(), board[sq])
				}
			}

			squares := moves.Squares()
			placement := squares[rng.Intn(len(squares))]

			us, them := engine.Count(side), engine.Count(side.Opposite())
			occupied := us + them

			captures, err := engine.Play(side, placement)
			require.NoError(t, err)

			require.Equal(t, us+1+len(captures), engine.Count(side))
			require.Equal(t, them-len(captures), engine.Count(side.Opposite()))
			require.Equal(t, occupied+1, engine.Count(Black)+engine.Count(White))
			require.Equal(t, BlackHole, engine.Board()[hole])

			side = side.Opposite()
		}
	}
}

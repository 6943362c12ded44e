// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reversi implements the game state of Reversi played on an 8x8
// board with a single black hole square on which no disc may be placed.
package reversi

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove         = errors.New("reversi: illegal move")
	ErrIllegalOpponentMove = errors.New("reversi: illegal opponent move")
)

// Engine owns the board of a single game and remembers which side it is
// playing. It does not keep track of whose turn it is; that is left to
// the driver.
type Engine struct {
	board Board
	hole  Square
	side  Side
}

// New creates an Engine playing side with the black hole at the square
// named by holeLabel.
func New(side Side, holeLabel string) (*Engine, error) {
	if side != Black && side != White {
		return nil, fmt.Errorf("reversi: new engine: invalid side %d", side)
	}

	hole, err := NewSquare(holeLabel)
	if err != nil {
		return nil, fmt.Errorf("black hole: %w", err)
	}

	board, err := NewBoard(hole)
	if err != nil {
		return nil, err
	}

	return &Engine{board: board, hole: hole, side: side}, nil
}

// Side returns the side the engine is playing.
func (engine *Engine) Side() Side {
	return engine.side
}

// BlackHole returns the black hole square.
func (engine *Engine) BlackHole() Square {
	return engine.hole
}

// Board returns a copy of the current board.
func (engine *Engine) Board() Board {
	return engine.board
}

// Count returns the number of discs side has on the board.
func (engine *Engine) Count(side Side) int {
	return engine.board.Count(side.Disc())
}

// Moves returns the legal placements of the given side.
func (engine *Engine) Moves(side Side) Moves {
	return GenerateMoves(&engine.board, side)
}

// LegalMoves returns the legal placements of the engine's side, or of its
// opponent if forOppositeSide is set.
func (engine *Engine) LegalMoves(forOppositeSide bool) Moves {
	if forOppositeSide {
		return engine.Moves(engine.side.Opposite())
	}

	return engine.Moves(engine.side)
}

// HasMoves reports whether side has at least one legal placement.
func (engine *Engine) HasMoves(side Side) bool {
	return len(engine.Moves(side)) > 0
}

// ApplyMove places a disc of side on placement and flips every square in
// captures. The captures are trusted to come from Moves; only the cheap
// structural checks are made, all of them before the board is touched.
func (engine *Engine) ApplyMove(side Side, placement Square, captures []Square) error {
	if side != Black && side != White {
		return fmt.Errorf("%w: invalid side %d", ErrIllegalMove, side)
	}

	switch {
	case !placement.Valid():
		return fmt.Errorf("%w: placement index %d off the board", ErrIllegalMove, int(placement))
	case placement == engine.hole:
		return fmt.Errorf("%w: %s is the black hole", ErrIllegalMove, placement)
	case engine.board[placement] != Empty:
		return fmt.Errorf("%w: %s is occupied", ErrIllegalMove, placement)
	case len(captures) == 0:
		return fmt.Errorf("%w: %s captures nothing", ErrIllegalMove, placement)
	}

	them := side.Opposite().Disc()
	for _, sq := range captures {
		if !sq.Valid() || engine.board[sq] != them {
			return fmt.Errorf("%w: %s can't capture %s", ErrIllegalMove, placement, sq)
		}
	}

	us := side.Disc()
	engine.board[placement] = us
	for _, sq := range captures {
		engine.board[sq] = us
	}

	return nil
}

// Play applies placement for side after looking it up in a freshly
// generated move list. It returns the captured squares.
func (engine *Engine) Play(side Side, placement Square) ([]Square, error) {
	captures, found := engine.Moves(side)[placement]
	if !found {
		return nil, fmt.Errorf("%w: %s for %s", ErrIllegalMove, placement, side)
	}

	return captures, engine.ApplyMove(side, placement, captures)
}

// ApplyOpponentMove validates and applies a placement reported by the
// opponent.
func (engine *Engine) ApplyOpponentMove(placement Square) ([]Square, error) {
	them := engine.side.Opposite()

	captures, found := engine.LegalMoves(true)[placement]
	if !found {
		return nil, fmt.Errorf("%w: %s for %s", ErrIllegalOpponentMove, placement, them)
	}

	return captures, engine.ApplyMove(them, placement, captures)
}

// IndexForLabel converts an algebraic label into a Square.
func (engine *Engine) IndexForLabel(label string) (Square, error) {
	return NewSquare(label)
}

// LabelForIndex converts a Square into its algebraic label.
func (engine *Engine) LabelForIndex(sq Square) (string, error) {
	return sq.Label()
}

// Render returns the board as 8 lines of glyphs.
func (engine *Engine) Render() string {
	return engine.board.String()
}

// Result adjudicates the game: Ongoing while either side can move,
// otherwise the side with more discs wins.
func (engine *Engine) Result() Result {
	if engine.HasMoves(Black) || engine.HasMoves(White) {
		return Ongoing
	}

	black, white := engine.Count(Black), engine.Count(White)
	switch {
	case black > white:
		return BlackWins
	case white > black:
		return WhiteWins
	default:
		return Draw
	}
}

// Result is the state of a game from the board's point of view.
type Result uint8

const (
	Ongoing Result = iota
	BlackWins
	WhiteWins
	Draw
)

func (result Result) String() string {
	switch result {
	case BlackWins:
		return "black wins"
	case WhiteWins:
		return "white wins"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

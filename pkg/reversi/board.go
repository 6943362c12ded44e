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

package reversi

import (
	"fmt"
	"math/rand"
	"strings"
)

// Cell is the state of a single square.
type Cell uint8

const (
	Empty Cell = iota
	BlackDisc
	WhiteDisc
	BlackHole
)

// Glyph returns the character used for the cell in board dumps.
func (c Cell) Glyph() byte {
	switch c {
	case Empty:
		return '-'
	case BlackDisc:
		return 'B'
	case WhiteDisc:
		return 'W'
	default:
		return 'X'
	}
}

// Side is one of the two competing colors.
type Side uint8

const (
	Black Side = iota + 1
	White
)

// NewSide parses "black" or "white", ignoring case and surrounding spaces.
func NewSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black":
		return Black, nil
	case "white":
		return White, nil
	default:
		return 0, fmt.Errorf("reversi: invalid side %q", s)
	}
}

// Opposite returns the other side. It panics for anything but Black and
// White.
func (s Side) Opposite() Side {
	switch s {
	case Black:
		return White
	case White:
		return Black
	default:
		panic(fmt.Sprintf("reversi: opposite of invalid side %d", s))
	}
}

// Disc returns the cell state holding a disc of this side.
func (s Side) Disc() Cell {
	switch s {
	case Black:
		return BlackDisc
	case White:
		return WhiteDisc
	default:
		panic(fmt.Sprintf("reversi: disc of invalid side %d", s))
	}
}

func (s Side) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "none"
	}
}

// Board is the grid of cells, indexed by Square.
type Board [SquareN]Cell

// opening squares and the disc each holds at the start of a game
var opening = [...]struct {
	x, y int
	cell Cell
}{
	{3, 3, WhiteDisc},
	{4, 4, WhiteDisc},
	{4, 3, BlackDisc},
	{3, 4, BlackDisc},
}

// NewBoard returns the opening position with the black hole at hole.
func NewBoard(hole Square) (Board, error) {
	var board Board

	if !hole.Valid() {
		return board, fmt.Errorf("%w: black hole index %d", ErrInvalidCoordinate, int(hole))
	}

	for _, sq := range opening {
		index := Square(sq.y*Width + sq.x)
		if index == hole {
			return board, fmt.Errorf("%w: black hole on opening square %s", ErrInvalidCoordinate, hole)
		}
		board[index] = sq.cell
	}

	board[hole] = BlackHole
	return board, nil
}

// IsOpening reports whether sq holds a disc in the opening position.
func IsOpening(sq Square) bool {
	for _, o := range opening {
		if Square(o.y*Width+o.x) == sq {
			return true
		}
	}

	return false
}

// RandomBlackHole picks a uniformly random square that is not one of the
// four opening squares.
func RandomBlackHole(rng *rand.Rand) Square {
	for {
		sq := Square(rng.Intn(SquareN))
		if !IsOpening(sq) {
			return sq
		}
	}
}

// Count returns the number of cells in the given state.
func (board *Board) Count(cell Cell) int {
	n := 0
	for _, c := range board {
		if c == cell {
			n++
		}
	}

	return n
}

// String renders the board as 8 rows of glyphs, top row first.
func (board *Board) String() string {
	var sb strings.Builder
	for i, cell := range board {
		if i > 0 && i%Width == 0 {
			sb.WriteByte('\n')
		}
		sb.WriteByte(cell.Glyph())
	}

	return sb.String()
}

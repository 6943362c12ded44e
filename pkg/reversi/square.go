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
	"errors"
	"fmt"
)

// Width is the number of files and ranks on the board.
const Width = 8

// SquareN is the number of squares on the board.
const SquareN = Width * Width

var ErrInvalidCoordinate = errors.New("reversi: invalid coordinate")

// Square is the linear index of a board cell, y*8 + x.
type Square int

// SquareOf returns the Square at the given file (x) and rank (y).
func SquareOf(x, y int) (Square, error) {
	if x < 0 || x >= Width || y < 0 || y >= Width {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinate, x, y)
	}

	return Square(y*Width + x), nil
}

// NewSquare parses an algebraic label like "C4". The file letter is case
// insensitive.
func NewSquare(label string) (Square, error) {
	if len(label) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, label)
	}

	file := label[0]
	if file >= 'a' && file <= 'h' {
		file -= 'a' - 'A'
	}

	rank := label[1]
	if file < 'A' || file > 'H' || rank < '1' || rank > '8' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, label)
	}

	return Square(int(rank-'1')*Width + int(file-'A')), nil
}

// Valid reports whether the square lies on the board.
func (sq Square) Valid() bool {
	return sq >= 0 && sq < SquareN
}

// X returns the square's file, 0 for A.
func (sq Square) X() int {
	return int(sq) % Width
}

// Y returns the square's rank, 0 for 1.
func (sq Square) Y() int {
	return int(sq) / Width
}

// Label is the checked form of String.
func (sq Square) Label() (string, error) {
	if !sq.Valid() {
		return "", fmt.Errorf("%w: index %d", ErrInvalidCoordinate, int(sq))
	}

	return sq.String(), nil
}

func (sq Square) String() string {
	if !sq.Valid() {
		return "??"
	}

	return fmt.Sprintf("%c%c", 'A'+sq.X(), '1'+sq.Y())
}

// step returns the square one step away in direction d, and false if that
// walks off the board.
func (sq Square) step(d direction) (Square, bool) {
	x, y := sq.X()+d.dx, sq.Y()+d.dy
	if x < 0 || x >= Width || y < 0 || y >= Width {
		return 0, false
	}

	return Square(y*Width + x), true
}

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
	"maps"
	"slices"
)

type direction struct {
	dx, dy int
}

// directions in scan order: E, NE, N, NW, W, SW, S, SE (y grows with rank)
var directions = [...]direction{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// Moves maps every legal placement to the opponent discs it captures.
type Moves map[Square][]Square

// Squares returns the legal placements in ascending order.
func (moves Moves) Squares() []Square {
	return slices.Sorted(maps.Keys(moves))
}

// Contains reports whether sq is a legal placement.
func (moves Moves) Contains(sq Square) bool {
	_, found := moves[sq]
	return found
}

// GenerateMoves computes the legal placements of side on board. Capture
// runs reaching the same placement from several discs or directions are
// concatenated in scan order.
func GenerateMoves(board *Board, side Side) Moves {
	us, them := side.Disc(), side.Opposite().Disc()
	moves := make(Moves)

	for index, cell := range board {
		if cell != us {
			continue
		}

		source := Square(index)
		for _, d := range directions {
			var run []Square

			for sq, ok := source.step(d); ok; sq, ok = sq.step(d) {
				if board[sq] == them {
					run = append(run, sq)
					continue
				}

				// The black hole is never Empty, so it can't be a landing cell.
				if board[sq] == Empty && len(run) > 0 {
					moves[sq] = append(moves[sq], run...)
				}

				break
			}
		}
	}

	return moves
}

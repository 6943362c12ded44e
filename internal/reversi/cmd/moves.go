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

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/kraftwerk28/reversi-game/pkg/bot"
	"github.com/kraftwerk28/reversi-game/pkg/reversi"
)

func Moves() *cobra.Command {
	return &cobra.Command{
		Use:   "moves black-hole [moves...]",
		Short: "Replay moves and show the position",
		Args:  cobra.MinimumNArgs(1),
		Long: heredoc.Doc(`moves plays the given moves from the opening position,
			black first and alternating, and prints the board, the
			disc counts, and the legal moves of the side to move.
			A side without legal moves plays pass.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			engine, side, err := replay(args[0], args[1:])
			if err != nil {
				return err
			}

			printPosition(cmd.OutOrStdout(), engine, side)
			return nil
		},
	}
}

// replay plays moves from the opening and returns the position along
// with the side to move.
func replay(hole string, moves []string) (*reversi.Engine, reversi.Side, error) {
	engine, err := reversi.New(reversi.Black, hole)
	if err != nil {
		return nil, 0, err
	}

	side := reversi.Black
	for i, move := range moves {
		if strings.EqualFold(move, bot.Pass) {
			if engine.HasMoves(side) {
				return nil, 0, fmt.Errorf("move %d: %s can't pass: %w", i+1, side, reversi.ErrIllegalMove)
			}
		} else {
			sq, err := reversi.NewSquare(move)
			if err != nil {
				return nil, 0, fmt.Errorf("move %d: %w", i+1, err)
			}

			if _, err := engine.Play(side, sq); err != nil {
				return nil, 0, fmt.Errorf("move %d: %s %s: %w", i+1, side, sq, err)
			}
		}

		side = side.Opposite()
	}

	return engine, side, nil
}

func printPosition(w io.Writer, engine *reversi.Engine, side reversi.Side) {
	fmt.Fprintln(w, engine.Render())
	fmt.Fprintf(w, "\nblack %d white %d\n", engine.Count(reversi.Black), engine.Count(reversi.White))

	if result := engine.Result(); result != reversi.Ongoing {
		fmt.Fprintf(w, "game over: %s\n", result)
		return
	}

	moves := engine.Moves(side).Squares()
	if len(moves) == 0 {
		fmt.Fprintf(w, "%s to move: pass\n", side)
		return
	}

	labels := make([]string, len(moves))
	for i, sq := range moves {
		labels[i] = sq.String()
	}
	fmt.Fprintf(w, "%s to move: %s\n", side, strings.Join(labels, " "))
}

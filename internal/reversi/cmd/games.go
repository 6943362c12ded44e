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

	"github.com/spf13/cobra"

	"github.com/kraftwerk28/reversi-game/pkg/common"
	"github.com/kraftwerk28/reversi-game/pkg/record"
)

func Games() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games [game-id]",
		Short: "List recorded games or show the moves of one",
		Args:  cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("record")
			if path == "" {
				var err error
				if path, err = common.RecordFile(); err != nil {
					return err
				}
			}

			store, err := record.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			if len(args) == 1 {
				game, err := store.Game(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				moves, err := store.Moves(cmd.Context(), game.GameID)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "\x1b[34m%s\x1b[0m vs \x1b[34m%s\x1b[0m, black hole %s\n\n", game.Black, game.White, game.BlackHole)
				for _, move := range moves {
					fmt.Fprintf(out, "%3d. %-5s %-4s %6dms\n", move.Ply+1, move.Side, move.Move, move.Spent.Milliseconds())
				}

				if game.Result != "" {
					fmt.Fprintf(out, "\n%s (%s)\n", game.Result, game.Reason)
				}
				return nil
			}

			games, err := store.Games(cmd.Context())
			if err != nil {
				return err
			}

			if len(games) == 0 {
				fmt.Fprintln(out, "\x1b[31mNo Games Recorded.\x1b[0m")
				return nil
			}

			for _, game := range games {
				fmt.Fprintf(out, "%s  %s  %-20s %-20s %-7s %s\n",
					game.GameID, game.BlackHole, game.Black, game.White, game.Result, game.Reason)
			}

			return nil
		},
	}

	cmd.Flags().String("record", "", "SQLite game archive, games.db in the data directory if empty")
	return cmd
}

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
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kraftwerk28/reversi-game/pkg/bot"
	"github.com/kraftwerk28/reversi-game/pkg/common"
)

func Play() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game as a bot on stdin and stdout",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`play runs the bot. The first line read is the black hole
			square, the second the side to play, black or white. After
			that every line read is an opponent move and every line
			written is one of the bot's moves, a square like C4 or the
			word pass when there is no legal move.

			The bot stops once neither side can move. Moves and errors
			are logged to bot.log, and the board after every opponent
			move to board.log, inside the log directory.

			The policy decides the moves: random, greedy, or the path
			of a Lua script defining choose(moves, board).`),

		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			name, _ := flags.GetString("policy")
			seed, _ := flags.GetInt64("seed")
			delay, _ := flags.GetDuration("delay")
			logDir, _ := flags.GetString("log-dir")
			noLog, _ := flags.GetBool("no-log")

			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			policy, err := bot.NewPolicy(name, seed)
			if err != nil {
				return err
			}

			if closer, ok := policy.(io.Closer); ok {
				defer closer.Close()
			}

			config := bot.Config{
				Policy: policy,
				Delay:  delay,
			}

			if !noLog {
				logFile, err := common.TryCreate(filepath.Join(logDir, "bot.log"))
				if err != nil {
					return err
				}
				defer logFile.Close()

				boardFile, err := common.TryCreate(filepath.Join(logDir, "board.log"))
				if err != nil {
					return err
				}
				defer boardFile.Close()

				logger := logrus.New()
				logger.SetOutput(logFile)
				logger.SetLevel(logrus.GetLevel())
				logger.SetFormatter(&logrus.TextFormatter{
					DisableColors: true,
					FullTimestamp: true,
				})

				config.Logger = logger
				config.Boards = boardFile
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return bot.NewPlayer(cmd.InOrStdin(), cmd.OutOrStdout(), config).Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("policy", "random", "Move policy: random, greedy, or a Lua script")
	flags.Int64("seed", 0, "Seed for the random policy, time based if 0")
	flags.Duration("delay", 0, "Pause after every opponent move")
	flags.String("log-dir", common.LogDirectory, "Directory for bot.log and board.log")
	flags.Bool("no-log", false, "Don't write log files")

	return cmd
}

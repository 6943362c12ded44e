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
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kraftwerk28/reversi-game/pkg/common"
	"github.com/kraftwerk28/reversi-game/pkg/match"
	"github.com/kraftwerk28/reversi-game/pkg/record"
	"github.com/kraftwerk28/reversi-game/pkg/series"
)

// defaultRecord stands for the archive in the data directory.
const defaultRecord = "-"

func Match() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Referee games between two bots",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`match plays pairs of games between two bot commands,
			swapping colours within each pair, and prints a score
			table with elo estimates.

			The bots are described by a yaml file given with --config,
			by --black and --white, or both with the flags taking
			precedence. A bot that times out, crashes, passes while it
			has a move, or plays an illegal move loses the game.

			With --record the games are archived in a SQLite database,
			by default games.db in the data directory.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			config := series.DefaultConfig()
			if path, _ := flags.GetString("config"); path != "" {
				var err error
				if config, err = series.LoadConfig(path); err != nil {
					return err
				}
			}

			for i, side := range []string{"black", "white"} {
				if !flags.Changed(side) {
					continue
				}

				line, _ := flags.GetString(side)
				engine, err := engineFromCommand(line)
				if err != nil {
					return err
				}

				for len(config.Engines) < 2 {
					config.Engines = append(config.Engines, match.EngineConfig{})
				}
				config.Engines[i] = engine
			}

			if flags.Changed("games") {
				config.GamePairs, _ = flags.GetInt("games")
			}

			if flags.Changed("concurrency") {
				config.Concurrency, _ = flags.GetInt("concurrency")
			}

			if flags.Changed("delay") {
				config.Delay, _ = flags.GetDuration("delay")
			}

			if flags.Changed("black-hole") {
				config.BlackHole, _ = flags.GetString("black-hole")
			}

			if flags.Changed("seed") {
				config.Seed, _ = flags.GetInt64("seed")
			}

			if flags.Changed("tc") {
				tc, _ := flags.GetString("tc")
				for i := range config.Engines {
					config.Engines[i].TimeC = tc
				}
			}

			if flags.Changed("record") {
				config.Record, _ = flags.GetString("record")
			}

			tour, err := series.NewSeries(config)
			if err != nil {
				return err
			}

			if config.Record != "" {
				path := config.Record
				if path == defaultRecord {
					if path, err = common.RecordFile(); err != nil {
						return err
					}
				}

				store, err := record.Open(path)
				if err != nil {
					return err
				}
				defer store.Close()

				logrus.Infof("Recording games to %s", path)
				tour.Recorder = store
			}

			tour.Output = cmd.OutOrStdout()
			tour.Progress = !logrus.IsLevelEnabled(logrus.DebugLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return tour.Start(ctx)
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Series description in yaml")
	flags.String("black", "", "Command of the bot playing black in odd games")
	flags.String("white", "", "Command of the bot playing white in odd games")
	flags.Int("games", 1, "Number of game pairs")
	flags.Int("concurrency", 1, "Number of games played at once")
	flags.String("tc", "inf", "Time control per bot, [moves/]base+increment in seconds")
	flags.Duration("delay", 0, "Pause after every move")
	flags.String("black-hole", "", "Black hole square, random per pair if empty")
	flags.Int64("seed", 0, "Seed for the black hole picks")
	flags.String("record", "", "SQLite database to archive games in")
	flags.Lookup("record").NoOptDefVal = defaultRecord

	return cmd
}

// engineFromCommand turns a shell-like command line into an engine,
// named after the program.
func engineFromCommand(line string) (match.EngineConfig, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return match.EngineConfig{}, errors.New("empty bot command")
	}

	name := fields[0]
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	return match.EngineConfig{
		Name: strings.TrimSpace(name + " " + strings.Join(fields[1:], " ")),
		Cmd:  fields[0],
		Arg:  strings.Join(fields[1:], " "),
	}, nil
}

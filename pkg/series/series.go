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

// Package series plays a number of refereed games between two bots and
// keeps score.
package series

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"

	"github.com/kraftwerk28/reversi-game/pkg/match"
	"github.com/kraftwerk28/reversi-game/pkg/reversi"
	"github.com/kraftwerk28/reversi-game/pkg/stats"
)

// spinner character set
const SPIN = 31

func NewSeries(config Config) (*Series, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var series Series
	series.Config = config
	series.Output = os.Stdout

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	series.rng = rand.New(rand.NewSource(seed))

	series.games = make(chan *Game)
	series.results = make(chan Result)

	return &series, nil
}

// Series runs Config.GamePairs pairs of games. Both games of a pair share
// a black hole, with colours swapped in the second.
type Series struct {
	Config Config

	// Recorder, if set, archives every game.
	Recorder match.Recorder

	// Output receives the score tables.
	Output io.Writer

	// Progress shows a spinner while games are running.
	Progress bool

	rng *rand.Rand

	games   chan *Game
	results chan Result

	Games  int
	Scores [2]struct {
		Wins, Losses, Draws int
	}
}

// Start plays the whole series and returns once every started game has
// finished. Cancelling ctx stops new games and interrupts running ones.
func (series *Series) Start(ctx context.Context) error {
	var spin *spinner.Spinner
	if series.Progress {
		spin = spinner.New(spinner.CharSets[SPIN], 100*time.Millisecond)
		spin.Start()
		defer spin.Stop()
	}

	handled := make(chan struct{})
	go func() {
		series.ResultHandler(spin)
		close(handled)
	}()

	var threads sync.WaitGroup
	for i := 0; i < series.Config.Concurrency; i++ {
		threads.Add(1)
		go func() {
			defer threads.Done()
			series.Thread(ctx)
		}()
	}

	series.schedule(ctx)

	close(series.games)
	threads.Wait()
	close(series.results)
	<-handled

	series.Report()
	return ctx.Err()
}

func (series *Series) schedule(ctx context.Context) {
	p1, p2 := 0, 1
	for pair := 0; pair < series.Config.GamePairs; pair++ {
		hole := series.Config.BlackHole
		if hole == "" {
			hole = reversi.RandomBlackHole(series.rng).String()
		}

		for game := 0; game < 2; game++ {
			next := &Game{
				Config: match.Config{
					BlackHole: hole,
					Delay:     series.Config.Delay,
					Engines: [2]match.EngineConfig{
						series.Config.Engines[p1],
						series.Config.Engines[p2],
					},
					Recorder: series.Recorder,
				},

				Number: pair*2 + game + 1,

				Player1: p1,
				Player2: p2,
			}

			select {
			case series.games <- next:
			case <-ctx.Done():
				return
			}

			// Switch colours.
			p1, p2 = p2, p1
		}
	}
}

func (series *Series) Thread(ctx context.Context) {
	for game := range series.games {
		if err := series.RunGame(ctx, game); err != nil {
			logrus.Error(err)
		}
	}
}

type Game struct {
	match.Config

	Number           int
	Player1, Player2 int
}

func (series *Series) RunGame(ctx context.Context, game *Game) error {
	logrus.Infof(
		"\x1b[33mStarting\x1b[0m Game #%d: %s vs %s (\x1b[33m%s\x1b[0m)",
		game.Number,
		game.Engines[0].Name,
		game.Engines[1].Name,
		game.BlackHole,
	)

	score, reason, err := match.Run(ctx, &game.Config)
	if err != nil {
		return fmt.Errorf("game #%d: %w", game.Number, err)
	}

	series.results <- Result{
		Game:   game,
		Result: score,
		Reason: reason,
	}

	return nil
}

func (series *Series) ResultHandler(spin *spinner.Spinner) {
	total := series.Config.GamePairs * 2
	for result := range series.results {
		series.Games++

		switch result.Result {
		case match.Win:
			series.Scores[result.Game.Player1].Wins++
			series.Scores[result.Game.Player2].Losses++

		case match.Loss:
			series.Scores[result.Game.Player2].Wins++
			series.Scores[result.Game.Player1].Losses++

		case match.Draw:
			series.Scores[result.Game.Player1].Draws++
			series.Scores[result.Game.Player2].Draws++
		}

		logrus.WithField("game", result.Game.ID).Infof(
			"\x1b[32mFinished\x1b[0m Game #%d: %s vs %s: %s",
			result.Game.Number,
			result.Game.Engines[0].Name,
			result.Game.Engines[1].Name,
			result,
		)

		if spin != nil {
			spin.Lock()
			spin.Suffix = fmt.Sprintf(" %d/%d games", series.Games, total)
			spin.Unlock()
		}

		if series.Games%10 == 0 && series.Games != total {
			if spin != nil {
				spin.Stop()
			}
			series.Report()
			if spin != nil {
				spin.Start()
			}
		}
	}
}

func (series *Series) Report() {
	out := series.Output
	fmt.Fprintln(out, "╔══════════════════════════════════════════════════════════╗")
	fmt.Fprintln(out, "║    Name               Elo Error   Wins Loss Draw   Total ║")
	fmt.Fprintln(out, "╠══════════════════════════════════════════════════════════╣")
	for i, engine := range series.Config.Engines {
		score := series.Scores[i]
		lower, elo, upper := stats.Elo(score.Wins, score.Draws, score.Losses)

		format := "║ %2d. %-15s   %+4.0f %4.0f   %4d %4d %4d   %5d ║\n"
		if i == 0 {
			if elo >= 0 {
				format = "║ \x1b[32m%2d. %-15s   %+4.0f %4.0f   %4d %4d %4d   %5d\x1b[0m ║\n"
			} else {
				format = "║ \x1b[31m%2d. %-15s   %+4.0f %4.0f   %4d %4d %4d   %5d\x1b[0m ║\n"
			}
		}

		fmt.Fprintf(
			out, format,
			i+1, engine.Name,
			elo, math.Max(upper-elo, elo-lower),
			score.Wins, score.Losses, score.Draws,
			score.Wins+score.Losses+score.Draws)
	}
	fmt.Fprintln(out, "╚══════════════════════════════════════════════════════════╝")
}

type Result struct {
	Game *Game

	Result match.Result
	Reason string
}

func (result Result) String() string {
	switch result.Result {
	case match.Win:
		return fmt.Sprintf("%s wins by %s", result.Game.Engines[0].Name, result.Reason)
	case match.Loss:
		return fmt.Sprintf("%s wins by %s", result.Game.Engines[1].Name, result.Reason)
	case match.Draw:
		return fmt.Sprintf("Draw by %s", result.Reason)
	}

	return "illegal result"
}

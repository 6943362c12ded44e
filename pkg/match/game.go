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

// Package match referees a single game between two bot processes.
package match

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kraftwerk28/reversi-game/pkg/record"
	"github.com/kraftwerk28/reversi-game/pkg/reversi"
)

// Pass is the line a bot sends when it has no legal move.
const Pass = "pass"

const movePattern = `^([a-hA-H][1-8]|pass)$`

// Recorder persists games as they are played. *record.Store satisfies it.
type Recorder interface {
	CreateGame(ctx context.Context, game record.GameRecord) error
	AddMove(ctx context.Context, move record.MoveRecord) error
	FinishGame(ctx context.Context, id, result, reason string) error
}

type Config struct {
	// ID of the game, a fresh uuid if empty.
	ID string

	// Label of the black hole, random if empty.
	BlackHole string

	// Pause after each forwarded move.
	Delay time.Duration

	// Engines[0] plays black.
	Engines [2]EngineConfig

	Recorder Recorder
	Rand     *rand.Rand
}

// Run plays a game and returns its result from the point of view of the
// first engine, along with a human readable reason. An error is returned
// only when the game could not be decided, like on cancellation or a bad
// black hole, and is never the fault of a bot.
func Run(ctx context.Context, config *Config) (Result, string, error) {
	if config.ID == "" {
		config.ID = uuid.NewString()
	}

	hole, err := pickBlackHole(config)
	if err != nil {
		return Draw, "", err
	}

	log := logrus.WithFields(logrus.Fields{
		"game":       config.ID,
		"black":      config.Engines[0].Name,
		"white":      config.Engines[1].Name,
		"black-hole": hole,
	})

	referee, err := reversi.New(reversi.Black, hole)
	if err != nil {
		return Draw, "", err
	}

	engines := [2]*Engine{}
	remaining_time := [2]TimeControl{}

	if remaining_time[0], err = ParseTime(config.Engines[0].TimeC); err != nil {
		return Loss, err.Error(), nil
	}

	if remaining_time[1], err = ParseTime(config.Engines[1].TimeC); err != nil {
		return Win, err.Error(), nil
	}

	if engines[0], err = StartEngine(config.Engines[0]); err != nil {
		return Loss, err.Error(), nil
	}
	defer engines[0].Kill()

	if engines[1], err = StartEngine(config.Engines[1]); err != nil {
		return Win, err.Error(), nil
	}
	defer engines[1].Kill()

	stop := context.AfterFunc(ctx, func() {
		engines[0].Kill()
		engines[1].Kill()
	})
	defer stop()

	game := &progress{config: config, log: log}
	game.create(ctx, hole)

	// forfeit ends the game with a loss for player, unless the failure
	// came from ctx being cancelled.
	forfeit := func(player int, reason string) (Result, string, error) {
		if err := ctx.Err(); err != nil {
			game.finish(ctx, Draw, "interrupted")
			return Draw, "interrupted", err
		}

		return game.finish(ctx, GameLostBy[player], reason)
	}

	for i, engine := range engines {
		if err := engine.Write("%s", hole); err != nil {
			return forfeit(i, err.Error())
		}

		if err := engine.Write("%s", reversi.Side(i+1)); err != nil {
			return forfeit(i, err.Error())
		}
	}

	log.Info("game started")

	side := reversi.Black
	for ply := 0; referee.Result() == reversi.Ongoing; ply++ {
		if err := ctx.Err(); err != nil {
			game.finish(ctx, Draw, "interrupted")
			return Draw, "interrupted", err
		}

		engineToMove := int(side) - 1
		engine := engines[engineToMove]

		startTime := time.Now()
		line, err := engine.Await(movePattern, remaining_time[engineToMove].Timeout())
		timeSpent := time.Since(startTime)
		inTime := remaining_time[engineToMove].Spend(timeSpent)

		if err != nil {
			return forfeit(engineToMove, fmt.Sprintf("%s: %v", engine.Name(), err))
		}

		if !inTime {
			return forfeit(engineToMove, fmt.Sprintf("%s: %v", engine.Name(), ErrReadTimeout))
		}

		move := strings.ToUpper(line)
		if line == Pass {
			move = Pass
			if referee.HasMoves(side) {
				return forfeit(engineToMove, fmt.Sprintf("%s passed with legal moves", engine.Name()))
			}
		} else {
			sq, err := reversi.NewSquare(line)
			if err == nil {
				_, err = referee.Play(side, sq)
			}

			if err != nil {
				return forfeit(engineToMove, fmt.Sprintf("%s played %s: %v", engine.Name(), move, err))
			}
		}

		log.WithFields(logrus.Fields{
			"ply":  ply,
			"side": side,
			"move": move,
		}).Trace("move")

		game.move(ctx, record.MoveRecord{
			GameID: config.ID,
			Ply:    ply,
			Side:   side.String(),
			Move:   move,
			Board:  referee.Render(),
			Spent:  timeSpent,
		})

		other := engineToMove ^ 1
		if err := engines[other].Write("%s", move); err != nil {
			return forfeit(other, fmt.Sprintf("%s: %v", engines[other].Name(), err))
		}

		side = side.Opposite()

		if config.Delay > 0 && referee.Result() == reversi.Ongoing {
			timer := time.NewTimer(config.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}

	black, white := referee.Count(reversi.Black), referee.Count(reversi.White)
	return game.finish(ctx, ResultOf(referee.Result()), fmt.Sprintf("%d-%d discs", black, white))
}

func pickBlackHole(config *Config) (string, error) {
	if config.BlackHole != "" {
		sq, err := reversi.NewSquare(config.BlackHole)
		if err != nil {
			return "", fmt.Errorf("black hole: %w", err)
		}

		if reversi.IsOpening(sq) {
			return "", fmt.Errorf("black hole: %w: %s is an opening square", reversi.ErrInvalidCoordinate, sq)
		}

		return sq.String(), nil
	}

	rng := config.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return reversi.RandomBlackHole(rng).String(), nil
}

// progress forwards a game to the optional Recorder. Storage failures are
// logged and otherwise ignored so that they never decide a game.
type progress struct {
	config *Config
	log    *logrus.Entry
}

func (g *progress) create(ctx context.Context, hole string) {
	if g.config.Recorder == nil {
		return
	}

	err := g.config.Recorder.CreateGame(ctx, record.GameRecord{
		GameID:    g.config.ID,
		BlackHole: hole,
		Black:     g.config.Engines[0].Name,
		White:     g.config.Engines[1].Name,
		Started:   time.Now(),
	})
	if err != nil {
		g.log.WithError(err).Warn("record game")
	}
}

func (g *progress) move(ctx context.Context, move record.MoveRecord) {
	if g.config.Recorder == nil {
		return
	}

	if err := g.config.Recorder.AddMove(ctx, move); err != nil {
		g.log.WithError(err).Warn("record move")
	}
}

func (g *progress) finish(ctx context.Context, result Result, reason string) (Result, string, error) {
	g.log.WithFields(logrus.Fields{
		"result": result,
		"reason": reason,
	}).Info("game finished")

	if g.config.Recorder != nil {
		if err := g.config.Recorder.FinishGame(context.WithoutCancel(ctx), g.config.ID, result.String(), reason); err != nil {
			g.log.WithError(err).Warn("record result")
		}
	}

	return result, reason, nil
}

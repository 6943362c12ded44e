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

// Package bot drives a reversi.Engine over the line based game protocol:
// the black hole label and the bot's color are read first, then one move
// label (or "pass") is written per turn and one is read per opposing turn.
package bot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kraftwerk28/reversi-game/pkg/reversi"
)

// Pass is sent instead of a move label by a side without legal moves.
const Pass = "pass"

// State is the position of the player in the turn cycle.
type State uint8

const (
	Starting State = iota
	AwaitingMyMove
	MyMoveApplied
	AwaitingOpponentMove
	OpponentMoveApplied
	Ended
)

func (state State) String() string {
	switch state {
	case Starting:
		return "starting"
	case AwaitingMyMove:
		return "awaiting my move"
	case MyMoveApplied:
		return "my move applied"
	case AwaitingOpponentMove:
		return "awaiting opponent move"
	case OpponentMoveApplied:
		return "opponent move applied"
	default:
		return "ended"
	}
}

// Config holds the pluggable parts of a Player. Nil sinks discard.
type Config struct {
	Policy Policy

	// Delay is slept after every opponent move, pacing the game.
	Delay time.Duration

	// Logger receives move and error events.
	Logger logrus.FieldLogger

	// Boards receives a board dump after every opponent move.
	Boards io.Writer
}

// Player plays one game against the opponent on the other end of the
// reader and writer.
type Player struct {
	config Config

	reader *bufio.Reader
	writer *bufio.Writer

	engine *reversi.Engine
	state  State
}

// NewPlayer creates a Player reading opponent lines from r and writing its
// own to w.
func NewPlayer(r io.Reader, w io.Writer, config Config) *Player {
	if config.Policy == nil {
		config.Policy = NewRandom(time.Now().UnixNano())
	}

	if config.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		config.Logger = logger
	}

	if config.Boards == nil {
		config.Boards = io.Discard
	}

	return &Player{
		config: config,
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
	}
}

// State returns the player's position in the turn cycle.
func (player *Player) State() State {
	return player.state
}

// Engine returns the game engine, nil before setup.
func (player *Player) Engine() *reversi.Engine {
	return player.engine
}

// Run reads the game setup and plays until neither side can move. Every
// failure is logged to the configured logger and returned.
func (player *Player) Run(ctx context.Context) error {
	if err := player.run(ctx); err != nil {
		player.config.Logger.WithError(err).WithField("state", player.state).Error("game aborted")
		return err
	}

	player.config.Logger.WithFields(logrus.Fields{
		"result": player.engine.Result(),
		"black":  player.engine.Count(reversi.Black),
		"white":  player.engine.Count(reversi.White),
	}).Info("game over")
	return nil
}

func (player *Player) run(ctx context.Context) error {
	if err := player.Setup(); err != nil {
		return err
	}

	for player.state != Ended {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := player.Step(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Setup reads the black hole label and the player's side and creates the
// engine.
func (player *Player) Setup() error {
	label, err := player.readLine()
	if err != nil {
		return fmt.Errorf("read black hole: %w", err)
	}

	color, err := player.readLine()
	if err != nil {
		return fmt.Errorf("read color: %w", err)
	}

	side, err := reversi.NewSide(color)
	if err != nil {
		return err
	}

	if player.engine, err = reversi.New(side, label); err != nil {
		return err
	}

	player.config.Logger.WithFields(logrus.Fields{
		"side":       side,
		"black-hole": player.engine.BlackHole(),
	}).Info("new game")

	// Black moves first.
	if side == reversi.Black {
		player.state = AwaitingMyMove
	} else {
		player.state = AwaitingOpponentMove
	}

	return nil
}

// Step performs a single transition of the turn cycle.
func (player *Player) Step(ctx context.Context) error {
	switch player.state {
	case AwaitingMyMove:
		if player.gameOver() {
			player.state = Ended
			return nil
		}

		if err := player.myMove(); err != nil {
			return err
		}
		player.state = MyMoveApplied

	case MyMoveApplied:
		if player.gameOver() {
			player.state = Ended
			return nil
		}
		player.state = AwaitingOpponentMove

	case AwaitingOpponentMove:
		if player.gameOver() {
			player.state = Ended
			return nil
		}

		if err := player.opponentMove(); err != nil {
			return err
		}
		player.state = OpponentMoveApplied

	case OpponentMoveApplied:
		fmt.Fprintf(player.config.Boards, "%s\n\n", player.engine.Render())

		if err := player.pace(ctx); err != nil {
			return err
		}

		if player.gameOver() {
			player.state = Ended
			return nil
		}
		player.state = AwaitingMyMove

	case Starting:
		return errors.New("bot: step before setup")
	}

	return nil
}

func (player *Player) gameOver() bool {
	return player.engine.Result() != reversi.Ongoing
}

func (player *Player) myMove() error {
	moves := player.engine.LegalMoves(false)
	if len(moves) == 0 {
		player.config.Logger.WithField("move", Pass).Info("my move")
		return player.writeLine(Pass)
	}

	placement, err := player.config.Policy.Choose(player.engine, moves)
	if err != nil {
		return err
	}

	captures, found := moves[placement]
	if !found {
		return fmt.Errorf("%w: %s", ErrBadChoice, placement)
	}

	if err := player.engine.ApplyMove(player.engine.Side(), placement, captures); err != nil {
		return err
	}

	player.config.Logger.WithFields(logrus.Fields{
		"move":     placement,
		"captures": len(captures),
	}).Info("my move")
	return player.writeLine(placement.String())
}

func (player *Player) opponentMove() error {
	line, err := player.readLine()
	if err != nil {
		return fmt.Errorf("read opponent move: %w", err)
	}

	player.config.Logger.WithField("move", line).Info("opponent move")

	if strings.EqualFold(line, Pass) {
		if player.engine.HasMoves(player.engine.Side().Opposite()) {
			return fmt.Errorf("%w: pass with legal moves available", reversi.ErrIllegalOpponentMove)
		}
		return nil
	}

	placement, err := reversi.NewSquare(line)
	if err != nil {
		return err
	}

	_, err = player.engine.ApplyOpponentMove(placement)
	return err
}

func (player *Player) pace(ctx context.Context) error {
	if player.config.Delay <= 0 {
		return nil
	}

	timer := time.NewTimer(player.config.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// readLine returns the next non-empty line, trimmed. A stream ending
// before one is found yields io.ErrUnexpectedEOF.
func (player *Player) readLine() (string, error) {
	for {
		line, err := player.reader.ReadString('\n')
		line = strings.TrimSpace(line)

		if line != "" {
			return line, nil
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
	}
}

func (player *Player) writeLine(line string) error {
	if _, err := fmt.Fprintln(player.writer, line); err != nil {
		return err
	}

	return player.writer.Flush()
}

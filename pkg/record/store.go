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

// Package record persists refereed games and their moves to SQLite.
package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNoGame = errors.New("record: no such game")

// Store is a SQLite backed game archive. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and makes sure the schema
// exists. ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// sqlite allows one writer; a single connection also keeps
	// ":memory:" databases from splitting per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// dsn turns foreign key enforcement on for every connection the pool opens.
func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}

	return path + "?_foreign_keys=on"
}

// CreateGame inserts a new unfinished game.
func (s *Store) CreateGame(ctx context.Context, game GameRecord) error {
	if game.Started.IsZero() {
		game.Started = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (game_id, black_hole, black, white, started_utc) VALUES (?, ?, ?, ?, ?)`,
		game.GameID, game.BlackHole, game.Black, game.White, game.Started.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create game %s: %w", game.GameID, err)
	}

	return nil
}

// AddMove appends a move to a game.
func (s *Store) AddMove(ctx context.Context, move MoveRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO moves (game_id, ply, side, move, board, spent_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		move.GameID, move.Ply, move.Side, move.Move, move.Board, move.Spent.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("add move %d to %s: %w", move.Ply, move.GameID, err)
	}

	return nil
}

// FinishGame stores the result of a game.
func (s *Store) FinishGame(ctx context.Context, id, result, reason string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET result = ?, reason = ? WHERE game_id = ?`,
		result, reason, id,
	)
	if err != nil {
		return fmt.Errorf("finish game %s: %w", id, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish game %s: %w", id, ErrNoGame)
	}

	return nil
}

// Game returns a single game.
func (s *Store) Game(ctx context.Context, id string) (GameRecord, error) {
	var game GameRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT game_id, black_hole, black, white, started_utc, result, reason
		FROM games WHERE game_id = ?`, id,
	).Scan(&game.GameID, &game.BlackHole, &game.Black, &game.White, &game.Started, &game.Result, &game.Reason)

	if errors.Is(err, sql.ErrNoRows) {
		return game, fmt.Errorf("game %s: %w", id, ErrNoGame)
	}

	return game, err
}

// Games returns every game, newest first.
func (s *Store) Games(ctx context.Context) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, black_hole, black, white, started_utc, result, reason
		FROM games ORDER BY started_utc DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.GameID, &g.BlackHole, &g.Black, &g.White, &g.Started, &g.Result, &g.Reason); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}

	return games, rows.Err()
}

// Moves returns the moves of a game in order.
func (s *Store) Moves(ctx context.Context, gameID string) ([]MoveRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, ply, side, move, board, spent_ms
		FROM moves WHERE game_id = ? ORDER BY ply`, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		var spent int64
		if err := rows.Scan(&m.GameID, &m.Ply, &m.Side, &m.Move, &m.Board, &spent); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		m.Spent = time.Duration(spent) * time.Millisecond
		moves = append(moves, m)
	}

	return moves, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

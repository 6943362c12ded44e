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

package record

import "time"

// GameRecord is a row in the games table.
type GameRecord struct {
	GameID    string
	BlackHole string
	Black     string
	White     string
	Started   time.Time

	// Empty until the game is finished.
	Result string
	Reason string
}

// MoveRecord is a row in the moves table. Move is a square label or
// "pass"; Board is the position after the move.
type MoveRecord struct {
	GameID string
	Ply    int
	Side   string
	Move   string
	Board  string
	Spent  time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	black_hole TEXT NOT NULL,
	black TEXT NOT NULL,
	white TEXT NOT NULL,
	started_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	result TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	ply INTEGER NOT NULL,
	side TEXT NOT NULL CHECK(side IN ('black', 'white')),
	move TEXT NOT NULL,
	board TEXT NOT NULL,
	spent_ms INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, ply)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
`

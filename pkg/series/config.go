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

package series

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kraftwerk28/reversi-game/pkg/match"
	"github.com/kraftwerk28/reversi-game/pkg/reversi"
)

type Config struct {
	// The two bots playing the series.
	Engines []match.EngineConfig `yaml:"engines" validate:"len=2,dive"`

	// Number of games played concurrently.
	Concurrency int `yaml:"concurrency" validate:"gte=1"`

	// Number of game pairs, each pair is 2 games with colours swapped.
	GamePairs int `yaml:"game-pairs" validate:"gte=1"`

	// Pause after every move.
	Delay time.Duration `yaml:"delay" validate:"gte=0"`

	// Fixed black hole label, random per pair if empty.
	BlackHole string `yaml:"black-hole" validate:"omitempty,len=2"`

	// SQLite database to archive games in.
	Record string `yaml:"record"`

	// Seed for picking black holes, time based if zero.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig is used for fields a config file leaves out.
func DefaultConfig() Config {
	return Config{
		Concurrency: 1,
		GamePairs:   1,
	}
}

// LoadConfig reads a yaml series description on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}

	return config, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the config for missing or out of range fields.
func (config *Config) Validate() error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("series config: %w", err)
	}

	for _, engine := range config.Engines {
		if _, err := match.ParseTime(engine.TimeC); err != nil {
			return fmt.Errorf("series config: engine %s: %w", engine.Name, err)
		}
	}

	if config.BlackHole != "" {
		sq, err := reversi.NewSquare(config.BlackHole)
		if err != nil {
			return fmt.Errorf("series config: black hole: %w", err)
		}

		if reversi.IsOpening(sq) {
			return fmt.Errorf("series config: black hole: %w: %s is an opening square", reversi.ErrInvalidCoordinate, sq)
		}
	}

	return nil
}

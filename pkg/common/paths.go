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

// Package common holds the on-disk locations shared by the commands.
package common

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const FilePermissions = 0755

const name = "reversi"

var (
	// Directory holds persistent data such as the game archive.
	Directory = filepath.Join(xdg.DataHome, name)

	// LogDirectory holds the bot's move and board logs.
	LogDirectory = filepath.Join(xdg.StateHome, name)
)

// RecordFile returns the default game archive, creating its directory.
func RecordFile() (string, error) {
	return xdg.DataFile(filepath.Join(name, "games.db"))
}

// TryMkdir creates dir and its parents if it doesn't exist yet.
func TryMkdir(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return os.MkdirAll(dir, FilePermissions)
	}

	return nil
}

// TryCreate opens file for appending, creating it and its directory
// first if needed.
func TryCreate(file string) (*os.File, error) {
	if err := TryMkdir(filepath.Dir(file)); err != nil {
		return nil, err
	}

	return os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

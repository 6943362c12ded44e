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

package match

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EngineConfig describes how to launch a bot.
type EngineConfig struct {
	Name string `yaml:"name" validate:"required"`
	Cmd  string `yaml:"cmd" validate:"required"`
	Dir  string `yaml:"dir"`
	Arg  string `yaml:"arg"`

	// File the bot's stderr is appended to, discarded if empty.
	Stderr string `yaml:"stderr"`

	// Time control, [moves/]base+increment in seconds, or "inf".
	TimeC string `yaml:"tc"`
}

func StartEngine(config EngineConfig) (*Engine, error) {
	var engine Engine
	process := exec.Command(config.Cmd, strings.Fields(config.Arg)...)

	engine.config = config

	process.Dir = config.Dir

	if config.Stderr != "" {
		file, err := os.OpenFile(config.Stderr, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		engine.stderr = file
		process.Stderr = file
	}

	stdin, err := process.StdinPipe()
	if err != nil {
		return nil, err
	}

	stdout, err := process.StdoutPipe()
	if err != nil {
		return nil, err
	}

	engine.stdin = stdin
	engine.writer = bufio.NewWriter(stdin)
	engine.reader = bufio.NewReader(stdout)
	engine.lines = make(chan string)

	engine.Cmd = process

	if err := engine.Cmd.Start(); err != nil {
		engine.closeStderr()
		return nil, fmt.Errorf("start %s: %w", config.Name, err)
	}

	go func() {
		for {
			line, err := engine.reader.ReadString('\n')
			line = strings.Trim(line, " \n\t\r")

			if line != "" {
				logrus.Debugf("info: (%s)> %s", engine.config.Name, line)
				engine.lines <- line
			}

			if err != nil {
				// engine.err is read only after lines is closed
				engine.err = err
				close(engine.lines)
				return
			}
		}
	}()

	return &engine, nil
}

// Engine is a running bot process talking the line protocol.
type Engine struct {
	config EngineConfig

	*exec.Cmd

	stdin  io.WriteCloser
	stderr *os.File

	writer *bufio.Writer
	reader *bufio.Reader

	lines chan string

	err error

	kill sync.Once
}

// Name returns the configured name of the bot.
func (engine *Engine) Name() string {
	return engine.config.Name
}

// Kill closes the bot's input and kills its process. It is safe to call
// more than once.
func (engine *Engine) Kill() error {
	var err error
	engine.kill.Do(func() {
		_ = engine.stdin.Close()
		defer engine.closeStderr()

		if err = engine.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return
		}
		err = nil

		// Drain the output so the reader goroutine can exit.
		go func() {
			for range engine.lines {
			}
		}()

		_ = engine.Wait()
	})

	return err
}

func (engine *Engine) closeStderr() {
	if engine.stderr != nil {
		_ = engine.stderr.Close()
	}
}

var (
	ErrReadTimeout = errors.New("engine: read i/o timeout")
	ErrEngineExit  = errors.New("engine: process closed its output")
)

// Await is a utility function which waits for a line matching pattern
// from the engine. Lines that don't match are skipped. A timeout of zero
// waits forever.
func (engine *Engine) Await(pattern string, timeout time.Duration) (string, error) {
	regex := regexp.MustCompile(pattern)

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case <-expired:
			// timer ran out: wait timeout
			return "", ErrReadTimeout

		case line, ok := <-engine.lines:
			if !ok {
				if engine.err != nil && !errors.Is(engine.err, io.EOF) {
					return "", engine.err
				}
				return "", ErrEngineExit
			}

			if regex.MatchString(line) {
				// line is the expected line
				return line, nil
			}
		}
	}
}

func (engine *Engine) Write(format string, a ...any) error {
	logrus.Debugf("info: ("+engine.config.Name+")< "+format, a...)

	if _, err := fmt.Fprintf(engine.writer, format+"\n", a...); err != nil {
		return err
	}

	return engine.writer.Flush()
}

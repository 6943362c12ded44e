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

package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/kraftwerk28/reversi-game/pkg/reversi"
)

// Policy picks one of the legal moves. moves is never empty.
type Policy interface {
	Choose(engine *reversi.Engine, moves reversi.Moves) (reversi.Square, error)
}

// NewPolicy returns the policy with the given name: "random", "greedy", or
// the path to a lua script.
func NewPolicy(name string, seed int64) (Policy, error) {
	switch {
	case name == "random" || name == "":
		return NewRandom(seed), nil
	case name == "greedy":
		return Greedy{}, nil
	case strings.HasSuffix(name, ".lua"):
		return NewLua(name)
	default:
		return nil, fmt.Errorf("bot: unknown policy %q", name)
	}
}

// Random picks uniformly among the legal moves.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (policy *Random) Choose(_ *reversi.Engine, moves reversi.Moves) (reversi.Square, error) {
	squares := moves.Squares()
	return squares[policy.rng.Intn(len(squares))], nil
}

// Greedy picks the move capturing the most discs, the lowest square on ties.
type Greedy struct{}

func (Greedy) Choose(_ *reversi.Engine, moves reversi.Moves) (reversi.Square, error) {
	best, most := reversi.Square(-1), 0
	for _, sq := range moves.Squares() {
		if n := len(moves[sq]); n > most {
			best, most = sq, n
		}
	}

	return best, nil
}

var ErrBadChoice = errors.New("bot: policy chose an illegal move")

// Lua delegates the choice to a script defining a global function
//
//	choose(moves, board) -> label
//
// moves is an array of {square = "C4", captures = 1} tables in ascending
// square order and board is the rendered board.
type Lua struct {
	state *lua.LState
	path  string
}

func NewLua(path string) (*Lua, error) {
	state := lua.NewState()
	if err := state.DoFile(path); err != nil {
		state.Close()
		return nil, fmt.Errorf("bot: load %s: %w", path, err)
	}

	if state.GetGlobal("choose").Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("bot: %s does not define choose(moves, board)", path)
	}

	return &Lua{state: state, path: path}, nil
}

func (policy *Lua) Choose(engine *reversi.Engine, moves reversi.Moves) (reversi.Square, error) {
	list := policy.state.NewTable()
	for _, sq := range moves.Squares() {
		entry := policy.state.NewTable()
		entry.RawSetString("square", lua.LString(sq.String()))
		entry.RawSetString("captures", lua.LNumber(len(moves[sq])))
		list.Append(entry)
	}

	err := policy.state.CallByParam(lua.P{
		Fn:      policy.state.GetGlobal("choose"),
		NRet:    1,
		Protect: true,
	}, list, lua.LString(engine.Render()))
	if err != nil {
		return 0, fmt.Errorf("bot: %s: %w", policy.path, err)
	}

	ret := policy.state.Get(-1)
	policy.state.Pop(1)

	label, ok := ret.(lua.LString)
	if !ok {
		return 0, fmt.Errorf("%w: %s returned %s", ErrBadChoice, policy.path, ret.Type())
	}

	sq, err := reversi.NewSquare(string(label))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadChoice, err)
	}

	if !moves.Contains(sq) {
		return 0, fmt.Errorf("%w: %s", ErrBadChoice, sq)
	}

	return sq, nil
}

// Close releases the lua interpreter.
func (policy *Lua) Close() error {
	policy.state.Close()
	return nil
}

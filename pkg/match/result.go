package match

import "github.com/kraftwerk28/reversi-game/pkg/reversi"

// Result represents the result of a single match from the point of view
// of the first engine, which plays black.
type Result int

const (
	Win  Result = +1
	Draw Result = 0
	Loss Result = -1
)

// GameLostBy maps the losing player to the match's Result.
var GameLostBy = [2]Result{
	0: Loss,
	1: Win,
}

// ResultOf converts a finished board result into a match Result.
func ResultOf(result reversi.Result) Result {
	switch result {
	case reversi.BlackWins:
		return Win
	case reversi.WhiteWins:
		return Loss
	default:
		return Draw
	}
}

// String returns a string representation of the given Result.
func (result Result) String() string {
	switch result {
	case Win:
		return "1-0"
	case Draw:
		return "1/2-1/2"
	case Loss:
		return "0-1"
	default:
		return "?-?"
	}
}

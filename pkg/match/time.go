package match

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

type TimeControl struct {
	MovesToGo int
	Base, Inc time.Duration

	// Infinite time controls never run out.
	Infinite bool

	period time.Duration
	moves  int
}

// movestogo/time+increment, both time and increment in seconds
func ParseTime(time_str string) (TimeControl, error) {
	var tc TimeControl

	if time_str == "" || time_str == "inf" {
		return TimeControl{MovesToGo: -1, Infinite: true}, nil
	}

	moves_str, time_str, found := strings.Cut(time_str, "/")
	tc.MovesToGo = -1
	var err error
	if found {
		tc.MovesToGo, err = strconv.Atoi(moves_str)
		if err != nil {
			return TimeControl{}, err
		}
		if tc.MovesToGo <= 0 {
			return TimeControl{}, errors.New("parse tc: moves must be positive")
		}
	} else {
		time_str = moves_str
	}

	time_str, inc_str, found := strings.Cut(time_str, "+")
	if !found {
		return TimeControl{}, errors.New("parse tc: increment not found")
	}

	incs, err := strconv.ParseFloat(inc_str, 32)
	if err != nil {
		return TimeControl{}, err
	}

	secs, err := strconv.ParseFloat(time_str, 32)
	if err != nil {
		return TimeControl{}, err
	}

	if secs <= 0 || incs < 0 {
		return TimeControl{}, errors.New("parse tc: time must be positive")
	}

	tc.Inc = time.Millisecond * time.Duration(incs*1000)
	tc.Base = time.Millisecond * time.Duration(secs*1000)
	tc.period = tc.Base
	return tc, nil
}

// Timeout returns how long the next move may take, zero for no limit. An
// exhausted clock gives the smallest positive wait so it expires at once.
func (tc *TimeControl) Timeout() time.Duration {
	if tc.Infinite {
		return 0
	}

	if tc.Base <= 0 {
		return time.Nanosecond
	}

	return tc.Base
}

// Spend charges a move that took spent and credits the increment, and the
// next period once MovesToGo moves have been played. It reports false,
// crediting nothing, when the move overran the remaining time.
func (tc *TimeControl) Spend(spent time.Duration) bool {
	if tc.Infinite {
		return true
	}

	tc.Base -= spent
	if tc.Base < 0 {
		return false
	}

	tc.Base += tc.Inc

	tc.moves++
	if tc.MovesToGo > 0 && tc.moves%tc.MovesToGo == 0 {
		tc.Base += tc.period
	}

	return true
}

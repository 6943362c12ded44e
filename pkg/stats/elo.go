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

// Package stats estimates relative playing strength from game results.
package stats

import "math"

// Elo returns the likely elo difference of a player with the given number
// of wins, draws, and losses, along with its 95% confidence bounds.
func Elo(ws, ds, ls int) (lower float64, elo float64, upper float64) {
	N := float64(ws + ds + ls) // total number of games

	if N == 0 {
		return 0, 0, 0
	}

	w := float64(ws) / N // measured win probability
	d := float64(ds) / N // measured draw probability
	l := float64(ls) / N // measured loss probability

	// empirical mean of random variable
	mu := w + d/2

	// standard deviation of the mean
	sigma := math.Sqrt(w*math.Pow(1-mu, 2)+d*math.Pow(0.5-mu, 2)+l*math.Pow(0-mu, 2)) / math.Sqrt(N)

	muMin := mu + phiInv(0.025)*sigma
	muMax := mu + phiInv(0.975)*sigma

	return scoreToElo(muMin), scoreToElo(mu), scoreToElo(muMax)
}

// Score returns the fraction of points scored, counting draws as half.
func Score(ws, ds, ls int) float64 {
	N := ws + ds + ls
	if N == 0 {
		return 0
	}

	return (float64(ws) + float64(ds)/2) / float64(N)
}

// scoreToElo converts an expected score to an elo difference. Scores of
// 0 or 1 have no finite elo and are reported as 0.
func scoreToElo(x float64) float64 {
	switch {
	case x <= 0, x >= 1:
		return 0

	default:
		return -400 * math.Log10(1/x-1)
	}
}

func phiInv(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockpool

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Time units, in seconds.
const (
	Minute uint64 = 60
	Hour          = 60 * Minute
	Day           = 24 * Hour
)

// Defaults of pool params.
const (
	DefaultRoundDuration = 365 * Day // length of a reward distribution round.
	DefaultEarlyGrace    = 90 * Day  // minimum early withdrawal penalty window.
	DefaultLateGrace     = 14 * Day  // penalty free period after unlock.
	DefaultLateScale     = 700 * Day // period after the late grace for the penalty to reach 100%.
)

// RewardScale is the fixed point scale of the reward-per-share index.
var RewardScale = uint256.NewInt(1e18)

// Params are the pool params, fixed at pool initialization.
type Params struct {
	RoundDuration uint64 `yaml:"roundDuration" json:"roundDuration"`
	EarlyGrace    uint64 `yaml:"earlyGrace" json:"earlyGrace"`
	LateGrace     uint64 `yaml:"lateGrace" json:"lateGrace"`
	LateScale     uint64 `yaml:"lateScale" json:"lateScale"`
}

// DefaultParams returns the default pool params.
func DefaultParams() Params {
	return Params{
		RoundDuration: DefaultRoundDuration,
		EarlyGrace:    DefaultEarlyGrace,
		LateGrace:     DefaultLateGrace,
		LateScale:     DefaultLateScale,
	}
}

// Validate checks that every divisor is positive.
func (p Params) Validate() error {
	if p.RoundDuration == 0 {
		return errors.New("round duration must be positive")
	}
	if p.LateScale == 0 {
		return errors.New("late scale must be positive")
	}
	return nil
}

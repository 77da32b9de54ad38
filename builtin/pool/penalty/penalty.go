// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package penalty computes the forfeiture of a stake withdrawn before its unlock time,
// or too long after it.
package penalty

import (
	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/lockpool"
)

// Schedule holds the penalty constants, in seconds.
type Schedule struct {
	EarlyGrace uint64 // minimum penalty window of an early withdrawal
	LateGrace  uint64 // penalty free period after unlock
	LateScale  uint64 // period after the late grace for the penalty to saturate
}

// ScheduleOf extracts the penalty schedule from pool params.
func ScheduleOf(p lockpool.Params) Schedule {
	return Schedule{
		EarlyGrace: p.EarlyGrace,
		LateGrace:  p.LateGrace,
		LateScale:  p.LateScale,
	}
}

// Position is the part of a stake the penalty depends on.
type Position struct {
	Amount   *uint256.Int
	Accrued  *uint256.Int
	Duration uint64
	EndTime  uint64
}

// Compute returns the net payout and the forfeited penalty of withdrawing p at now.
// payout + penalty always equals amount + accrued.
func Compute(s Schedule, p Position, now uint64) (payout *uint256.Int, penalty *uint256.Int, err error) {
	realAmount, overflow := new(uint256.Int).AddOverflow(p.Amount, p.Accrued)
	if overflow {
		return nil, nil, reverts.New(reverts.Overflow, "stake amount plus accrued reward")
	}

	if now < p.EndTime {
		penalty = earlyPenalty(s, p, realAmount, now)
	} else {
		penalty = latePenalty(s, p, realAmount, now)
	}

	// clamp
	if penalty.Gt(realAmount) {
		penalty.Set(realAmount)
	}
	payout = new(uint256.Int).Sub(realAmount, penalty)
	return payout, penalty, nil
}

func earlyPenalty(s Schedule, p Position, realAmount *uint256.Int, now uint64) *uint256.Int {
	// elapsed time since the stake was opened
	var stakedFor uint64
	if start := p.EndTime - p.Duration; now > start {
		stakedFor = now - start
	}

	// ceil(duration / 2), without overflowing at max duration
	window := p.Duration/2 + p.Duration%2
	if window < s.EarlyGrace {
		window = s.EarlyGrace
	}

	if stakedFor == 0 || window >= stakedFor {
		return new(uint256.Int).Set(realAmount)
	}
	penalty, _ := new(uint256.Int).MulDivOverflow(realAmount, uint256.NewInt(window), uint256.NewInt(stakedFor))
	return penalty
}

func latePenalty(s Schedule, p Position, realAmount *uint256.Int, now uint64) *uint256.Int {
	late := now - p.EndTime
	if late <= s.LateGrace {
		return new(uint256.Int)
	}
	penalty, overflow := new(uint256.Int).MulDivOverflow(
		realAmount,
		uint256.NewInt(late-s.LateGrace),
		uint256.NewInt(s.LateScale),
	)
	if overflow {
		// saturated, clamped by the caller
		return new(uint256.Int).Set(realAmount)
	}
	return penalty
}

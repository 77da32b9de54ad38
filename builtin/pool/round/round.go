// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package round

import (
	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/builtin/pool/accumulator"
	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
)

var slotRound = lockpool.BytesToBytes32([]byte("round"))

// Service opens distribution rounds and feeds rewards into them.
type Service struct {
	round    *solidity.Uint64
	acc      *accumulator.Service
	duration uint64
}

func New(sctx *solidity.Context, acc *accumulator.Service, duration uint64) *Service {
	return &Service{
		round:    solidity.NewUint64(sctx, slotRound),
		acc:      acc,
		duration: duration,
	}
}

// Current returns the round counter, which starts at 1 and is increased by every
// started round.
func (s *Service) Current() (uint64, error) {
	n, err := s.round.Get()
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// Duration returns the length of a round in seconds.
func (s *Service) Duration() uint64 {
	return s.duration
}

// StartRound spreads the pending reward over a new round beginning at now.
// It returns the number of the round started.
func (s *Service) StartRound(now uint64) (uint64, *uint256.Int, error) {
	active, err := s.acc.IsRoundActive(now)
	if err != nil {
		return 0, nil, err
	}
	if active {
		return 0, nil, reverts.New(reverts.RoundActive, "")
	}
	end := now + s.duration
	if end < now {
		return 0, nil, reverts.New(reverts.Overflow, "round end time")
	}

	if err := s.acc.Synchronize(0, now); err != nil {
		return 0, nil, err
	}
	pending, err := s.acc.TakePending()
	if err != nil {
		return 0, nil, err
	}
	rate := new(uint256.Int).Div(pending, uint256.NewInt(s.duration))
	s.acc.BeginRound(rate, now, end)

	current, err := s.Current()
	if err != nil {
		return 0, nil, err
	}
	if _, err := s.round.Increment(); err != nil {
		return 0, nil, err
	}
	return current, rate, nil
}

// ChargeReward injects amount into the distribution.
func (s *Service) ChargeReward(amount *uint256.Int, now uint64) error {
	if amount.IsZero() {
		return reverts.New(reverts.ZeroAmount, "")
	}
	return s.acc.InjectReward(amount, now)
}

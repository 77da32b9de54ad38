// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accumulator tracks the reward-per-share index, scaled by lockpool.RewardScale,
// from which each stake derives its earned reward.
package accumulator

import (
	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/pool/stakes"
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
)

var (
	slotRewardPerShare = lockpool.BytesToBytes32([]byte("reward-per-share"))
	slotLastSyncTime   = lockpool.BytesToBytes32([]byte("last-sync-time"))
	slotRewardRate     = lockpool.BytesToBytes32([]byte("reward-rate"))
	slotRoundEndTime   = lockpool.BytesToBytes32([]byte("round-end-time"))
	slotPendingReward  = lockpool.BytesToBytes32([]byte("pending-reward"))
)

// Service manages the reward index and the emission schedule of the current round.
type Service struct {
	rewardPerShare *solidity.Uint256
	lastSyncTime   *solidity.Uint64
	rewardRate     *solidity.Uint256
	roundEndTime   *solidity.Uint64
	pendingReward  *solidity.Uint256

	stakes *stakes.Service
}

func New(sctx *solidity.Context, stakes *stakes.Service) *Service {
	return &Service{
		rewardPerShare: solidity.NewUint256(sctx, slotRewardPerShare),
		lastSyncTime:   solidity.NewUint64(sctx, slotLastSyncTime),
		rewardRate:     solidity.NewUint256(sctx, slotRewardRate),
		roundEndTime:   solidity.NewUint64(sctx, slotRoundEndTime),
		pendingReward:  solidity.NewUint256(sctx, slotPendingReward),
		stakes:         stakes,
	}
}

func overflow(what string) error {
	return reverts.New(reverts.Overflow, what)
}

//
// Getters - no state change
//

// RewardPerShare returns the index as of now.
func (s *Service) RewardPerShare(now uint64) (*uint256.Int, error) {
	stored, err := s.rewardPerShare.Get()
	if err != nil {
		return nil, err
	}
	total, err := s.stakes.TotalStaked()
	if err != nil {
		return nil, err
	}
	if total.IsZero() {
		return stored, nil
	}

	applicable, err := s.lastTimeRewardApplicable(now)
	if err != nil {
		return nil, err
	}
	lastSync, err := s.lastSyncTime.Get()
	if err != nil {
		return nil, err
	}
	if applicable <= lastSync {
		return stored, nil
	}
	rate, err := s.rewardRate.Get()
	if err != nil {
		return nil, err
	}

	emitted, of := new(uint256.Int).MulOverflow(uint256.NewInt(applicable-lastSync), rate)
	if of {
		return nil, overflow("emitted reward")
	}
	delta, of := new(uint256.Int).MulDivOverflow(emitted, lockpool.RewardScale, total)
	if of {
		return nil, overflow("reward per share")
	}
	if _, of := stored.AddOverflow(stored, delta); of {
		return nil, overflow("reward per share")
	}
	return stored, nil
}

// Earned returns the reward a stake has earned as of now, accrued included.
func (s *Service) Earned(stake *stakes.Stake, now uint64) (*uint256.Int, error) {
	rps, err := s.RewardPerShare(now)
	if err != nil {
		return nil, err
	}
	return earned(stake, rps)
}

func earned(stake *stakes.Stake, rps *uint256.Int) (*uint256.Int, error) {
	diff := new(uint256.Int)
	if rps.Gt(stake.Snapshot) {
		diff.Sub(rps, stake.Snapshot)
	}
	reward, of := new(uint256.Int).MulDivOverflow(stake.Amount, diff, lockpool.RewardScale)
	if of {
		return nil, overflow("earned reward")
	}
	if _, of := reward.AddOverflow(reward, stake.Accrued); of {
		return nil, overflow("earned reward")
	}
	return reward, nil
}

// IsRoundActive returns whether a distribution round is in progress at now.
func (s *Service) IsRoundActive(now uint64) (bool, error) {
	end, err := s.roundEndTime.Get()
	if err != nil {
		return false, err
	}
	return end > 0 && now < end, nil
}

func (s *Service) lastTimeRewardApplicable(now uint64) (uint64, error) {
	end, err := s.roundEndTime.Get()
	if err != nil {
		return 0, err
	}
	return min(now, end), nil
}

func (s *Service) RewardRate() (*uint256.Int, error) {
	return s.rewardRate.Get()
}

func (s *Service) RoundEndTime() (uint64, error) {
	return s.roundEndTime.Get()
}

func (s *Service) LastSyncTime() (uint64, error) {
	return s.lastSyncTime.Get()
}

// PendingReward returns the reward injected while no round was active.
func (s *Service) PendingReward() (*uint256.Int, error) {
	return s.pendingReward.Get()
}

//
// Setters - state change
//

// Synchronize folds the reward emitted so far into the stored index. For a non zero id,
// the stake's earned reward is moved to its accrued balance and its snapshot reset.
func (s *Service) Synchronize(id stakes.ID, now uint64) error {
	rps, err := s.RewardPerShare(now)
	if err != nil {
		return err
	}
	applicable, err := s.lastTimeRewardApplicable(now)
	if err != nil {
		return err
	}
	lastSync, err := s.lastSyncTime.Get()
	if err != nil {
		return err
	}

	s.rewardPerShare.Set(rps)
	if applicable > lastSync {
		s.lastSyncTime.Set(applicable)
	}

	if id == 0 {
		return nil
	}
	stake, err := s.stakes.Get(id)
	if err != nil {
		return err
	}
	if stake == nil {
		return nil
	}
	accrued, err := earned(stake, rps)
	if err != nil {
		return err
	}
	stake.Accrued = accrued
	stake.Snapshot = rps
	return s.stakes.Update(id, stake)
}

// InjectReward adds amount to the distribution. During a round it is spread over the
// remaining time, otherwise it waits for the next round.
func (s *Service) InjectReward(amount *uint256.Int, now uint64) error {
	if err := s.Synchronize(0, now); err != nil {
		return err
	}

	active, err := s.IsRoundActive(now)
	if err != nil {
		return err
	}
	if !active {
		if err := s.pendingReward.Add(amount); err != nil {
			return overflow("pending reward")
		}
		return nil
	}

	end, err := s.roundEndTime.Get()
	if err != nil {
		return err
	}
	rate, err := s.rewardRate.Get()
	if err != nil {
		return err
	}

	remaining := uint256.NewInt(end - now)
	leftover, of := new(uint256.Int).MulOverflow(remaining, rate)
	if of {
		return overflow("reward rate")
	}
	if _, of := leftover.AddOverflow(leftover, amount); of {
		return overflow("reward rate")
	}
	s.rewardRate.Set(leftover.Div(leftover, remaining))
	s.lastSyncTime.Set(now)
	return nil
}

// BeginRound replaces the emission schedule. It assumes the index is synchronized.
func (s *Service) BeginRound(rate *uint256.Int, now, end uint64) {
	s.rewardRate.Set(rate)
	s.roundEndTime.Set(end)
	s.lastSyncTime.Set(now)
}

// TakePending clears and returns the pending reward.
func (s *Service) TakePending() (*uint256.Int, error) {
	pending, err := s.pendingReward.Get()
	if err != nil {
		return nil, err
	}
	s.pendingReward.Set(new(uint256.Int))
	return pending, nil
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/lockpool/lockpool/api/utils"
	"github.com/lockpool/lockpool/builtin/pool"
	"github.com/lockpool/lockpool/ledger"
	"github.com/lockpool/lockpool/lockpool"
)

type Summary struct {
	Address        lockpool.Address `json:"address"`
	Asset          lockpool.Address `json:"asset"`
	Owner          lockpool.Address `json:"owner"`
	Funder         lockpool.Address `json:"funder"`
	Paused         bool             `json:"paused"`
	TotalStaked    *utils.Amount    `json:"totalStaked"`
	RewardPerShare *utils.Amount    `json:"rewardPerShare"`
	RewardRate     *utils.Amount    `json:"rewardRate"`
	PendingReward  *utils.Amount    `json:"pendingReward"`
	RoundActive    bool             `json:"roundActive"`
	RoundEndTime   uint64           `json:"roundEndTime"`
	LastSyncTime   uint64           `json:"lastSyncTime"`
	Round          uint64           `json:"round"`
	LastStakeID    uint64           `json:"lastStakeID"`
	Params         lockpool.Params  `json:"params"`
}

func convertSummary(addr lockpool.Address, s *pool.Summary) *Summary {
	return &Summary{
		Address:        addr,
		Asset:          s.Asset,
		Owner:          s.Owner,
		Funder:         s.Funder,
		Paused:         s.Paused,
		TotalStaked:    utils.NewAmount(s.TotalStaked),
		RewardPerShare: utils.NewAmount(s.RewardPerShare),
		RewardRate:     utils.NewAmount(s.RewardRate),
		PendingReward:  utils.NewAmount(s.PendingReward),
		RoundActive:    s.RoundActive,
		RoundEndTime:   s.RoundEndTime,
		LastSyncTime:   s.LastSyncTime,
		Round:          s.Round,
		LastStakeID:    uint64(s.LastStakeID),
		Params:         s.Params,
	}
}

// Stake is a stake with its withdrawal preview at Time.
type Stake struct {
	ID        uint64           `json:"id"`
	Owner     lockpool.Address `json:"owner"`
	Amount    *utils.Amount    `json:"amount"`
	Duration  uint64           `json:"duration"`
	StartTime uint64           `json:"startTime"`
	EndTime   uint64           `json:"endTime"`
	Time      uint64           `json:"time"`
	Earned    *utils.Amount    `json:"earned"`
	Payout    *utils.Amount    `json:"payout"`
	Penalty   *utils.Amount    `json:"penalty"`
}

func convertStake(info *ledger.StakeInfo) *Stake {
	return &Stake{
		ID:        uint64(info.ID),
		Owner:     info.Stake.Owner,
		Amount:    utils.NewAmount(info.Stake.Amount),
		Duration:  info.Stake.Duration,
		StartTime: info.Stake.StartTime(),
		EndTime:   info.Stake.EndTime,
		Time:      info.Time,
		Earned:    utils.NewAmount(info.Earned),
		Payout:    utils.NewAmount(info.Payout),
		Penalty:   utils.NewAmount(info.Penalty),
	}
}

// Mutating requests name the acting account in Caller.

type DepositRequest struct {
	Caller   *lockpool.Address `json:"caller"`
	Amount   *utils.Amount     `json:"amount"`
	Duration uint64            `json:"duration"`
}

type DepositResponse struct {
	ID uint64 `json:"id"`
}

type WithdrawRequest struct {
	Caller *lockpool.Address `json:"caller"`
}

type WithdrawResponse struct {
	Payout *utils.Amount `json:"payout"`
}

type ChargeRequest struct {
	Caller *lockpool.Address `json:"caller"`
	Amount *utils.Amount     `json:"amount"`
}

type StartRoundRequest struct {
	Caller *lockpool.Address `json:"caller"`
}

type StartRoundResponse struct {
	Round uint64 `json:"round"`
}

type SetFunderRequest struct {
	Caller *lockpool.Address `json:"caller"`
	Funder *lockpool.Address `json:"funder"`
}

type SetOwnerRequest struct {
	Caller *lockpool.Address `json:"caller"`
	Owner  *lockpool.Address `json:"owner"`
}

type SetPausedRequest struct {
	Caller *lockpool.Address `json:"caller"`
	Paused bool              `json:"paused"`
}

type RecoverRequest struct {
	Caller *lockpool.Address `json:"caller"`
	Asset  *lockpool.Address `json:"asset"`
	Amount *utils.Amount     `json:"amount"`
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
)

var (
	slotStakes      = lockpool.BytesToBytes32([]byte("stakes"))
	slotLastStakeID = lockpool.BytesToBytes32([]byte("last-stake-id"))
	slotTotalStaked = lockpool.BytesToBytes32([]byte("total-staked"))
)

// ID identifies a stake. Zero means no stake.
type ID uint64

// Bytes implements solidity.Key.
func (id ID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

// Stake is a position locked by an owner.
type Stake struct {
	Owner    lockpool.Address
	Amount   *uint256.Int
	Duration uint64
	EndTime  uint64
	Snapshot *uint256.Int // reward-per-share at the last synchronization
	Accrued  *uint256.Int // earned but unpaid reward
}

// StartTime returns the time the stake was opened.
func (s *Stake) StartTime() uint64 {
	return s.EndTime - s.Duration
}

// Service persists stakes and the total staked amount.
type Service struct {
	stakes      *solidity.Mapping[ID, *Stake]
	lastStakeID *solidity.Uint64
	totalStaked *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		stakes:      solidity.NewMapping[ID, *Stake](sctx, slotStakes),
		lastStakeID: solidity.NewUint64(sctx, slotLastStakeID),
		totalStaked: solidity.NewUint256(sctx, slotTotalStaked),
	}
}

// Get returns the stake, or nil if it does not exist.
func (s *Service) Get(id ID) (*Stake, error) {
	if id == 0 {
		return nil, nil
	}
	stake, err := s.stakes.Get(id)
	if err != nil {
		return nil, err
	}
	if stake.Amount == nil {
		return nil, nil
	}
	return stake, nil
}

// Add records a new stake under the next id and adds its amount to the total.
func (s *Service) Add(stake *Stake) (ID, error) {
	prev, err := s.lastStakeID.Increment()
	if err != nil {
		return 0, err
	}
	id := ID(prev + 1)
	if err := s.stakes.Set(id, stake); err != nil {
		return 0, err
	}
	if err := s.totalStaked.Add(stake.Amount); err != nil {
		return 0, reverts.New(reverts.Overflow, "total staked")
	}
	return id, nil
}

// Update overwrites an existing stake. The amount must not change.
func (s *Service) Update(id ID, stake *Stake) error {
	return s.stakes.Set(id, stake)
}

// Remove deletes the stake and subtracts its amount from the total.
func (s *Service) Remove(id ID, stake *Stake) error {
	if err := s.totalStaked.Sub(stake.Amount); err != nil {
		return reverts.New(reverts.Overflow, "total staked")
	}
	s.stakes.Delete(id)
	return nil
}

// TotalStaked returns the sum of the amounts of all live stakes.
func (s *Service) TotalStaked() (*uint256.Int, error) {
	return s.totalStaked.Get()
}

// LastID returns the id of the most recent stake, zero if none.
func (s *Service) LastID() (ID, error) {
	id, err := s.lastStakeID.Get()
	return ID(id), err
}

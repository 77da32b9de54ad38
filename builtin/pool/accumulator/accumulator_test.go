// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accumulator

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/pool/stakes"
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/lvldb"
	"github.com/lockpool/lockpool/state"
)

var e18 = uint256.NewInt(1e18)

func setup(t *testing.T) (*Service, *stakes.Service) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := solidity.NewContext(lockpool.BytesToAddress([]byte("pool")), state.New(db))
	stakesSvc := stakes.New(sctx)
	return New(sctx, stakesSvc), stakesSvc
}

func addStake(t *testing.T, acc *Service, svc *stakes.Service, amount uint64, now uint64) stakes.ID {
	require.NoError(t, acc.Synchronize(0, now))
	rps, err := acc.RewardPerShare(now)
	require.NoError(t, err)
	id, err := svc.Add(&stakes.Stake{
		Owner:    lockpool.BytesToAddress([]byte("owner")),
		Amount:   uint256.NewInt(amount),
		Duration: 1000,
		EndTime:  now + 1000,
		Snapshot: rps,
		Accrued:  new(uint256.Int),
	})
	require.NoError(t, err)
	return id
}

func scaled(v uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(v), e18)
}

func earnedAt(t *testing.T, acc *Service, svc *stakes.Service, id stakes.ID, now uint64) uint64 {
	stake, err := svc.Get(id)
	require.NoError(t, err)
	reward, err := acc.Earned(stake, now)
	require.NoError(t, err)
	return reward.Uint64()
}

func TestRewardPerShare_NoRound(t *testing.T) {
	acc, svc := setup(t)
	addStake(t, acc, svc, 100, 10)

	rps, err := acc.RewardPerShare(1000)
	require.NoError(t, err)
	assert.True(t, rps.IsZero())

	active, err := acc.IsRoundActive(1000)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRewardPerShare_Round(t *testing.T) {
	acc, svc := setup(t)
	acc.BeginRound(uint256.NewInt(10), 0, 100)
	id := addStake(t, acc, svc, 100, 0)

	rps, err := acc.RewardPerShare(50)
	require.NoError(t, err)
	assert.Equal(t, scaled(5), rps)
	assert.Equal(t, uint64(500), earnedAt(t, acc, svc, id, 50))

	// emission stops at round end
	rps, err = acc.RewardPerShare(200)
	require.NoError(t, err)
	assert.Equal(t, scaled(10), rps)
	assert.Equal(t, uint64(1000), earnedAt(t, acc, svc, id, 200))

	active, err := acc.IsRoundActive(99)
	require.NoError(t, err)
	assert.True(t, active)
	active, err = acc.IsRoundActive(100)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSynchronize(t *testing.T) {
	acc, svc := setup(t)
	acc.BeginRound(uint256.NewInt(10), 0, 100)
	id := addStake(t, acc, svc, 100, 0)

	require.NoError(t, acc.Synchronize(id, 50))

	stake, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), stake.Accrued.Uint64())
	assert.Equal(t, scaled(5), stake.Snapshot)

	lastSync, err := acc.LastSyncTime()
	require.NoError(t, err)
	assert.Equal(t, uint64(50), lastSync)

	// accrued plus the share since the sync
	assert.Equal(t, uint64(600), earnedAt(t, acc, svc, id, 60))

	// sync after the round never moves last sync past the round end
	require.NoError(t, acc.Synchronize(0, 500))
	lastSync, err = acc.LastSyncTime()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), lastSync)
	assert.Equal(t, uint64(1000), earnedAt(t, acc, svc, id, 500))
}

func TestSynchronize_SharedPool(t *testing.T) {
	acc, svc := setup(t)
	acc.BeginRound(uint256.NewInt(10), 0, 100)
	alice := addStake(t, acc, svc, 100, 0)
	bob := addStake(t, acc, svc, 300, 40)

	assert.Equal(t, uint64(400+150), earnedAt(t, acc, svc, alice, 100))
	assert.Equal(t, uint64(450), earnedAt(t, acc, svc, bob, 100))
}

func TestInjectReward(t *testing.T) {
	acc, svc := setup(t)

	// no round: pending
	require.NoError(t, acc.InjectReward(uint256.NewInt(700), 5))
	pending, err := acc.PendingReward()
	require.NoError(t, err)
	assert.Equal(t, uint64(700), pending.Uint64())

	taken, err := acc.TakePending()
	require.NoError(t, err)
	assert.Equal(t, uint64(700), taken.Uint64())
	pending, err = acc.PendingReward()
	require.NoError(t, err)
	assert.True(t, pending.IsZero())

	acc.BeginRound(uint256.NewInt(10), 0, 100)
	id := addStake(t, acc, svc, 100, 0)

	// 50 seconds left at rate 10, plus 500
	require.NoError(t, acc.InjectReward(uint256.NewInt(500), 50))
	rate, err := acc.RewardRate()
	require.NoError(t, err)
	assert.Equal(t, uint64(20), rate.Uint64())
	assert.Equal(t, uint64(500+1000), earnedAt(t, acc, svc, id, 100))
}

func TestInjectReward_NothingStaked(t *testing.T) {
	acc, _ := setup(t)
	acc.BeginRound(uint256.NewInt(10), 0, 100)

	require.NoError(t, acc.InjectReward(uint256.NewInt(100), 60))

	rps, err := acc.RewardPerShare(80)
	require.NoError(t, err)
	assert.True(t, rps.IsZero())

	lastSync, err := acc.LastSyncTime()
	require.NoError(t, err)
	assert.Equal(t, uint64(60), lastSync)
}

func TestRewardPerShare_Overflow(t *testing.T) {
	acc, svc := setup(t)
	acc.BeginRound(new(uint256.Int).SetAllOne(), 0, 100)
	addStake(t, acc, svc, 1, 0)

	_, err := acc.RewardPerShare(50)
	assert.True(t, reverts.Is(err, reverts.Overflow))
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package round

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/builtin/pool/accumulator"
	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/pool/stakes"
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/lvldb"
	"github.com/lockpool/lockpool/state"
)

func setup(t *testing.T, duration uint64) (*Service, *accumulator.Service) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := solidity.NewContext(lockpool.BytesToAddress([]byte("pool")), state.New(db))
	acc := accumulator.New(sctx, stakes.New(sctx))
	return New(sctx, acc, duration), acc
}

func TestStartRound(t *testing.T) {
	svc, acc := setup(t, 100)

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), current)

	require.NoError(t, svc.ChargeReward(uint256.NewInt(1050), 10))

	started, rate, err := svc.StartRound(20)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), started)
	// remainder below the round duration is dropped
	assert.Equal(t, uint64(10), rate.Uint64())

	end, err := acc.RoundEndTime()
	require.NoError(t, err)
	assert.Equal(t, uint64(120), end)

	pending, err := acc.PendingReward()
	require.NoError(t, err)
	assert.True(t, pending.IsZero())

	current, err = svc.Current()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), current)

	_, _, err = svc.StartRound(119)
	assert.True(t, reverts.Is(err, reverts.RoundActive))

	// a new round can start once the previous one ended
	started, rate, err = svc.StartRound(120)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), started)
	assert.True(t, rate.IsZero())

	current, err = svc.Current()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), current)
}

func TestChargeReward(t *testing.T) {
	svc, acc := setup(t, 100)

	err := svc.ChargeReward(new(uint256.Int), 0)
	assert.True(t, reverts.Is(err, reverts.ZeroAmount))

	_, _, err = svc.StartRound(0)
	require.NoError(t, err)

	// mid-round the reward is folded into the remaining schedule
	require.NoError(t, svc.ChargeReward(uint256.NewInt(400), 60))
	rate, err := acc.RewardRate()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), rate.Uint64())

	end, err := acc.RoundEndTime()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), end)
}

func TestStartRound_Overflow(t *testing.T) {
	svc, _ := setup(t, 100)
	_, _, err := svc.StartRound(^uint64(0) - 10)
	assert.True(t, reverts.Is(err, reverts.Overflow))
}

func TestDuration(t *testing.T) {
	svc, _ := setup(t, lockpool.DefaultRoundDuration)
	assert.Equal(t, lockpool.DefaultRoundDuration, svc.Duration())
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/pool/stakes"
	"github.com/lockpool/lockpool/lockpool"
)

type opKind int

const (
	opDeposit opKind = iota
	opWithdraw
	opCharge
	opStartRound
	opKinds
)

type op struct {
	Kind     opKind
	Account  int
	Amount   uint64
	Duration uint64
	Advance  uint64
	Pick     int
}

func newOpFuzzer(seed int64) *fuzz.Fuzzer {
	return fuzz.NewWithSeed(seed).NilChance(0).Funcs(
		func(o *op, c fuzz.Continue) {
			o.Kind = opKind(c.Intn(int(opKinds)))
			o.Account = c.Intn(3)
			o.Amount = uint64(c.Intn(10_000))
			o.Duration = uint64(c.Intn(400))
			o.Advance = uint64(c.Intn(60))
			o.Pick = c.Intn(1 << 16)
		},
	)
}

// checkInvariants verifies the pool accounting at now.
func checkInvariants(t *testing.T, env *testEnv, live map[stakes.ID]lockpool.Address, now uint64) {
	total, err := env.pool.TotalStaked()
	require.NoError(t, err)

	sum := new(uint256.Int)
	owed := new(uint256.Int)
	for id := range live {
		stake, err := env.pool.GetStake(id)
		require.NoError(t, err)
		sum.Add(sum, stake.Amount)

		earned, err := env.pool.Earned(id, now)
		require.NoError(t, err)
		owed.Add(owed, stake.Amount)
		owed.Add(owed, earned)
	}
	assert.Equal(t, total, sum, "total staked equals the sum of live stakes")

	// every stake can be paid out in full
	held, err := env.token.BalanceOf(poolAddr)
	require.NoError(t, err)
	assert.False(t, held.Lt(owed), "custody %v below owed %v", held, owed)

	lastSync, err := env.pool.acc.LastSyncTime()
	require.NoError(t, err)
	assert.LessOrEqual(t, lastSync, now)
	end, err := env.pool.acc.RoundEndTime()
	require.NoError(t, err)
	if end > 0 {
		assert.LessOrEqual(t, lastSync, end)
	}
}

func TestPool_RandomSequences(t *testing.T) {
	accounts := []lockpool.Address{alice, bob, carol}

	for seed := int64(1); seed <= 20; seed++ {
		env := newTestEnv(t)
		fuzzer := newOpFuzzer(seed)

		var (
			now     uint64
			live    = make(map[stakes.ID]lockpool.Address)
			ids     []stakes.ID
			lastRPS = new(uint256.Int)
		)

		for range 150 {
			var o op
			fuzzer.Fuzz(&o)
			now += o.Advance

			switch o.Kind {
			case opDeposit:
				acc := accounts[o.Account]
				id, err := env.pool.Deposit(acc, uint256.NewInt(o.Amount), o.Duration, now)
				if o.Amount == 0 {
					assert.True(t, reverts.Is(err, reverts.ZeroAmount))
					continue
				}
				require.NoError(t, err)
				live[id] = acc
				ids = append(ids, id)
			case opWithdraw:
				if len(ids) == 0 {
					continue
				}
				i := o.Pick % len(ids)
				id := ids[i]
				expected, _, err := env.pool.Preview(id, now)
				require.NoError(t, err)

				before, err := env.token.BalanceOf(live[id])
				require.NoError(t, err)
				payout, err := env.pool.Withdraw(live[id], id, now)
				require.NoError(t, err)
				assert.Equal(t, expected, payout)

				after, err := env.token.BalanceOf(live[id])
				require.NoError(t, err)
				assert.Equal(t, new(uint256.Int).Add(before, payout), after)

				stake, err := env.pool.GetStake(id)
				assert.Nil(t, stake)
				assert.True(t, reverts.Is(err, reverts.StakeNotFound))

				delete(live, id)
				ids = append(ids[:i], ids[i+1:]...)
			case opCharge:
				err := env.pool.ChargeReward(funder, uint256.NewInt(o.Amount), now)
				if o.Amount == 0 {
					assert.True(t, reverts.Is(err, reverts.ZeroAmount))
					continue
				}
				require.NoError(t, err)
			case opStartRound:
				active, err := env.pool.IsRoundActive(now)
				require.NoError(t, err)
				_, err = env.pool.StartRound(owner, now)
				if active {
					assert.True(t, reverts.Is(err, reverts.RoundActive))
				} else {
					require.NoError(t, err)
				}
			}

			rps, err := env.pool.RewardPerShare(now)
			require.NoError(t, err)
			assert.False(t, rps.Lt(lastRPS), "reward per share never decreases")
			lastRPS = rps

			checkInvariants(t, env, live, now)
		}
	}
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/pool/stakes"
	"github.com/lockpool/lockpool/builtin/token"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/lvldb"
	"github.com/lockpool/lockpool/state"
)

var (
	poolAddr = lockpool.BytesToAddress([]byte("pool"))
	asset    = lockpool.BytesToAddress([]byte("LOCK"))
	foreign  = lockpool.BytesToAddress([]byte("USDX"))
	owner    = lockpool.BytesToAddress([]byte("owner"))
	funder   = lockpool.BytesToAddress([]byte("funder"))
	alice    = lockpool.BytesToAddress([]byte("alice"))
	bob      = lockpool.BytesToAddress([]byte("bob"))
	carol    = lockpool.BytesToAddress([]byte("carol"))

	testParams = lockpool.Params{
		RoundDuration: 100,
		EarlyGrace:    10,
		LateGrace:     14,
		LateScale:     700,
	}

	initialBalance = uint64(1_000_000)
)

type testEnv struct {
	pool  *Pool
	state *state.State
	token *token.Token
}

// newTestEnv sets up an initialized pool, where every account holds initialBalance
// of the staking asset, all approved to the pool.
func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	p, err := New(poolAddr, st, token.NewCustody(st, poolAddr))
	require.NoError(t, err)
	require.NoError(t, p.Initialize(&Genesis{
		Asset:  asset,
		Owner:  owner,
		Funder: funder,
		Params: testParams,
	}))

	tok := token.New(asset, st)
	for _, acc := range []lockpool.Address{funder, alice, bob, carol} {
		require.NoError(t, tok.Mint(acc, uint256.NewInt(initialBalance)))
		require.NoError(t, tok.Approve(acc, poolAddr, new(uint256.Int).SetAllOne()))
	}
	p.TakeEvents()

	return &testEnv{pool: p, state: st, token: tok}
}

func (env *testEnv) balance(t *testing.T, acc lockpool.Address) uint64 {
	b, err := env.token.BalanceOf(acc)
	require.NoError(t, err)
	return b.Uint64()
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *testEnv

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: env}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Charge(amount uint64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.pool.ChargeReward(funder, uint256.NewInt(amount), now); err != nil {
			t.Fatalf("failed to charge reward %d at %d: %v", amount, now, err)
		}
		t.Logf("charged reward %d at %d", amount, now)
	})
}

func (st *TestSequence) StartRound(now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		round, err := st.env.pool.StartRound(owner, now)
		if err != nil {
			t.Fatalf("failed to start round at %d: %v", now, err)
		}
		t.Logf("started round %d at %d", round, now)
	})
}

func (st *TestSequence) Deposit(acc lockpool.Address, amount, duration, now uint64, expectedID stakes.ID) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		id, err := st.env.pool.Deposit(acc, uint256.NewInt(amount), duration, now)
		if err != nil {
			t.Fatalf("failed to deposit %d for %s: %v", amount, acc, err)
		}
		assert.Equal(t, expectedID, id, "stake id mismatch")
		t.Logf("deposited stake %d for %s", id, acc)
	})
}

func (st *TestSequence) Withdraw(acc lockpool.Address, id stakes.ID, now uint64, expectedPayout uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		payout, err := st.env.pool.Withdraw(acc, id, now)
		if err != nil {
			t.Fatalf("failed to withdraw stake %d for %s: %v", id, acc, err)
		}
		assert.Equal(t, expectedPayout, payout.Uint64(), "payout of stake %d mismatch", id)
		t.Logf("withdrew %s from stake %d", payout, id)
	})
}

func (st *TestSequence) Reverts(kind reverts.Kind, op func(p *Pool) error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := op(st.env.pool)
		if !reverts.Is(err, kind) {
			t.Fatalf("expected revert %q, got %v", kind, err)
		}
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}

	t.Logf("All test functions executed successfully")
}

type StakeAssertions struct {
	pool *Pool
	id   stakes.ID
	now  uint64

	owner  *lockpool.Address
	amount *uint64
	earned *uint64
	gone   bool
}

func AssertStake(pool *Pool, id stakes.ID, now uint64) *StakeAssertions {
	return &StakeAssertions{pool: pool, id: id, now: now}
}

func (sa *StakeAssertions) Owner(expected lockpool.Address) *StakeAssertions {
	sa.owner = &expected
	return sa
}

func (sa *StakeAssertions) Amount(expected uint64) *StakeAssertions {
	sa.amount = &expected
	return sa
}

func (sa *StakeAssertions) Earned(expected uint64) *StakeAssertions {
	sa.earned = &expected
	return sa
}

func (sa *StakeAssertions) Gone() *StakeAssertions {
	sa.gone = true
	return sa
}

func (sa *StakeAssertions) Assert(t *testing.T) {
	stake, err := sa.pool.GetStake(sa.id)
	if sa.gone {
		assert.True(t, reverts.Is(err, reverts.StakeNotFound), "stake %d should be gone", sa.id)
		return
	}
	require.NoError(t, err, "failed to get stake %d", sa.id)

	if sa.owner != nil {
		assert.Equal(t, *sa.owner, stake.Owner, "stake %d owner mismatch", sa.id)
	}
	if sa.amount != nil {
		assert.Equal(t, *sa.amount, stake.Amount.Uint64(), "stake %d amount mismatch", sa.id)
	}
	if sa.earned != nil {
		earned, err := sa.pool.Earned(sa.id, sa.now)
		require.NoError(t, err)
		assert.Equal(t, *sa.earned, earned.Uint64(), "stake %d earned mismatch", sa.id)
	}
}

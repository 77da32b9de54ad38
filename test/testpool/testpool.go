// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testpool sets up a ledger over in-memory stores for tests.
package testpool

import (
	"sync/atomic"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/genesis"
	"github.com/lockpool/lockpool/ledger"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/logdb"
	"github.com/lockpool/lockpool/lvldb"
)

// InitialBalance of every dev account.
const InitialBalance = 1_000_000

// Params of the test pool.
var Params = lockpool.Params{
	RoundDuration: 100,
	EarlyGrace:    10,
	LateGrace:     14,
	LateScale:     700,
}

// Clock is a manually advanced clock.
type Clock struct {
	now atomic.Uint64
}

func (c *Clock) Now() uint64 { return c.now.Load() }

func (c *Clock) Set(t uint64) { c.now.Store(t) }

// Env is a ledger with its stores and accounts.
type Env struct {
	Ledger  *ledger.Ledger
	LogDB   *logdb.LogDB
	Clock   *Clock
	Genesis *genesis.Genesis

	Asset  lockpool.Address
	Owner  lockpool.Address
	Funder lockpool.Address
	// Stakers hold InitialBalance each, approved to the pool.
	Stakers []lockpool.Address
}

// New creates a ledger over the dev accounts, with Params and time starting at 0.
func New(t testing.TB) *Env {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	accs := genesis.DevAccounts()
	gen := &genesis.Genesis{
		Asset:  genesis.DevAsset,
		Owner:  accs[0].Address,
		Funder: accs[1].Address,
		Params: genesis.Params{
			RoundDuration: &Params.RoundDuration,
			EarlyGrace:    &Params.EarlyGrace,
			LateGrace:     &Params.LateGrace,
			LateScale:     &Params.LateScale,
		},
	}
	env := &Env{
		LogDB:   logDB,
		Clock:   &Clock{},
		Genesis: gen,
		Asset:   gen.Asset,
		Owner:   gen.Owner,
		Funder:  gen.Funder,
	}
	for i, acc := range accs {
		gen.Allocations = append(gen.Allocations, genesis.Allocation{
			Account:     acc.Address,
			Amount:      (*genesis.HexOrDecimal256)(uint256.NewInt(InitialBalance)),
			ApprovePool: true,
		})
		if i >= 2 {
			env.Stakers = append(env.Stakers, acc.Address)
		}
	}
	require.NoError(t, gen.Validate())

	env.Ledger, err = ledger.New(store, logDB, gen, env.Clock.Now)
	require.NoError(t, err)
	return env
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
)

// config holds the params pinned in pool storage.
type config struct {
	roundDuration *solidity.ConfigVariable
	earlyGrace    *solidity.ConfigVariable
	lateGrace     *solidity.ConfigVariable
	lateScale     *solidity.ConfigVariable
}

func newConfig() *config {
	return &config{
		roundDuration: solidity.NewConfigVariable("round-duration", lockpool.DefaultRoundDuration),
		earlyGrace:    solidity.NewConfigVariable("early-grace", lockpool.DefaultEarlyGrace),
		lateGrace:     solidity.NewConfigVariable("late-grace", lockpool.DefaultLateGrace),
		lateScale:     solidity.NewConfigVariable("late-scale", lockpool.DefaultLateScale),
	}
}

func (c *config) vars() []*solidity.ConfigVariable {
	return []*solidity.ConfigVariable{c.roundDuration, c.earlyGrace, c.lateGrace, c.lateScale}
}

func (c *config) load(sctx *solidity.Context) (lockpool.Params, error) {
	for _, v := range c.vars() {
		if err := v.Override(sctx); err != nil {
			return lockpool.Params{}, err
		}
	}
	return c.params(), nil
}

func (c *config) store(sctx *solidity.Context, params lockpool.Params) {
	c.roundDuration.Store(sctx, params.RoundDuration)
	c.earlyGrace.Store(sctx, params.EarlyGrace)
	c.lateGrace.Store(sctx, params.LateGrace)
	c.lateScale.Store(sctx, params.LateScale)
}

func (c *config) params() lockpool.Params {
	return lockpool.Params{
		RoundDuration: c.roundDuration.Get(),
		EarlyGrace:    c.earlyGrace.Get(),
		LateGrace:     c.lateGrace.Get(),
		LateScale:     c.lateScale.Get(),
	}
}

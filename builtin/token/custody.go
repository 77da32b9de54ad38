// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/state"
)

// Custody moves assets between accounts and a holder, which is the pool.
type Custody struct {
	state  *state.State
	holder lockpool.Address
}

func NewCustody(state *state.State, holder lockpool.Address) *Custody {
	return &Custody{state: state, holder: holder}
}

// TransferIn pulls amount from an account that approved the holder.
func (c *Custody) TransferIn(asset, from lockpool.Address, amount *uint256.Int) error {
	return New(asset, c.state).TransferFrom(c.holder, from, c.holder, amount)
}

// TransferOut pays amount from the holder to an account.
func (c *Custody) TransferOut(asset, to lockpool.Address, amount *uint256.Int) error {
	return New(asset, c.state).Transfer(c.holder, to, amount)
}

// Balance returns the amount of asset in custody.
func (c *Custody) Balance(asset lockpool.Address) (*uint256.Int, error) {
	return New(asset, c.state).BalanceOf(c.holder)
}

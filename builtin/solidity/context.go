// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/state"
)

// Context binds storage slots to the account of a builtin contract.
type Context struct {
	address lockpool.Address
	state   *state.State
}

func NewContext(address lockpool.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() lockpool.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

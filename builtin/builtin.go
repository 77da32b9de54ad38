// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/lockpool/lockpool/builtin/pool"
	"github.com/lockpool/lockpool/builtin/token"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/state"
)

// Builtin bindings.
var (
	Pool  = &poolContract{newContract("Pool")}
	Token = &tokenContract{}
)

type contract struct {
	name    string
	Address lockpool.Address
}

func newContract(name string) *contract {
	return &contract{name, lockpool.BytesToAddress([]byte(name))}
}

func (c *contract) Name() string {
	return c.name
}

type (
	poolContract  struct{ *contract }
	tokenContract struct{}
)

// At returns the pool binding of another address.
func (p *poolContract) At(addr lockpool.Address) *poolContract {
	return &poolContract{&contract{p.name, addr}}
}

// WithState binds the pool to state. Custody of the staked assets is kept in the same state.
func (p *poolContract) WithState(state *state.State) (*pool.Pool, error) {
	return pool.New(p.Address, state, token.NewCustody(state, p.Address))
}

func (t *tokenContract) WithState(asset lockpool.Address, state *state.State) *token.Token {
	return token.New(asset, state)
}

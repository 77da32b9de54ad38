// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements fungible asset ledgers kept in the same journaled state as
// the pool, so transfers made by a failed pool operation are reverted with it.
package token

import (
	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/state"
)

var slotTotalSupply = lockpool.Keccak256([]byte("total-supply"))

func balanceKey(holder lockpool.Address) lockpool.Bytes32 {
	return lockpool.BytesToBytes32(append([]byte("b"), holder.Bytes()...))
}

func allowanceKey(owner, spender lockpool.Address) lockpool.Bytes32 {
	return lockpool.Keccak256(owner.Bytes(), spender.Bytes())
}

// Token is the ledger of a single asset, stored under the asset's address.
type Token struct {
	sctx   *solidity.Context
	supply *solidity.Uint256
}

func New(asset lockpool.Address, state *state.State) *Token {
	sctx := solidity.NewContext(asset, state)
	return &Token{
		sctx:   sctx,
		supply: solidity.NewUint256(sctx, slotTotalSupply),
	}
}

// Asset returns the asset address.
func (t *Token) Asset() lockpool.Address {
	return t.sctx.Address()
}

func (t *Token) balance(holder lockpool.Address) *solidity.Uint256 {
	return solidity.NewUint256(t.sctx, balanceKey(holder))
}

func (t *Token) allowance(owner, spender lockpool.Address) *solidity.Uint256 {
	return solidity.NewUint256(t.sctx, allowanceKey(owner, spender))
}

func (t *Token) TotalSupply() (*uint256.Int, error) {
	return t.supply.Get()
}

func (t *Token) BalanceOf(holder lockpool.Address) (*uint256.Int, error) {
	return t.balance(holder).Get()
}

func (t *Token) Allowance(owner, spender lockpool.Address) (*uint256.Int, error) {
	return t.allowance(owner, spender).Get()
}

// Mint creates amount out of thin air for to.
func (t *Token) Mint(to lockpool.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return reverts.New(reverts.InvalidInput, "mint to the zero address")
	}
	if err := t.supply.Add(amount); err != nil {
		return reverts.New(reverts.Overflow, "total supply")
	}
	// balances are bounded by the supply
	return t.balance(to).Add(amount)
}

// Transfer moves amount from one holder to another.
func (t *Token) Transfer(from, to lockpool.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return reverts.New(reverts.InvalidInput, "transfer to the zero address")
	}
	if err := t.balance(from).Sub(amount); err != nil {
		if err == solidity.ErrUnderflow {
			return reverts.New(reverts.InsufficientBalance, "")
		}
		return err
	}
	return t.balance(to).Add(amount)
}

// Approve sets the amount spender may move out of owner's balance.
func (t *Token) Approve(owner, spender lockpool.Address, amount *uint256.Int) error {
	if spender.IsZero() {
		return reverts.New(reverts.InvalidInput, "approve the zero address")
	}
	t.allowance(owner, spender).Set(amount)
	return nil
}

// TransferFrom moves amount from owner to to, spending the allowance granted to spender.
func (t *Token) TransferFrom(spender, owner, to lockpool.Address, amount *uint256.Int) error {
	if err := t.allowance(owner, spender).Sub(amount); err != nil {
		if err == solidity.ErrUnderflow {
			return reverts.New(reverts.InsufficientAllowance, "")
		}
		return err
	}
	return t.Transfer(owner, to, amount)
}

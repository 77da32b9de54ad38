// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/lockpool/lockpool/lockpool"
)

// Uint64 is a storage slot holding timestamps, counters and flags.
type Uint64 struct {
	context *Context
	pos     lockpool.Bytes32
}

func NewUint64(context *Context, pos lockpool.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: pos}
}

func (u *Uint64) Get() (uint64, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(storage[24:]), nil
}

func (u *Uint64) Set(value uint64) {
	var storage lockpool.Bytes32
	binary.BigEndian.PutUint64(storage[24:], value)
	u.context.state.SetStorage(u.context.address, u.pos, storage)
}

// Increment adds one and returns the value before increment.
func (u *Uint64) Increment() (uint64, error) {
	v, err := u.Get()
	if err != nil {
		return 0, err
	}
	u.Set(v + 1)
	return v, nil
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/log"
)

var logger = log.WithContext("pkg", "solidity")

// pinned marks a stored config value, so that zero can be pinned too.
const pinned = 0x01

// ConfigVariable is a uint64 parameter with a default, which can be pinned in contract storage.
type ConfigVariable struct {
	slot        lockpool.Bytes32
	name        string
	value       uint64
	initialised bool
}

func NewConfigVariable(name string, defaultValue uint64) *ConfigVariable {
	return &ConfigVariable{
		slot:  lockpool.BytesToBytes32([]byte(name)),
		name:  name,
		value: defaultValue,
	}
}

func (c *ConfigVariable) Get() uint64 {
	return c.value
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() lockpool.Bytes32 {
	return c.slot
}

// Override loads the value stored in the contract storage, if any.
func (c *ConfigVariable) Override(ctx *Context) error {
	if c.initialised { // early return to prevent subsequent reads
		return nil
	}
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		return err
	}
	c.initialised = true
	if storage[0] == pinned {
		c.value = binary.BigEndian.Uint64(storage[24:])
		logger.Debug("override found config value", "slot", c.Name(), "value", c.Get())
	} else {
		logger.Debug("using default config value", "slot", c.Name(), "value", c.Get())
	}
	return nil
}

// Store pins value in the contract storage.
func (c *ConfigVariable) Store(ctx *Context, value uint64) {
	var storage lockpool.Bytes32
	storage[0] = pinned
	binary.BigEndian.PutUint64(storage[24:], value)
	ctx.state.SetStorage(ctx.address, c.slot, storage)
	c.value = value
	c.initialised = true
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/lockpool"
)

// Params overrides the default pool params. Nil fields keep the default.
type Params struct {
	RoundDuration *uint64 `yaml:"roundDuration"`
	EarlyGrace    *uint64 `yaml:"earlyGrace"`
	LateGrace     *uint64 `yaml:"lateGrace"`
	LateScale     *uint64 `yaml:"lateScale"`
}

func (p *Params) apply(params lockpool.Params) lockpool.Params {
	if p.RoundDuration != nil {
		params.RoundDuration = *p.RoundDuration
	}
	if p.EarlyGrace != nil {
		params.EarlyGrace = *p.EarlyGrace
	}
	if p.LateGrace != nil {
		params.LateGrace = *p.LateGrace
	}
	if p.LateScale != nil {
		params.LateScale = *p.LateScale
	}
	return params
}

// Allocation mints an initial balance of an asset to an account.
type Allocation struct {
	Account lockpool.Address `yaml:"account"`
	// Asset defaults to the staking asset.
	Asset   *lockpool.Address `yaml:"asset"`
	Amount  *HexOrDecimal256  `yaml:"amount"`
	// ApprovePool grants the pool an unlimited allowance on the asset.
	ApprovePool bool `yaml:"approvePool"`
}

// HexOrDecimal256 is a 256 bit unsigned integer written as hex (0x prefixed) or decimal.
type HexOrDecimal256 uint256.Int

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *HexOrDecimal256) UnmarshalText(input []byte) error {
	b, ok := math.ParseBig256(string(input))
	if !ok || b.Sign() < 0 {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return fmt.Errorf("integer %q exceeds 256 bits", input)
	}
	*i = HexOrDecimal256(*v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (i HexOrDecimal256) MarshalText() ([]byte, error) {
	return []byte(i.Int().Dec()), nil
}

func (i *HexOrDecimal256) Int() *uint256.Int {
	return (*uint256.Int)(i)
}

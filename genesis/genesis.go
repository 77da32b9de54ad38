// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lockpool/lockpool/builtin"
	"github.com/lockpool/lockpool/builtin/pool"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/state"
)

// Genesis is the initial setup of a pool, applied once on an empty store.
type Genesis struct {
	// Pool is the pool address, defaults to the builtin pool address.
	Pool        *lockpool.Address `yaml:"pool"`
	Asset       lockpool.Address  `yaml:"asset"`
	Owner       lockpool.Address  `yaml:"owner"`
	Funder      lockpool.Address  `yaml:"funder"`
	Params      Params            `yaml:"params"`
	Allocations []Allocation      `yaml:"allocations"`
}

// Load reads a genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	gen, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return gen, nil
}

// Parse decodes a YAML genesis.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// PoolAddress returns the address of the pool.
func (g *Genesis) PoolAddress() lockpool.Address {
	if g.Pool != nil {
		return *g.Pool
	}
	return builtin.Pool.Address
}

// PoolParams returns the default params with the overrides applied.
func (g *Genesis) PoolParams() lockpool.Params {
	return g.Params.apply(lockpool.DefaultParams())
}

func (g *Genesis) Validate() error {
	if g.Asset.IsZero() {
		return errors.New("asset must be set")
	}
	if g.Owner.IsZero() {
		return errors.New("owner must be set")
	}
	if g.Funder.IsZero() {
		return errors.New("funder must be set")
	}
	if g.Pool != nil && g.Pool.IsZero() {
		return errors.New("pool must not be the zero address")
	}
	if err := g.PoolParams().Validate(); err != nil {
		return err
	}
	for i, alloc := range g.Allocations {
		if alloc.Account.IsZero() {
			return errors.Errorf("allocations[%d]: account must be set", i)
		}
		if alloc.Amount == nil || alloc.Amount.Int().IsZero() {
			return errors.Errorf("allocations[%d]: amount must be a non-zero integer", i)
		}
	}
	return nil
}

// Build initializes the pool and mints the allocations into state. State changes are
// not committed.
func (g *Genesis) Build(st *state.State) error {
	return new(Builder).
		State(func(st *state.State) error {
			p, err := builtin.Pool.At(g.PoolAddress()).WithState(st)
			if err != nil {
				return err
			}
			return p.Initialize(&pool.Genesis{
				Asset:  g.Asset,
				Owner:  g.Owner,
				Funder: g.Funder,
				Params: g.PoolParams(),
			})
		}).
		State(func(st *state.State) error {
			for _, alloc := range g.Allocations {
				asset := g.Asset
				if alloc.Asset != nil {
					asset = *alloc.Asset
				}
				tok := builtin.Token.WithState(asset, st)
				if err := tok.Mint(alloc.Account, alloc.Amount.Int()); err != nil {
					return errors.WithMessagef(err, "allocate %v", alloc.Account)
				}
				if alloc.ApprovePool {
					if err := tok.Approve(alloc.Account, g.PoolAddress(), unlimited()); err != nil {
						return err
					}
				}
			}
			return nil
		}).
		Build(st)
}

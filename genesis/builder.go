// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/lockpool/lockpool/state"
)

// Builder helper to build the genesis state.
type Builder struct {
	stateProcs []func(state *state.State) error
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build runs the state processes. All of them are reverted if one fails.
func (b *Builder) Build(st *state.State) error {
	checkpoint := st.NewCheckpoint()
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			st.RevertTo(checkpoint)
			return errors.Wrap(err, "state process")
		}
	}
	return nil
}

func unlimited() *uint256.Int {
	return new(uint256.Int).SetAllOne()
}

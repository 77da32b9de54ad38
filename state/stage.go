// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Stage abstracts changes on the storage.
type Stage struct {
	state   *State
	changes map[storageKey]rlp.RawValue
}

// Len returns the count of changed storage slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes into the kv store in one batch, and resets the journal
// of the state. Checkpoints made before are invalid after commit.
func (s *Stage) Commit() error {
	batch := s.state.store.NewBatch()
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = batch.Delete(k.Bytes())
		} else {
			err = batch.Put(k.Bytes(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	for k, v := range s.changes {
		s.state.cache.Add(k, v)
	}
	s.state.reset()
	return nil
}

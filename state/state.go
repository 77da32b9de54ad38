// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/lockpool/lockpool/cache"
	"github.com/lockpool/lockpool/kv"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/stackedmap"
)

const defaultCacheSize = 4096

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Cause returns the underlying error.
func (e *Error) Cause() error {
	return e.cause
}

type storageKey struct {
	addr lockpool.Address
	key  lockpool.Bytes32
}

// Bytes returns the kv key of the storage slot.
func (k storageKey) Bytes() []byte {
	b := make([]byte, 0, lockpool.AddressLength+32)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages the storage of accounts.
type State struct {
	store kv.Store
	cache *cache.LRU             // cache of committed values
	sm    *stackedmap.StackedMap // keeps revisions of storage
}

// New create state object upon the kv store.
func New(store kv.Store) *State {
	c, _ := cache.NewLRU(defaultCacheSize)
	s := &State{
		store: store,
		cache: c,
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(func(key any) (any, bool, error) {
		return s.cacheGetter(key)
	})
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case storageKey:
		v, err := s.cache.GetOrLoad(k, func(any) (any, error) {
			data, err := s.store.Get(k.Bytes())
			if err != nil {
				if s.store.IsNotFound(err) {
					return rlp.RawValue(nil), nil
				}
				return nil, err
			}
			return rlp.RawValue(data), nil
		})
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr lockpool.Address, key lockpool.Bytes32) (lockpool.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return lockpool.Bytes32{}, err
	}
	if len(raw) == 0 {
		return lockpool.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return lockpool.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return lockpool.Blake2b(raw), nil
	}
	return lockpool.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr lockpool.Address, key, value lockpool.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr lockpool.Address, key lockpool.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr lockpool.Address, key lockpool.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr lockpool.Address, key lockpool.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr lockpool.Address, key lockpool.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// CacheStats returns hit/miss stats of the committed value cache.
func (s *State) CacheStats() *cache.Stats {
	return s.cache.Stats()
}

// Stage makes a stage object to commit all changes since the last commit.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)

	// traverse journal to build changes, later entries override earlier ones
	s.sm.Journal(func(k, v any) bool {
		if key, ok := k.(storageKey); ok {
			changes[key] = v.(rlp.RawValue)
		}
		return true
	})
	return &Stage{state: s, changes: changes}
}

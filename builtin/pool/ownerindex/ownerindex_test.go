// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ownerindex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/builtin/pool/stakes"
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/lvldb"
	"github.com/lockpool/lockpool/state"
)

var (
	alice = lockpool.BytesToAddress([]byte("alice"))
	bob   = lockpool.BytesToAddress([]byte("bob"))
)

func newIndex(t *testing.T) *Index {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(lockpool.BytesToAddress([]byte("pool")), state.New(db)))
}

func listOf(t *testing.T, x *Index, owner lockpool.Address) []stakes.ID {
	ids, err := x.List(owner)
	require.NoError(t, err)
	return ids
}

func TestIndex_AddRemove(t *testing.T) {
	x := newIndex(t)
	assert.Equal(t, []stakes.ID{}, listOf(t, x, alice))

	for _, id := range []stakes.ID{1, 3, 4} {
		require.NoError(t, x.Add(alice, id))
	}
	require.NoError(t, x.Add(bob, 2))
	// duplicate add
	require.NoError(t, x.Add(alice, 3))

	assert.Equal(t, []stakes.ID{1, 3, 4}, listOf(t, x, alice))
	assert.Equal(t, []stakes.ID{2}, listOf(t, x, bob))

	n, err := x.Len(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	ok, err := x.Contains(alice, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = x.Contains(bob, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	// middle
	require.NoError(t, x.Remove(alice, 3))
	assert.Equal(t, []stakes.ID{1, 4}, listOf(t, x, alice))
	// not owned
	require.NoError(t, x.Remove(bob, 1))
	assert.Equal(t, []stakes.ID{1, 4}, listOf(t, x, alice))
	// head
	require.NoError(t, x.Remove(alice, 1))
	assert.Equal(t, []stakes.ID{4}, listOf(t, x, alice))
	// tail and last
	require.NoError(t, x.Remove(alice, 4))
	assert.Equal(t, []stakes.ID{}, listOf(t, x, alice))

	n, err = x.Len(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	// list is reusable once emptied
	require.NoError(t, x.Add(alice, 5))
	require.NoError(t, x.Add(alice, 6))
	require.NoError(t, x.Remove(alice, 6))
	require.NoError(t, x.Add(alice, 7))
	assert.Equal(t, []stakes.ID{5, 7}, listOf(t, x, alice))
}

func TestIndex_IterError(t *testing.T) {
	x := newIndex(t)
	require.NoError(t, x.Add(alice, 1))
	require.NoError(t, x.Add(alice, 2))

	stop := errors.New("stop")
	visited := 0
	err := x.Iter(alice, func(stakes.ID) error {
		visited++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, visited)
}

func TestIndex_ZeroID(t *testing.T) {
	x := newIndex(t)
	require.NoError(t, x.Add(alice, 0))
	assert.Equal(t, []stakes.ID{}, listOf(t, x, alice))
	ok, err := x.Contains(alice, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put(key, value))

		ret1, err := db.Get(key)
		require.NoError(t, err)

		ret2, err := db.Has(key)
		require.NoError(t, err)

		ret3, err := db.Has(inValidKey)
		require.NoError(t, err)

		require.NoError(t, db.Delete(key))
		_, ret4 := db.Get(key)

		tests := []struct {
			ret      any
			expected any
		}{
			{ret1, value},
			{ret2, true},
			{ret3, false},
			{db.IsNotFound(ret4), true},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.ret)
		}
	}
}

func TestLevelDBBatch(t *testing.T) {
	var (
		key   = []byte("123")
		value = []byte("456")
	)
	db, err := New(filepath.Join(t.TempDir(), "batch"), Options{16, 16})
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	require.NoError(t, batch.Put(key, value))
	assert.Equal(t, 1, batch.Len())

	has, err := db.Has(key)
	require.NoError(t, err)
	assert.False(t, has, "batch must not be visible before write")

	require.NoError(t, batch.Write())

	got, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	batch = db.NewBatch()
	require.NoError(t, batch.Delete(key))
	require.NoError(t, batch.Write())

	_, err = db.Get(key)
	assert.True(t, db.IsNotFound(err))
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen")

	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/lvldb"
)

func newStore(t *testing.T) *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStateReadWrite(t *testing.T) {
	st := New(newStore(t))

	addr := lockpool.BytesToAddress([]byte("account1"))
	storageKey := lockpool.BytesToBytes32([]byte("storageKey"))

	storage, err := st.GetStorage(addr, storageKey)
	require.NoError(t, err)
	assert.True(t, storage.IsZero())

	value := lockpool.BytesToBytes32([]byte("value"))
	st.SetStorage(addr, storageKey, value)
	storage, err = st.GetStorage(addr, storageKey)
	require.NoError(t, err)
	assert.Equal(t, value, storage)

	// rlp list values are reported by hash
	raw, _ := rlp.EncodeToBytes([]uint64{1, 2})
	st.SetRawStorage(addr, storageKey, raw)
	storage, err = st.GetStorage(addr, storageKey)
	require.NoError(t, err)
	assert.Equal(t, lockpool.Blake2b(raw), storage)
}

func TestStateRevert(t *testing.T) {
	st := New(newStore(t))

	addr := lockpool.BytesToAddress([]byte("account1"))
	storageKey := lockpool.BytesToBytes32([]byte("storageKey"))

	values := []lockpool.Bytes32{
		lockpool.BytesToBytes32([]byte("v1")),
		lockpool.BytesToBytes32([]byte("v2")),
		lockpool.BytesToBytes32([]byte("v3")),
	}

	var chk []int
	for _, v := range values {
		chk = append(chk, st.NewCheckpoint())
		st.SetStorage(addr, storageKey, v)
	}

	for i := range chk {
		i = len(chk) - 1 - i
		got, err := st.GetStorage(addr, storageKey)
		require.NoError(t, err)
		assert.Equal(t, values[i], got)
		st.RevertTo(chk[i])
	}

	got, err := st.GetStorage(addr, storageKey)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// revert to the root level keeps the state writable
	st.RevertTo(0)
	st.SetStorage(addr, storageKey, values[0])
	got, err = st.GetStorage(addr, storageKey)
	require.NoError(t, err)
	assert.Equal(t, values[0], got)
}

func TestStageCommit(t *testing.T) {
	db := newStore(t)
	st := New(db)

	addr := lockpool.BytesToAddress([]byte("pool"))
	k1 := lockpool.BytesToBytes32([]byte("k1"))
	k2 := lockpool.BytesToBytes32([]byte("k2"))
	v1 := lockpool.BytesToBytes32([]byte("v1"))

	st.SetStorage(addr, k1, v1)
	st.SetStorage(addr, k2, v1)
	st.SetStorage(addr, k2, lockpool.BytesToBytes32([]byte("v2")))

	chk := st.NewCheckpoint()
	st.SetStorage(addr, lockpool.BytesToBytes32([]byte("reverted")), v1)
	st.RevertTo(chk)

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	require.NoError(t, stage.Commit())
	assert.Equal(t, 0, st.Stage().Len(), "journal is reset after commit")

	// a fresh state over the same store sees committed values
	st2 := New(db)
	got, err := st2.GetStorage(addr, k2)
	require.NoError(t, err)
	assert.Equal(t, lockpool.BytesToBytes32([]byte("v2")), got)

	has, err := db.Has(storageKey{addr, lockpool.BytesToBytes32([]byte("reverted"))}.Bytes())
	require.NoError(t, err)
	assert.False(t, has)

	// zero value deletes the slot
	st.SetStorage(addr, k1, lockpool.Bytes32{})
	require.NoError(t, st.Stage().Commit())
	has, err = db.Has(storageKey{addr, k1}.Bytes())
	require.NoError(t, err)
	assert.False(t, has)

	got, err = st.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestCacheStats(t *testing.T) {
	st := New(newStore(t))
	addr := lockpool.BytesToAddress([]byte("pool"))
	key := lockpool.BytesToBytes32([]byte("k"))

	_, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	_, err = st.GetStorage(addr, key)
	require.NoError(t, err)

	_, hit, miss := st.CacheStats().Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)
}

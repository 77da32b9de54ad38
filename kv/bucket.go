// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "sync"

// Bucket is a key prefix. Stores derived from distinct buckets of one
// source never see each other's keys, as long as no bucket is a prefix of another.
type Bucket string

// scratch buffers for prefixed read keys, which the source does not retain
var keyBufs = sync.Pool{
	New: func() any { return new([]byte) },
}

func (b Bucket) withKey(key []byte, f func(k []byte)) {
	buf := keyBufs.Get().(*[]byte)
	*buf = append(append((*buf)[:0], b...), key...)
	f(*buf)
	keyBufs.Put(buf)
}

// NewGetter returns a view of src restricted to the bucket.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) (val []byte, err error) {
			b.withKey(key, func(k []byte) { val, err = src.Get(k) })
			return
		},
		func(key []byte) (has bool, err error) {
			b.withKey(key, func(k []byte) { has, err = src.Has(k) })
			return
		},
		src.IsNotFound,
	}
}

// NewPutter writes into the bucket of src. Keys are copied since a batch
// holds on to them until Write.
func (b Bucket) NewPutter(src Putter) Putter {
	prefixed := func(key []byte) []byte {
		return append([]byte(b), key...)
	}
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error { return src.Put(prefixed(key), val) },
		func(key []byte) error { return src.Delete(prefixed(key)) },
	}
}

// NewStore combines NewGetter and NewPutter, with batches scoped to the bucket.
func (b Bucket) NewStore(src Store) Store {
	return &struct {
		Getter
		Putter
		NewBatchFunc
	}{
		b.NewGetter(src),
		b.NewPutter(src),
		func() Batch {
			batch := src.NewBatch()
			return &struct {
				Putter
				LenFunc
				WriteFunc
			}{b.NewPutter(batch), batch.Len, batch.Write}
		},
	}
}

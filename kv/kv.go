// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv declares the key-value store consumed by the ledger state,
// and Bucket, which carves a store into key-prefixed namespaces.
package kv

type Getter interface {
	// Get fails for a missing key with an error recognized by IsNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

type GetPutter interface {
	Getter
	Putter
}

// Batch buffers writes until Write applies them atomically.
type Batch interface {
	Putter
	Len() int
	Write() error
}

type Store interface {
	GetPutter
	NewBatch() Batch
}

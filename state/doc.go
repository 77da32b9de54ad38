// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the storage of builtin contracts (the pool and the asset ledger).
// It follows the flow as bellow:
//
//	          o
//	          |
//	 [ revertable state ]
//	          |
//	   [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv batch ]
//	          |
//	    [ lru cache ]
//	          |
//	     [ kv store ]
//
// Every value is kept rlp encoded. An empty value means the slot is unset, and is
// deleted from the kv store on commit.
package state

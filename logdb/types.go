// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/lockpool"
)

// Event is a committed pool event.
type Event struct {
	Seq     uint64 // assigned on write, strictly increasing
	Kind    string
	Time    uint64
	Round   uint64
	StakeID uint64
	Account lockpool.Address
	Asset   lockpool.Address
	Amount  *uint256.Int
	Penalty *uint256.Int
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive time range. To less than From means unbounded.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events on all of its non nil fields.
type EventCriteria struct {
	Kind    *string
	Account *lockpool.Address
	StakeID *uint64
}

// EventFilter selects events matching any of the criteria.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	After       uint64 // only events with a greater seq
	Options     *Options
	Order       Order // default asc
}

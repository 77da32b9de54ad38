// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/builtin/pool/stakes"
	"github.com/lockpool/lockpool/lockpool"
)

// EventKind names a pool event.
type EventKind string

const (
	EventDeposited      EventKind = "Deposited"
	EventWithdrawn      EventKind = "Withdrawn"
	EventRewardCharged  EventKind = "RewardCharged"
	EventRoundStarted   EventKind = "RoundStarted"
	EventFunderChanged  EventKind = "FunderChanged"
	EventOwnerChanged   EventKind = "OwnerChanged"
	EventAssetRecovered EventKind = "AssetRecovered"
	EventPauseChanged   EventKind = "PauseChanged"
)

// Event records the effect of a completed operation.
// Fields not relevant to the kind are left zero.
type Event struct {
	Kind    EventKind
	Time    uint64
	StakeID stakes.ID
	Account lockpool.Address
	Asset   lockpool.Address
	Amount  *uint256.Int
	Penalty *uint256.Int
	Round   uint64
}

func (p *Pool) emit(ev *Event) {
	if ev.Amount == nil {
		ev.Amount = new(uint256.Int)
	}
	if ev.Penalty == nil {
		ev.Penalty = new(uint256.Int)
	}
	p.events = append(p.events, ev)
}

// TakeEvents returns the events emitted since the last call and clears the buffer.
func (p *Pool) TakeEvents() []*Event {
	events := p.events
	p.events = nil
	return events
}

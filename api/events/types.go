// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math"

	"github.com/lockpool/lockpool/api/utils"
	"github.com/lockpool/lockpool/logdb"
	"github.com/lockpool/lockpool/lockpool"
)

type EventCriteria struct {
	Kind    *string           `json:"kind"`
	Account *lockpool.Address `json:"account"`
	StakeID *uint64           `json:"stakeID"`
}

// Range bounds are unix seconds, both inclusive.
type Range struct {
	From *uint64 `json:"from"`
	To   *uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

type FilteredEvent struct {
	Seq     uint64           `json:"seq"`
	Kind    string           `json:"kind"`
	Time    uint64           `json:"time"`
	Round   uint64           `json:"round"`
	StakeID uint64           `json:"stakeID,omitempty"`
	Account lockpool.Address `json:"account"`
	Asset   lockpool.Address `json:"asset"`
	Amount  *utils.Amount    `json:"amount"`
	Penalty *utils.Amount    `json:"penalty,omitempty"`
}

func convertFilter(ef *EventFilter) *logdb.EventFilter {
	f := &logdb.EventFilter{
		Order: ef.Order,
	}
	if len(ef.CriteriaSet) > 0 {
		f.CriteriaSet = make([]*logdb.EventCriteria, len(ef.CriteriaSet))
		for i, c := range ef.CriteriaSet {
			f.CriteriaSet[i] = &logdb.EventCriteria{
				Kind:    c.Kind,
				Account: c.Account,
				StakeID: c.StakeID,
			}
		}
	}
	if ef.Range != nil {
		r := &logdb.Range{To: math.MaxUint64}
		if ef.Range.From != nil {
			r.From = *ef.Range.From
		}
		if ef.Range.To != nil {
			r.To = *ef.Range.To
		}
		f.Range = r
	}
	if ef.Options != nil {
		f.Options = &logdb.Options{
			Offset: ef.Options.Offset,
			Limit:  ef.Options.Limit,
		}
	}
	return f
}

// ConvertEvent converts a logged event to its API form.
func ConvertEvent(ev *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Seq:     ev.Seq,
		Kind:    ev.Kind,
		Time:    ev.Time,
		Round:   ev.Round,
		StakeID: ev.StakeID,
		Account: ev.Account,
		Asset:   ev.Asset,
		Amount:  utils.NewAmount(ev.Amount),
	}
	if ev.Penalty != nil && !ev.Penalty.IsZero() {
		fe.Penalty = utils.NewAmount(ev.Penalty)
	}
	return fe
}

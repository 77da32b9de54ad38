// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ownerindex

import (
	"github.com/lockpool/lockpool/builtin/pool/stakes"
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
)

var (
	slotHead   = lockpool.BytesToBytes32([]byte("owner-stakes-head"))
	slotTail   = lockpool.BytesToBytes32([]byte("owner-stakes-tail"))
	slotCount  = lockpool.BytesToBytes32([]byte("owner-stakes-count"))
	slotNext   = lockpool.BytesToBytes32([]byte("owner-stakes-next"))
	slotPrev   = lockpool.BytesToBytes32([]byte("owner-stakes-prev"))
	slotMember = lockpool.BytesToBytes32([]byte("owner-stakes-member"))
)

// Index keeps, for every account, a doubly linked list of its stake ids in insertion order.
// Id zero terminates a list.
type Index struct {
	head   *solidity.Mapping[lockpool.Address, stakes.ID]
	tail   *solidity.Mapping[lockpool.Address, stakes.ID]
	count  *solidity.Mapping[lockpool.Address, uint64]
	next   *solidity.Mapping[stakes.ID, stakes.ID]
	prev   *solidity.Mapping[stakes.ID, stakes.ID]
	member *solidity.Mapping[stakes.ID, lockpool.Address]
}

func New(sctx *solidity.Context) *Index {
	return &Index{
		head:   solidity.NewMapping[lockpool.Address, stakes.ID](sctx, slotHead),
		tail:   solidity.NewMapping[lockpool.Address, stakes.ID](sctx, slotTail),
		count:  solidity.NewMapping[lockpool.Address, uint64](sctx, slotCount),
		next:   solidity.NewMapping[stakes.ID, stakes.ID](sctx, slotNext),
		prev:   solidity.NewMapping[stakes.ID, stakes.ID](sctx, slotPrev),
		member: solidity.NewMapping[stakes.ID, lockpool.Address](sctx, slotMember),
	}
}

// setID stores id, clearing the slot for the terminator.
func setID[K solidity.Key](m *solidity.Mapping[K, stakes.ID], key K, id stakes.ID) error {
	if id == 0 {
		m.Delete(key)
		return nil
	}
	return m.Set(key, id)
}

// Add appends id to the owner's list. Adding an id twice is a no-op.
func (x *Index) Add(owner lockpool.Address, id stakes.ID) error {
	if id == 0 {
		return nil
	}
	if ok, err := x.member.Exists(id); err != nil || ok {
		return err
	}

	oldTail, err := x.tail.Get(owner)
	if err != nil {
		return err
	}
	if oldTail == 0 {
		// the list is empty, the entry becomes head & tail
		if err := setID(x.head, owner, id); err != nil {
			return err
		}
	} else {
		if err := setID(x.next, oldTail, id); err != nil {
			return err
		}
		if err := setID(x.prev, id, oldTail); err != nil {
			return err
		}
	}
	if err := setID(x.tail, owner, id); err != nil {
		return err
	}
	if err := x.member.Set(id, owner); err != nil {
		return err
	}
	return x.addCount(owner, 1)
}

// Remove unlinks id from the owner's list. Removing an absent id is a no-op.
func (x *Index) Remove(owner lockpool.Address, id stakes.ID) error {
	ok, err := x.Contains(owner, id)
	if err != nil || !ok {
		return err
	}

	prev, err := x.prev.Get(id)
	if err != nil {
		return err
	}
	next, err := x.next.Get(id)
	if err != nil {
		return err
	}

	if prev != 0 {
		err = setID(x.next, prev, next)
	} else {
		err = setID(x.head, owner, next)
	}
	if err != nil {
		return err
	}

	if next != 0 {
		err = setID(x.prev, next, prev)
	} else {
		err = setID(x.tail, owner, prev)
	}
	if err != nil {
		return err
	}

	x.next.Delete(id)
	x.prev.Delete(id)
	x.member.Delete(id)
	return x.addCount(owner, -1)
}

func (x *Index) addCount(owner lockpool.Address, delta int) error {
	n, err := x.count.Get(owner)
	if err != nil {
		return err
	}
	if delta > 0 {
		n++
	} else {
		n--
	}
	if n == 0 {
		x.count.Delete(owner)
		return nil
	}
	return x.count.Set(owner, n)
}

// Contains returns whether id is in the owner's list.
func (x *Index) Contains(owner lockpool.Address, id stakes.ID) (bool, error) {
	if id == 0 {
		return false, nil
	}
	ok, err := x.member.Exists(id)
	if err != nil || !ok {
		return false, err
	}
	member, err := x.member.Get(id)
	if err != nil {
		return false, err
	}
	return member == owner, nil
}

// Len returns the number of ids in the owner's list.
func (x *Index) Len(owner lockpool.Address) (uint64, error) {
	return x.count.Get(owner)
}

// Iter walks the owner's list in insertion order until completion or error.
func (x *Index) Iter(owner lockpool.Address, callback func(stakes.ID) error) error {
	ptr, err := x.head.Get(owner)
	if err != nil {
		return err
	}
	for ptr != 0 {
		if err := callback(ptr); err != nil {
			return err
		}
		if ptr, err = x.next.Get(ptr); err != nil {
			return err
		}
	}
	return nil
}

// List returns all ids of the owner in insertion order.
func (x *Index) List(owner lockpool.Address) ([]stakes.ID, error) {
	ids := make([]stakes.ID, 0)
	err := x.Iter(owner, func(id stakes.ID) error {
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package access

import (
	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
)

var (
	slotOwner  = lockpool.BytesToBytes32([]byte("owner"))
	slotFunder = lockpool.BytesToBytes32([]byte("reward-funder"))
	slotPaused = lockpool.BytesToBytes32([]byte("paused"))
)

// Service keeps the privileged roles of the pool and its pause flag.
type Service struct {
	owner  *solidity.Address
	funder *solidity.Address
	paused *solidity.Uint64
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		owner:  solidity.NewAddress(sctx, slotOwner),
		funder: solidity.NewAddress(sctx, slotFunder),
		paused: solidity.NewUint64(sctx, slotPaused),
	}
}

func (s *Service) Owner() (lockpool.Address, error) {
	return s.owner.Get()
}

func (s *Service) Funder() (lockpool.Address, error) {
	return s.funder.Get()
}

func (s *Service) IsPaused() (bool, error) {
	v, err := s.paused.Get()
	return v != 0, err
}

func (s *Service) RequireOwner(caller lockpool.Address) error {
	owner, err := s.owner.Get()
	if err != nil {
		return err
	}
	if caller.IsZero() || caller != owner {
		return reverts.New(reverts.Unauthorized, "caller is not the owner")
	}
	return nil
}

func (s *Service) RequireFunder(caller lockpool.Address) error {
	funder, err := s.funder.Get()
	if err != nil {
		return err
	}
	if caller.IsZero() || caller != funder {
		return reverts.New(reverts.Unauthorized, "caller is not the reward funder")
	}
	return nil
}

func (s *Service) RequireNotPaused() error {
	paused, err := s.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		return reverts.New(reverts.Paused, "")
	}
	return nil
}

// SetOwner transfers ownership. The zero address is rejected.
func (s *Service) SetOwner(owner lockpool.Address) error {
	if owner.IsZero() {
		return reverts.New(reverts.InvalidInput, "zero owner")
	}
	s.owner.Set(owner)
	return nil
}

// SetFunder replaces the reward funder. The zero address is rejected.
func (s *Service) SetFunder(funder lockpool.Address) error {
	if funder.IsZero() {
		return reverts.New(reverts.InvalidInput, "zero reward funder")
	}
	s.funder.Set(funder)
	return nil
}

func (s *Service) SetPaused(paused bool) {
	if paused {
		s.paused.Set(1)
	} else {
		s.paused.Set(0)
	}
}

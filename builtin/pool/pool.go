// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/builtin/pool/access"
	"github.com/lockpool/lockpool/builtin/pool/accumulator"
	"github.com/lockpool/lockpool/builtin/pool/ownerindex"
	"github.com/lockpool/lockpool/builtin/pool/penalty"
	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/pool/round"
	"github.com/lockpool/lockpool/builtin/pool/stakes"
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/log"
	"github.com/lockpool/lockpool/state"
)

var (
	logger = log.WithContext("pkg", "pool")

	slotAsset = lockpool.BytesToBytes32([]byte("staking-asset"))
)

func SetLogger(l log.Logger) {
	logger = l
}

// Custody moves assets in and out of the pool.
type Custody interface {
	TransferIn(asset, from lockpool.Address, amount *uint256.Int) error
	TransferOut(asset, to lockpool.Address, amount *uint256.Int) error
}

// Genesis is the initial configuration of a pool.
type Genesis struct {
	Asset  lockpool.Address
	Owner  lockpool.Address
	Funder lockpool.Address
	Params lockpool.Params
}

// Pool implements the staking pool. It is not safe for concurrent use.
type Pool struct {
	sctx    *solidity.Context
	state   *state.State
	custody Custody

	asset  *solidity.Address
	config *config
	params lockpool.Params

	stakes *stakes.Service
	acc    *accumulator.Service
	rounds *round.Service
	access *access.Service
	index  *ownerindex.Index

	entered bool
	events  []*Event
}

// New creates a pool bound to the storage of addr. Params pinned at initialization
// are loaded from storage.
func New(addr lockpool.Address, state *state.State, custody Custody) (*Pool, error) {
	sctx := solidity.NewContext(addr, state)

	cfg := newConfig()
	params, err := cfg.load(sctx)
	if err != nil {
		return nil, err
	}

	p := &Pool{
		sctx:    sctx,
		state:   state,
		custody: custody,
		asset:   solidity.NewAddress(sctx, slotAsset),
		config:  cfg,
		stakes:  stakes.New(sctx),
		access:  access.New(sctx),
		index:   ownerindex.New(sctx),
	}
	p.acc = accumulator.New(sctx, p.stakes)
	p.setParams(params)
	return p, nil
}

func (p *Pool) setParams(params lockpool.Params) {
	p.params = params
	p.rounds = round.New(p.sctx, p.acc, params.RoundDuration)
}

// Initialize sets the staking asset, the roles and the params. A pool is initialized once.
func (p *Pool) Initialize(genesis *Genesis) error {
	return p.mutate(func() error {
		initialized, err := p.IsInitialized()
		if err != nil {
			return err
		}
		if initialized {
			return reverts.New(reverts.InvalidInput, "pool already initialized")
		}
		if genesis.Asset.IsZero() {
			return reverts.New(reverts.InvalidInput, "zero staking asset")
		}
		if err := genesis.Params.Validate(); err != nil {
			return reverts.New(reverts.InvalidInput, err.Error())
		}
		if err := p.access.SetOwner(genesis.Owner); err != nil {
			return err
		}
		if err := p.access.SetFunder(genesis.Funder); err != nil {
			return err
		}
		p.asset.Set(genesis.Asset)
		p.config.store(p.sctx, genesis.Params)
		p.setParams(genesis.Params)

		logger.Info("pool initialized",
			"asset", genesis.Asset,
			"owner", genesis.Owner,
			"funder", genesis.Funder,
			"roundDuration", genesis.Params.RoundDuration,
		)
		return nil
	})
}

// mutate runs fn as a single operation. Any error reverts all its state changes and events.
func (p *Pool) mutate(fn func() error) error {
	if p.entered {
		return reverts.New(reverts.Reentrant, "")
	}
	p.entered = true
	defer func() { p.entered = false }()

	checkpoint := p.state.NewCheckpoint()
	emitted := len(p.events)
	if err := fn(); err != nil {
		p.state.RevertTo(checkpoint)
		p.events = p.events[:emitted]
		return err
	}
	return nil
}

//
// Getters - no state change
//

// Address returns the pool's own address, which holds the assets in custody.
func (p *Pool) Address() lockpool.Address {
	return p.sctx.Address()
}

func (p *Pool) IsInitialized() (bool, error) {
	asset, err := p.asset.Get()
	return !asset.IsZero(), err
}

// Asset returns the staking asset.
func (p *Pool) Asset() (lockpool.Address, error) {
	return p.asset.Get()
}

func (p *Pool) Params() lockpool.Params {
	return p.params
}

func (p *Pool) Owner() (lockpool.Address, error) {
	return p.access.Owner()
}

func (p *Pool) Funder() (lockpool.Address, error) {
	return p.access.Funder()
}

func (p *Pool) IsPaused() (bool, error) {
	return p.access.IsPaused()
}

func (p *Pool) TotalStaked() (*uint256.Int, error) {
	return p.stakes.TotalStaked()
}

func (p *Pool) RewardPerShare(now uint64) (*uint256.Int, error) {
	return p.acc.RewardPerShare(now)
}

func (p *Pool) RewardRate() (*uint256.Int, error) {
	return p.acc.RewardRate()
}

func (p *Pool) IsRoundActive(now uint64) (bool, error) {
	return p.acc.IsRoundActive(now)
}

func (p *Pool) PendingReward() (*uint256.Int, error) {
	return p.acc.PendingReward()
}

// Round returns the round counter.
func (p *Pool) Round() (uint64, error) {
	return p.rounds.Current()
}

// GetStake returns the stake, StakeNotFound if absent.
func (p *Pool) GetStake(id stakes.ID) (*stakes.Stake, error) {
	stake, err := p.stakes.Get(id)
	if err != nil {
		return nil, err
	}
	if stake == nil {
		return nil, reverts.New(reverts.StakeNotFound, "")
	}
	return stake, nil
}

// Earned returns the reward the stake would receive if withdrawn on time at now.
func (p *Pool) Earned(id stakes.ID, now uint64) (*uint256.Int, error) {
	stake, err := p.GetStake(id)
	if err != nil {
		return nil, err
	}
	return p.acc.Earned(stake, now)
}

// StakesOf returns the ids of the account's stakes in creation order.
func (p *Pool) StakesOf(account lockpool.Address) ([]stakes.ID, error) {
	return p.index.List(account)
}

// Preview returns the payout and the penalty of withdrawing the stake at now.
func (p *Pool) Preview(id stakes.ID, now uint64) (payout *uint256.Int, forfeit *uint256.Int, err error) {
	stake, err := p.GetStake(id)
	if err != nil {
		return nil, nil, err
	}
	earned, err := p.acc.Earned(stake, now)
	if err != nil {
		return nil, nil, err
	}
	return penalty.Compute(penalty.ScheduleOf(p.params), penalty.Position{
		Amount:   stake.Amount,
		Accrued:  earned,
		Duration: stake.Duration,
		EndTime:  stake.EndTime,
	}, now)
}

// Summary is a snapshot of the pool globals.
type Summary struct {
	Asset          lockpool.Address
	Owner          lockpool.Address
	Funder         lockpool.Address
	Paused         bool
	TotalStaked    *uint256.Int
	RewardPerShare *uint256.Int
	RewardRate     *uint256.Int
	PendingReward  *uint256.Int
	RoundActive    bool
	RoundEndTime   uint64
	LastSyncTime   uint64
	Round          uint64
	LastStakeID    stakes.ID
	Params         lockpool.Params
}

// Summary reads all pool globals as of now.
func (p *Pool) Summary(now uint64) (*Summary, error) {
	var (
		s   = &Summary{Params: p.params}
		err error
	)
	if s.Asset, err = p.asset.Get(); err != nil {
		return nil, err
	}
	if s.Owner, err = p.access.Owner(); err != nil {
		return nil, err
	}
	if s.Funder, err = p.access.Funder(); err != nil {
		return nil, err
	}
	if s.Paused, err = p.access.IsPaused(); err != nil {
		return nil, err
	}
	if s.TotalStaked, err = p.stakes.TotalStaked(); err != nil {
		return nil, err
	}
	if s.RewardPerShare, err = p.acc.RewardPerShare(now); err != nil {
		return nil, err
	}
	if s.RewardRate, err = p.acc.RewardRate(); err != nil {
		return nil, err
	}
	if s.PendingReward, err = p.acc.PendingReward(); err != nil {
		return nil, err
	}
	if s.RoundActive, err = p.acc.IsRoundActive(now); err != nil {
		return nil, err
	}
	if s.RoundEndTime, err = p.acc.RoundEndTime(); err != nil {
		return nil, err
	}
	if s.LastSyncTime, err = p.acc.LastSyncTime(); err != nil {
		return nil, err
	}
	if s.Round, err = p.rounds.Current(); err != nil {
		return nil, err
	}
	if s.LastStakeID, err = p.stakes.LastID(); err != nil {
		return nil, err
	}
	return s, nil
}

//
// Setters - state change
//

// Deposit locks amount of the staking asset from caller for duration seconds.
func (p *Pool) Deposit(caller lockpool.Address, amount *uint256.Int, duration uint64, now uint64) (stakes.ID, error) {
	logger.Debug("depositing", "caller", caller, "amount", amount, "duration", duration)

	var id stakes.ID
	err := p.mutate(func() error {
		if err := p.access.RequireNotPaused(); err != nil {
			return err
		}
		if amount.IsZero() {
			return reverts.New(reverts.ZeroAmount, "")
		}
		if caller.IsZero() {
			return reverts.New(reverts.InvalidInput, "zero caller")
		}
		if caller == p.Address() {
			return reverts.New(reverts.Unauthorized, "pool cannot stake")
		}
		endTime := now + duration
		if endTime < now {
			return reverts.New(reverts.Overflow, "unlock time")
		}
		asset, err := p.asset.Get()
		if err != nil {
			return err
		}

		if err := p.acc.Synchronize(0, now); err != nil {
			return err
		}
		if err := p.custody.TransferIn(asset, caller, amount); err != nil {
			return err
		}
		rps, err := p.acc.RewardPerShare(now)
		if err != nil {
			return err
		}
		if id, err = p.stakes.Add(&stakes.Stake{
			Owner:    caller,
			Amount:   new(uint256.Int).Set(amount),
			Duration: duration,
			EndTime:  endTime,
			Snapshot: rps,
			Accrued:  new(uint256.Int),
		}); err != nil {
			return err
		}
		if err := p.index.Add(caller, id); err != nil {
			return err
		}
		if err := p.acc.Synchronize(id, now); err != nil {
			return err
		}

		p.emit(&Event{
			Kind:    EventDeposited,
			Time:    now,
			StakeID: id,
			Account: caller,
			Amount:  new(uint256.Int).Set(amount),
		})
		return nil
	})
	if err != nil {
		logger.Info("deposit failed", "caller", caller, "error", err)
		return 0, err
	}

	logger.Info("deposited", "id", id, "caller", caller, "amount", amount)
	return id, nil
}

// Withdraw closes the stake, paying its amount and reward less the penalty to the owner.
// The penalty is redistributed to the remaining stakes.
func (p *Pool) Withdraw(caller lockpool.Address, id stakes.ID, now uint64) (*uint256.Int, error) {
	logger.Debug("withdrawing", "caller", caller, "id", id)

	var payout, forfeit *uint256.Int
	err := p.mutate(func() error {
		if err := p.acc.Synchronize(id, now); err != nil {
			return err
		}
		stake, err := p.stakes.Get(id)
		if err != nil {
			return err
		}
		if stake == nil || stake.Owner != caller {
			return reverts.New(reverts.Unauthorized, "caller does not own the stake")
		}
		asset, err := p.asset.Get()
		if err != nil {
			return err
		}

		if err := p.stakes.Remove(id, stake); err != nil {
			return err
		}
		if payout, forfeit, err = penalty.Compute(penalty.ScheduleOf(p.params), penalty.Position{
			Amount:   stake.Amount,
			Accrued:  stake.Accrued,
			Duration: stake.Duration,
			EndTime:  stake.EndTime,
		}, now); err != nil {
			return err
		}
		if !forfeit.IsZero() {
			if err := p.acc.InjectReward(forfeit, now); err != nil {
				return err
			}
		}
		if !payout.IsZero() {
			if err := p.custody.TransferOut(asset, caller, payout); err != nil {
				return err
			}
		}
		if err := p.index.Remove(caller, id); err != nil {
			return err
		}

		p.emit(&Event{
			Kind:    EventWithdrawn,
			Time:    now,
			StakeID: id,
			Account: caller,
			Amount:  payout,
			Penalty: forfeit,
		})
		return nil
	})
	if err != nil {
		logger.Info("withdraw failed", "caller", caller, "id", id, "error", err)
		return nil, err
	}

	logger.Info("withdrew", "id", id, "payout", payout, "penalty", forfeit)
	return payout, nil
}

// ChargeReward pulls amount from the reward funder into the distribution.
func (p *Pool) ChargeReward(caller lockpool.Address, amount *uint256.Int, now uint64) error {
	logger.Debug("charging reward", "caller", caller, "amount", amount)

	err := p.mutate(func() error {
		// amount is checked before the role
		if amount.IsZero() {
			return reverts.New(reverts.ZeroAmount, "")
		}
		if err := p.access.RequireFunder(caller); err != nil {
			return err
		}
		if err := p.rounds.ChargeReward(amount, now); err != nil {
			return err
		}
		asset, err := p.asset.Get()
		if err != nil {
			return err
		}
		if err := p.custody.TransferIn(asset, caller, amount); err != nil {
			return err
		}

		p.emit(&Event{
			Kind:    EventRewardCharged,
			Time:    now,
			Account: caller,
			Amount:  new(uint256.Int).Set(amount),
		})
		return nil
	})
	if err != nil {
		logger.Info("charge reward failed", "caller", caller, "error", err)
		return err
	}

	logger.Info("charged reward", "amount", amount)
	return nil
}

// StartRound begins a distribution round of the pending reward. It returns the number of
// the round started.
func (p *Pool) StartRound(caller lockpool.Address, now uint64) (uint64, error) {
	logger.Debug("starting round", "caller", caller)

	var started uint64
	err := p.mutate(func() error {
		if err := p.access.RequireOwner(caller); err != nil {
			return err
		}
		var (
			rate *uint256.Int
			err  error
		)
		if started, rate, err = p.rounds.StartRound(now); err != nil {
			return err
		}

		p.emit(&Event{
			Kind:    EventRoundStarted,
			Time:    now,
			Account: caller,
			Amount:  rate,
			Round:   started,
		})
		return nil
	})
	if err != nil {
		logger.Info("start round failed", "caller", caller, "error", err)
		return 0, err
	}

	logger.Info("started round", "round", started, "end", now+p.params.RoundDuration)
	return started, nil
}

// SetRewardFunder replaces the account allowed to charge rewards.
func (p *Pool) SetRewardFunder(caller, funder lockpool.Address, now uint64) error {
	err := p.mutate(func() error {
		if err := p.access.RequireOwner(caller); err != nil {
			return err
		}
		if err := p.access.SetFunder(funder); err != nil {
			return err
		}
		p.emit(&Event{Kind: EventFunderChanged, Time: now, Account: funder})
		return nil
	})
	if err != nil {
		logger.Info("set reward funder failed", "caller", caller, "error", err)
		return err
	}

	logger.Info("reward funder changed", "funder", funder)
	return nil
}

// TransferOwnership hands the owner role over.
func (p *Pool) TransferOwnership(caller, owner lockpool.Address, now uint64) error {
	err := p.mutate(func() error {
		if err := p.access.RequireOwner(caller); err != nil {
			return err
		}
		if err := p.access.SetOwner(owner); err != nil {
			return err
		}
		p.emit(&Event{Kind: EventOwnerChanged, Time: now, Account: owner})
		return nil
	})
	if err != nil {
		logger.Info("transfer ownership failed", "caller", caller, "error", err)
		return err
	}

	logger.Info("ownership transferred", "owner", owner)
	return nil
}

// SetPaused blocks or unblocks new deposits.
func (p *Pool) SetPaused(caller lockpool.Address, paused bool, now uint64) error {
	err := p.mutate(func() error {
		if err := p.access.RequireOwner(caller); err != nil {
			return err
		}
		p.access.SetPaused(paused)
		p.emit(&Event{Kind: EventPauseChanged, Time: now, Account: caller})
		return nil
	})
	if err != nil {
		logger.Info("set paused failed", "caller", caller, "error", err)
		return err
	}

	logger.Info("pause changed", "paused", paused)
	return nil
}

// RecoverForeignAsset sends an asset other than the staking asset, sent to the pool by
// mistake, to the owner.
func (p *Pool) RecoverForeignAsset(caller, asset lockpool.Address, amount *uint256.Int, now uint64) error {
	logger.Debug("recovering asset", "caller", caller, "asset", asset, "amount", amount)

	err := p.mutate(func() error {
		if err := p.access.RequireOwner(caller); err != nil {
			return err
		}
		staking, err := p.asset.Get()
		if err != nil {
			return err
		}
		if asset == staking {
			return reverts.New(reverts.ForbiddenAsset, "")
		}
		if amount.IsZero() {
			return reverts.New(reverts.ZeroAmount, "")
		}
		if err := p.custody.TransferOut(asset, caller, amount); err != nil {
			return err
		}
		p.emit(&Event{
			Kind:    EventAssetRecovered,
			Time:    now,
			Account: caller,
			Asset:   asset,
			Amount:  new(uint256.Int).Set(amount),
		})
		return nil
	})
	if err != nil {
		logger.Info("recover asset failed", "caller", caller, "error", err)
		return err
	}

	logger.Info("recovered asset", "asset", asset, "amount", amount)
	return nil
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger serves a staking pool: it serializes every call, commits the state of
// successful operations to the kv store and records their events in the event log.
package ledger

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/lockpool/lockpool/builtin"
	"github.com/lockpool/lockpool/builtin/pool"
	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/pool/stakes"
	"github.com/lockpool/lockpool/co"
	"github.com/lockpool/lockpool/genesis"
	"github.com/lockpool/lockpool/kv"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/log"
	"github.com/lockpool/lockpool/logdb"
	"github.com/lockpool/lockpool/state"
)

var logger = log.WithContext("pkg", "ledger")

// ErrEventLogDisabled is returned by event queries of a ledger without event log.
var ErrEventLogDisabled = errors.New("event log disabled")

var (
	stateBucket = kv.Bucket("s")
	metaBucket  = kv.Bucket("m")

	lastTimeKey = []byte("last-time")
)

// Clock returns the current time in seconds.
type Clock func() uint64

// SystemClock reads unix time.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

// Ledger owns a pool with its state and event log. It is safe for concurrent use.
type Ledger struct {
	mu       sync.Mutex
	meta     kv.Store
	state    *state.State
	pool     *pool.Pool
	logDB    *logdb.LogDB
	clock    Clock
	lastTime uint64
	asset    lockpool.Address

	eventFeed co.Signal
}

// New opens the pool described by gen on store, building the genesis state if the
// store is empty. A nil clock means SystemClock.
func New(store kv.Store, logDB *logdb.LogDB, gen *genesis.Genesis, clock Clock) (*Ledger, error) {
	if clock == nil {
		clock = SystemClock
	}
	meta := metaBucket.NewStore(store)
	lastTime, err := loadLastTime(meta)
	if err != nil {
		return nil, err
	}
	st := state.New(stateBucket.NewStore(store))
	binding := builtin.Pool.At(gen.PoolAddress())

	p, err := binding.WithState(st)
	if err != nil {
		return nil, err
	}
	initialized, err := p.IsInitialized()
	if err != nil {
		return nil, err
	}
	if !initialized {
		if err := gen.Build(st); err != nil {
			return nil, errors.WithMessage(err, "build genesis")
		}
		changes := st.Stage()
		if err := changes.Commit(); err != nil {
			return nil, errors.Wrap(err, "commit genesis")
		}
		logger.Info("genesis applied", "pool", gen.PoolAddress(), "slots", changes.Len())

		// reload, params are pinned by the genesis
		if p, err = binding.WithState(st); err != nil {
			return nil, err
		}
	}
	asset, err := p.Asset()
	if err != nil {
		return nil, err
	}
	if asset != gen.Asset {
		logger.Warn("staking asset differs from genesis", "stored", asset, "genesis", gen.Asset)
	}

	l := &Ledger{
		meta:     meta,
		state:    st,
		pool:     p,
		logDB:    logDB,
		clock:    clock,
		lastTime: lastTime,
		asset:    asset,
	}
	l.updateGauges(l.now())
	return l, nil
}

func loadLastTime(meta kv.Getter) (uint64, error) {
	data, err := meta.Get(lastTimeKey)
	if err != nil {
		if meta.IsNotFound(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "load last time")
	}
	if len(data) != 8 {
		return 0, errors.Errorf("corrupted last time: %x", data)
	}
	return binary.BigEndian.Uint64(data), nil
}

// now returns the clock time, never earlier than a time already used,
// including by a previous run on the same store.
func (l *Ledger) now() uint64 {
	t := l.clock()
	if t < l.lastTime {
		t = l.lastTime
	}
	l.lastTime = t
	return t
}

// execute runs op under the lock and commits its effects if it succeeds.
func (l *Ledger) execute(name string, op func(now uint64) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	now := l.now()

	checkpoint := l.state.NewCheckpoint()
	err := op(now)
	if err == nil {
		if err = l.commit(); err != nil {
			l.state.RevertTo(checkpoint)
			l.pool.TakeEvents()
		}
	} else {
		l.state.RevertTo(checkpoint)
	}
	metricsHandleOp(name, err, time.Since(start))
	if err == nil {
		l.updateGauges(now)
	}
	return err
}

func (l *Ledger) commit() error {
	events := l.pool.TakeEvents()
	if err := l.state.Stage().Commit(); err != nil {
		return errors.WithMessage(err, "commit state")
	}
	var enc [8]byte
	binary.BigEndian.PutUint64(enc[:], l.lastTime)
	if err := l.meta.Put(lastTimeKey, enc[:]); err != nil {
		logger.Warn("failed to save last time", "err", err)
	}
	if l.logDB == nil || len(events) == 0 {
		return nil
	}

	records := make([]*logdb.Event, 0, len(events))
	for _, ev := range events {
		records = append(records, l.record(ev))
	}
	// the state is durable at this point, a failed log write loses the records only
	w := l.logDB.NewWriter()
	if err := w.Write(records); err != nil {
		logger.Error("failed to write events", "count", len(records), "err", err)
		metricEventWriteErrors().Add(1)
		_ = w.Rollback()
		return nil
	}
	if err := w.Commit(); err != nil {
		logger.Error("failed to commit events", "count", len(records), "err", err)
		metricEventWriteErrors().Add(1)
		return nil
	}
	l.eventFeed.Broadcast()
	return nil
}

func (l *Ledger) record(ev *pool.Event) *logdb.Event {
	asset := ev.Asset
	if asset.IsZero() {
		asset = l.asset
	}
	round := ev.Round
	if round == 0 {
		if r, err := l.pool.Round(); err == nil {
			// counter points at the next round, events belong to the last started one
			round = r - 1
		}
	}
	return &logdb.Event{
		Kind:    string(ev.Kind),
		Time:    ev.Time,
		Round:   round,
		StakeID: uint64(ev.StakeID),
		Account: ev.Account,
		Asset:   asset,
		Amount:  ev.Amount,
		Penalty: ev.Penalty,
	}
}

func (l *Ledger) updateGauges(now uint64) {
	sum, err := l.pool.Summary(now)
	if err != nil {
		logger.Warn("failed to read pool summary", "err", err)
		return
	}
	metricTotalStaked().Set(clampInt64(sum.TotalStaked))
	metricRewardRate().Set(clampInt64(sum.RewardRate))
	metricPendingReward().Set(clampInt64(sum.PendingReward))
	metricRound().Set(int64(sum.Round))

	changed, hit, miss := l.state.CacheStats().Stats()
	metricStateCache().SetWithLabel(hit, map[string]string{"event": "hit"})
	metricStateCache().SetWithLabel(miss, map[string]string{"event": "miss"})
	if changed {
		logger.Debug("state cache stats", "hit", hit, "miss", miss)
	}
}

// read runs fn under the lock at the current time.
func (l *Ledger) read(fn func(now uint64) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.now())
}

//
// Operations
//

func (l *Ledger) Deposit(caller lockpool.Address, amount *uint256.Int, duration uint64) (id stakes.ID, err error) {
	err = l.execute("deposit", func(now uint64) error {
		id, err = l.pool.Deposit(caller, amount, duration, now)
		return err
	})
	return
}

func (l *Ledger) Withdraw(caller lockpool.Address, id stakes.ID) (payout *uint256.Int, err error) {
	err = l.execute("withdraw", func(now uint64) error {
		payout, err = l.pool.Withdraw(caller, id, now)
		return err
	})
	return
}

func (l *Ledger) ChargeReward(caller lockpool.Address, amount *uint256.Int) error {
	return l.execute("charge_reward", func(now uint64) error {
		return l.pool.ChargeReward(caller, amount, now)
	})
}

func (l *Ledger) StartRound(caller lockpool.Address) (round uint64, err error) {
	err = l.execute("start_round", func(now uint64) error {
		round, err = l.pool.StartRound(caller, now)
		return err
	})
	return
}

func (l *Ledger) SetRewardFunder(caller, funder lockpool.Address) error {
	return l.execute("set_reward_funder", func(now uint64) error {
		return l.pool.SetRewardFunder(caller, funder, now)
	})
}

func (l *Ledger) TransferOwnership(caller, owner lockpool.Address) error {
	return l.execute("transfer_ownership", func(now uint64) error {
		return l.pool.TransferOwnership(caller, owner, now)
	})
}

func (l *Ledger) SetPaused(caller lockpool.Address, paused bool) error {
	return l.execute("set_paused", func(now uint64) error {
		return l.pool.SetPaused(caller, paused, now)
	})
}

func (l *Ledger) RecoverForeignAsset(caller, asset lockpool.Address, amount *uint256.Int) error {
	return l.execute("recover_asset", func(now uint64) error {
		return l.pool.RecoverForeignAsset(caller, asset, amount, now)
	})
}

// Approve sets the allowance of spender on the owner's asset balance.
// The pool's custody can only move through pool operations.
func (l *Ledger) Approve(asset, owner, spender lockpool.Address, amount *uint256.Int) error {
	return l.execute("approve", func(uint64) error {
		if owner == l.pool.Address() {
			return reverts.New(reverts.Unauthorized, "pool custody")
		}
		return builtin.Token.WithState(asset, l.state).Approve(owner, spender, amount)
	})
}

func (l *Ledger) Transfer(asset, from, to lockpool.Address, amount *uint256.Int) error {
	return l.execute("transfer", func(uint64) error {
		if from == l.pool.Address() {
			return reverts.New(reverts.Unauthorized, "pool custody")
		}
		return builtin.Token.WithState(asset, l.state).Transfer(from, to, amount)
	})
}

//
// Queries
//

// Pool returns the pool address.
func (l *Ledger) Pool() lockpool.Address {
	return l.pool.Address()
}

func (l *Ledger) Summary() (sum *pool.Summary, err error) {
	err = l.read(func(now uint64) error {
		sum, err = l.pool.Summary(now)
		return err
	})
	return
}

// StakeInfo is a stake with its reward and withdrawal outcome as of Time.
type StakeInfo struct {
	ID      stakes.ID
	Stake   *stakes.Stake
	Time    uint64
	Earned  *uint256.Int
	Payout  *uint256.Int
	Penalty *uint256.Int
}

func (l *Ledger) Stake(id stakes.ID) (info *StakeInfo, err error) {
	err = l.read(func(now uint64) error {
		info, err = l.stakeInfo(id, now)
		return err
	})
	return
}

func (l *Ledger) stakeInfo(id stakes.ID, now uint64) (*StakeInfo, error) {
	stake, err := l.pool.GetStake(id)
	if err != nil {
		return nil, err
	}
	earned, err := l.pool.Earned(id, now)
	if err != nil {
		return nil, err
	}
	payout, penalty, err := l.pool.Preview(id, now)
	if err != nil {
		return nil, err
	}
	return &StakeInfo{
		ID:      id,
		Stake:   stake,
		Time:    now,
		Earned:  earned,
		Payout:  payout,
		Penalty: penalty,
	}, nil
}

// StakesOf returns the account's stakes in creation order.
func (l *Ledger) StakesOf(account lockpool.Address) (infos []*StakeInfo, err error) {
	err = l.read(func(now uint64) error {
		ids, err := l.pool.StakesOf(account)
		if err != nil {
			return err
		}
		infos = make([]*StakeInfo, 0, len(ids))
		for _, id := range ids {
			info, err := l.stakeInfo(id, now)
			if err != nil {
				return err
			}
			infos = append(infos, info)
		}
		return nil
	})
	return
}

// Balance returns the asset balance and the allowance granted to the pool.
func (l *Ledger) Balance(asset, account lockpool.Address) (balance, allowance *uint256.Int, err error) {
	err = l.read(func(uint64) error {
		tok := builtin.Token.WithState(asset, l.state)
		if balance, err = tok.BalanceOf(account); err != nil {
			return err
		}
		allowance, err = tok.Allowance(account, l.pool.Address())
		return err
	})
	return
}

// FilterEvents queries the event log.
func (l *Ledger) FilterEvents(ctx context.Context, filter *logdb.EventFilter) ([]*logdb.Event, error) {
	if l.logDB == nil {
		return nil, ErrEventLogDisabled
	}
	return l.logDB.FilterEvents(ctx, filter)
}

// LastEventSeq returns the seq of the newest recorded event.
func (l *Ledger) LastEventSeq(ctx context.Context) (uint64, error) {
	if l.logDB == nil {
		return 0, ErrEventLogDisabled
	}
	return l.logDB.LastSeq(ctx)
}

// NewEventWaiter returns a waiter woken once events of a later operation are recorded.
func (l *Ledger) NewEventWaiter() co.Waiter {
	return l.eventFeed.NewWaiter()
}

// Health checks the store and the event log are readable.
func (l *Ledger) Health(ctx context.Context) error {
	if err := l.read(func(uint64) error {
		_, err := l.pool.IsInitialized()
		return err
	}); err != nil {
		return errors.WithMessage(err, "state")
	}
	// state reads may be served by the cache, probe the store itself
	if _, err := l.meta.Has(lastTimeKey); err != nil {
		return errors.Wrap(err, "store")
	}
	if l.logDB != nil {
		if err := l.logDB.Ping(ctx); err != nil {
			return errors.WithMessage(err, "event log")
		}
	}
	return nil
}

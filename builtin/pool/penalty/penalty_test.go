// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package penalty

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/lockpool"
)

var testSchedule = Schedule{EarlyGrace: 10, LateGrace: 14, LateScale: 700}

func pos(amount, accrued uint64, start, duration uint64) Position {
	return Position{
		Amount:   uint256.NewInt(amount),
		Accrued:  uint256.NewInt(accrued),
		Duration: duration,
		EndTime:  start + duration,
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		position Position
		now      uint64
		payout   uint64
		penalty  uint64
	}{
		{"within penalty window", testSchedule, pos(100, 0, 0, 150), 55, 0, 100},
		{"window equals staked time", testSchedule, pos(100, 0, 0, 150), 75, 0, 100},
		{"partial early penalty", testSchedule, pos(1000, 0, 0, 200), 160, 375, 625},
		{"accrued counts", testSchedule, pos(600, 400, 0, 200), 160, 375, 625},
		{"nothing staked yet", testSchedule, pos(1000, 0, 100, 50), 100, 0, 1000},
		{"early grace dominates", Schedule{EarlyGrace: 90, LateGrace: 14, LateScale: 700}, pos(1000, 0, 0, 100), 95, 53, 947},
		{"odd duration rounds window up", testSchedule, pos(1000, 0, 0, 21), 12, 84, 916},
		{"on time", testSchedule, pos(1000, 0, 0, 200), 200, 1000, 0},
		{"end of late grace", testSchedule, pos(1000, 0, 0, 200), 214, 1000, 0},
		{"late", testSchedule, pos(1000, 0, 0, 200), 284, 900, 100},
		{"late saturated", testSchedule, pos(1000, 0, 0, 200), 914, 0, 1000},
		{"late clamped", testSchedule, pos(1000, 0, 0, 200), 100000, 0, 1000},
		{"zero amount", testSchedule, pos(0, 0, 0, 200), 160, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payout, penalty, err := Compute(tt.schedule, tt.position, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.payout, payout.Uint64(), "payout")
			assert.Equal(t, tt.penalty, penalty.Uint64(), "penalty")
		})
	}
}

func TestComputeConservesAmount(t *testing.T) {
	p := pos(123456789, 987654321, 1000, 5000)
	for now := uint64(900); now < 20000; now += 97 {
		payout, penalty, err := Compute(testSchedule, p, now)
		require.NoError(t, err)

		total := new(uint256.Int).Add(payout, penalty)
		assert.Equal(t, uint64(123456789+987654321), total.Uint64(), "now=%d", now)
	}
}

func TestComputeOverflow(t *testing.T) {
	maxU := new(uint256.Int).SetAllOne()

	_, _, err := Compute(testSchedule, Position{
		Amount:   maxU,
		Accrued:  uint256.NewInt(1),
		Duration: 10,
		EndTime:  10,
	}, 5)
	assert.True(t, reverts.Is(err, reverts.Overflow))

	// late penalty saturates instead of failing
	payout, penalty, err := Compute(Schedule{LateScale: 1}, Position{
		Amount:   maxU,
		Accrued:  new(uint256.Int),
		Duration: 10,
		EndTime:  10,
	}, math.MaxUint64)
	require.NoError(t, err)
	assert.True(t, payout.IsZero())
	assert.Equal(t, maxU, penalty)

	// max duration
	payout, penalty, err = Compute(testSchedule, Position{
		Amount:   uint256.NewInt(7),
		Accrued:  new(uint256.Int),
		Duration: math.MaxUint64,
		EndTime:  math.MaxUint64,
	}, 1)
	require.NoError(t, err)
	assert.True(t, payout.IsZero())
	assert.Equal(t, uint64(7), penalty.Uint64())
}

func TestScheduleOf(t *testing.T) {
	s := ScheduleOf(lockpool.DefaultParams())
	assert.Equal(t, lockpool.DefaultEarlyGrace, s.EarlyGrace)
	assert.Equal(t, lockpool.DefaultLateGrace, s.LateGrace)
	assert.Equal(t, lockpool.DefaultLateScale, s.LateScale)
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math"
	"time"

	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/metrics"
)

var (
	metricOpCount          = metrics.LazyLoadCounterVec("ledger_op_count", []string{"op", "result"})
	metricOpDuration       = metrics.LazyLoadHistogramVec("ledger_op_duration_us", []string{"op"}, metrics.BucketOpMicros)
	metricEventWriteErrors = metrics.LazyLoadCounter("ledger_event_write_errors")
	metricTotalStaked      = metrics.LazyLoadGauge("ledger_total_staked")
	metricRewardRate       = metrics.LazyLoadGauge("ledger_reward_rate")
	metricPendingReward    = metrics.LazyLoadGauge("ledger_pending_reward")
	metricRound            = metrics.LazyLoadGauge("ledger_round")
	metricStateCache       = metrics.LazyLoadGaugeVec("ledger_state_cache_count", []string{"event"})
)

func metricsHandleOp(op string, err error, elapsed time.Duration) {
	if metrics.NoOp() {
		return
	}
	result := "ok"
	if err != nil {
		if revert, ok := reverts.As(err); ok {
			result = string(revert.Kind())
		} else {
			result = "error"
		}
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
	metricOpDuration().ObserveWithLabels(elapsed.Microseconds(), map[string]string{"op": op})
}

// gauges are int64, larger amounts are reported as the max value
func clampInt64(v *uint256.Int) int64 {
	if v == nil {
		return 0
	}
	if !v.IsUint64() || v.Uint64() > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v.Uint64())
}

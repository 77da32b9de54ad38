// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/api/events"
	"github.com/lockpool/lockpool/builtin/pool"
	"github.com/lockpool/lockpool/logdb"
	"github.com/lockpool/lockpool/test/testpool"
)

const limit = 5

func newServer(t *testing.T) (*httptest.Server, *testpool.Env) {
	env := testpool.New(t)
	router := mux.NewRouter()
	events.New(env.Ledger, limit).Mount(router, "/logs/events")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, env
}

func filter(t *testing.T, ts *httptest.Server, body any) ([]byte, int) {
	var data []byte
	switch b := body.(type) {
	case string:
		data = []byte(b)
	default:
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	res, err := http.Post(ts.URL+"/logs/events", "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func decode(t *testing.T, body []byte) []*events.FilteredEvent {
	var fes []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(body, &fes))
	return fes
}

func ptr[T any](v T) *T { return &v }

func TestFilter(t *testing.T) {
	ts, env := newServer(t)
	alice, bob := env.Stakers[0], env.Stakers[1]

	env.Clock.Set(10)
	require.NoError(t, env.Ledger.ChargeReward(env.Funder, uint256.NewInt(1000)))
	_, err := env.Ledger.StartRound(env.Owner)
	require.NoError(t, err)
	env.Clock.Set(20)
	aliceID, err := env.Ledger.Deposit(alice, uint256.NewInt(100), 50)
	require.NoError(t, err)
	env.Clock.Set(30)
	_, err = env.Ledger.Deposit(bob, uint256.NewInt(300), 50)
	require.NoError(t, err)
	env.Clock.Set(80)
	_, err = env.Ledger.Withdraw(alice, aliceID)
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		body, code := filter(t, ts, events.EventFilter{})
		require.Equal(t, http.StatusOK, code, string(body))
		fes := decode(t, body)
		require.Len(t, fes, 5)
		kinds := make([]string, len(fes))
		for i, fe := range fes {
			kinds[i] = fe.Kind
		}
		assert.Equal(t, []string{
			string(pool.EventRewardCharged),
			string(pool.EventRoundStarted),
			string(pool.EventDeposited),
			string(pool.EventDeposited),
			string(pool.EventWithdrawn),
		}, kinds)
		assert.Equal(t, env.Asset, fes[2].Asset)
		assert.Equal(t, "100", fes[2].Amount.Int().Dec())
	})

	t.Run("criteria", func(t *testing.T) {
		body, code := filter(t, ts, events.EventFilter{
			CriteriaSet: []*events.EventCriteria{{Account: &alice}},
			Order:       logdb.DESC,
		})
		require.Equal(t, http.StatusOK, code, string(body))
		fes := decode(t, body)
		require.Len(t, fes, 2)
		assert.Equal(t, string(pool.EventWithdrawn), fes[0].Kind)
		assert.Equal(t, uint64(aliceID), fes[0].StakeID)
		assert.Equal(t, uint64(80), fes[0].Time)

		body, code = filter(t, ts, events.EventFilter{
			CriteriaSet: []*events.EventCriteria{
				{Kind: ptr(string(pool.EventRoundStarted))},
				{StakeID: ptr(uint64(aliceID)), Kind: ptr(string(pool.EventDeposited))},
			},
		})
		require.Equal(t, http.StatusOK, code, string(body))
		assert.Len(t, decode(t, body), 2)
	})

	t.Run("range", func(t *testing.T) {
		body, code := filter(t, ts, events.EventFilter{Range: &events.Range{From: ptr(uint64(20)), To: ptr(uint64(30))}})
		require.Equal(t, http.StatusOK, code, string(body))
		assert.Len(t, decode(t, body), 2)

		body, code = filter(t, ts, events.EventFilter{Range: &events.Range{From: ptr(uint64(30))}})
		require.Equal(t, http.StatusOK, code, string(body))
		assert.Len(t, decode(t, body), 2)
	})

	t.Run("pagination", func(t *testing.T) {
		body, code := filter(t, ts, events.EventFilter{Options: &events.Options{Offset: 3, Limit: 5}})
		require.Equal(t, http.StatusOK, code, string(body))
		fes := decode(t, body)
		require.Len(t, fes, 2)
		assert.Equal(t, string(pool.EventDeposited), fes[0].Kind)
	})

	t.Run("limit", func(t *testing.T) {
		_, code := filter(t, ts, events.EventFilter{Options: &events.Options{Limit: limit + 1}})
		assert.Equal(t, http.StatusForbidden, code)

		// one more event and the default limit is exceeded
		require.NoError(t, env.Ledger.ChargeReward(env.Funder, uint256.NewInt(1)))
		_, code = filter(t, ts, events.EventFilter{})
		assert.Equal(t, http.StatusForbidden, code)

		body, code := filter(t, ts, events.EventFilter{Options: &events.Options{Limit: limit}})
		require.Equal(t, http.StatusOK, code, string(body))
		assert.Len(t, decode(t, body), limit)
	})
}

func TestBadFilter(t *testing.T) {
	ts, _ := newServer(t)

	for _, tt := range []struct {
		name string
		body any
	}{
		{"malformed", "{"},
		{"unknown field", `{"criteria":[]}`},
		{"null criteria", `{"criteriaSet":[null]}`},
		{"reversed range", events.EventFilter{Range: &events.Range{From: ptr(uint64(2)), To: ptr(uint64(1))}}},
		{"offset", events.EventFilter{Options: &events.Options{Offset: 1 << 63, Limit: 1}}},
		{"order", events.EventFilter{Order: "sideways"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, code := filter(t, ts, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
		})
	}
}

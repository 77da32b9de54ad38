// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type healthy struct{}

func (healthy) Health(context.Context) error { return nil }

func TestAdminRoutes(t *testing.T) {
	var (
		level   slog.LevelVar
		apiLogs atomic.Bool
	)
	ts := httptest.NewServer(New(&level, &apiLogs, healthy{}))
	defer ts.Close()

	for _, path := range []string{"/admin/loglevel", "/admin/apilogs", "/admin/health"} {
		res, err := http.Get(ts.URL + path)
		assert.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
	}

	res, err := http.Post(ts.URL+"/admin/apilogs", "application/json", strings.NewReader(`{"enabled":true}`))
	assert.NoError(t, err)
	res.Body.Close()
	assert.True(t, apiLogs.Load())

	res, err = http.Get(ts.URL + "/admin/unknown")
	assert.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

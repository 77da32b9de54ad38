// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/log"
)

func TestLogLevel(t *testing.T) {
	var level slog.LevelVar
	level.Set(log.LevelInfo)
	router := mux.NewRouter()
	New(&level).Mount(router, "/admin/loglevel")

	tests := []struct {
		name   string
		method string
		body   string
		status int
		want   string // expected current level, or error text
	}{
		{"get", http.MethodGet, "", http.StatusOK, "info"},
		{"set debug", http.MethodPost, `{"level":"debug"}`, http.StatusOK, "debug"},
		{"set trace", http.MethodPost, `{"level":"trace"}`, http.StatusOK, "trace"},
		{"set crit", http.MethodPost, `{"level":"crit"}`, http.StatusOK, "crit"},
		{"unknown level", http.MethodPost, `{"level":"loud"}`, http.StatusBadRequest, "Invalid verbosity level"},
		{"bad body", http.MethodPost, `{"lvl":"info"}`, http.StatusBadRequest, "Invalid request body"},
		{"get after failures", http.MethodGet, "", http.StatusOK, "crit"},
		{"wrong method", http.MethodPut, `{"level":"info"}`, http.StatusMethodNotAllowed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, "/admin/loglevel", strings.NewReader(tt.body)))
			require.Equal(t, tt.status, rr.Code)

			switch tt.status {
			case http.StatusOK:
				var resp Response
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.want, resp.CurrentLevel)
				assert.Equal(t, tt.want, log.LevelString(level.Level()))
			case http.StatusBadRequest:
				assert.Contains(t, rr.Body.String(), tt.want)
			}
		})
	}
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/log"
)

func respond(status int, delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(delay)
		w.WriteHeader(status)
	}
}

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		slow      time.Duration
		log5xx    bool
		shouldLog bool
	}{
		{"enabled", respond(http.StatusOK, 0), true, 0, false, true},
		{"disabled", respond(http.StatusOK, 0), false, 0, false, false},
		{"slow request", respond(http.StatusOK, 15*time.Millisecond), false, 10 * time.Millisecond, false, true},
		{"fast request", respond(http.StatusOK, 0), false, time.Second, false, false},
		{"internal error", respond(http.StatusInternalServerError, 0), false, 0, true, true},
		{"unavailable", respond(http.StatusServiceUnavailable, 0), false, 0, true, true},
		{"5xx not logged", respond(http.StatusInternalServerError, 0), false, 0, false, false},
		{"revert is not 5xx", respond(http.StatusConflict, 0), false, 0, true, false},
		{"implicit ok", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("{}")) }, false, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := new(bytes.Buffer)
			logger := log.NewLogger(log.LogfmtHandlerWithLevel(out, new(slog.LevelVar)))
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(logger, &enabled, tt.slow, tt.log5xx)(tt.handler)
			body := `{"caller":"0x01","amount":"0x64"}`
			req := httptest.NewRequest(http.MethodPost, "/pool/stakes", strings.NewReader(body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			line := out.String()
			if !tt.shouldLog {
				assert.Empty(t, line)
				return
			}
			assert.Contains(t, line, "URI=/pool/stakes")
			assert.Contains(t, line, "Method=POST")
			assert.Contains(t, line, "Status="+strconv.Itoa(rr.Code))
			assert.Contains(t, line, `"amount\":\"0x64\"`)
			assert.Contains(t, line, "Timestamp=")
		})
	}
}

func TestRequestLoggerKeepsBody(t *testing.T) {
	var enabled atomic.Bool
	enabled.Store(true)
	logger := log.NewLogger(log.DiscardHandler())

	var seen string
	handler := RequestLoggerMiddleware(logger, &enabled, 0, false)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = string(data)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("payload")))
	assert.Equal(t, "payload", seen)
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"log/slog"
	"sync/atomic"

	"github.com/lockpool/lockpool/api/admin"
	"github.com/lockpool/lockpool/api/admin/health"
)

func StartAdminServer(addr string, logLevel *slog.LevelVar, apiLogs *atomic.Bool, checker health.Checker) (string, func(), error) {
	bound, stop, err := serve(addr, "admin API", admin.New(logLevel, apiLogs, checker), 0)
	if err != nil {
		return "", nil, err
	}
	return "http://" + bound + "/admin", stop, nil
}

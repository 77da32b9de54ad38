// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net/http"
	"time"
)

// StartAPIServer serves the ledger API. A zero timeout means no write timeout.
func StartAPIServer(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	bound, stop, err := serve(addr, "API", handler, timeout)
	if err != nil {
		return "", nil, err
	}
	return "http://" + bound + "/", stop, nil
}

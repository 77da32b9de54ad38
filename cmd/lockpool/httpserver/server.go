// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/lockpool/lockpool/co"
)

// serve starts an http server on addr and returns the bound address with a stop func.
func serve(addr, name string, handler http.Handler, writeTimeout time.Duration) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen %v addr [%v]", name, addr)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      writeTimeout,
	}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return listener.Addr().String(), func() {
		srv.Close()
		goes.Wait()
	}, nil
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides a channel to wait for. It is closed on broadcast.
type Waiter interface {
	C() <-chan struct{}
}

// Signal is a channel based rendezvous point, waiters can select on it
// together with other channels. The zero value is ready to use.
type Signal struct {
	l  sync.Mutex
	ch chan struct{}
}

func (s *Signal) init() {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
}

// Broadcast wakes all waiters created before the call.
func (s *Signal) Broadcast() {
	s.l.Lock()
	defer s.l.Unlock()

	s.init()
	close(s.ch)
	s.ch = make(chan struct{})
}

// NewWaiter creates a waiter woken by the next broadcast.
func (s *Signal) NewWaiter() Waiter {
	s.l.Lock()
	defer s.l.Unlock()

	s.init()
	return waiter(s.ch)
}

type waiter chan struct{}

func (w waiter) C() <-chan struct{} {
	return w
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	var (
		goes  Goes
		count atomic.Int32
		gate  = make(chan struct{})
	)
	for range 3 {
		goes.Go(func() {
			<-gate
			count.Add(1)
		})
	}
	assert.Equal(t, int32(0), count.Load())

	close(gate)
	goes.Wait()
	assert.Equal(t, int32(3), count.Load())
}

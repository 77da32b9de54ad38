// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(Unauthorized, "caller is not the funder")
	assert.Equal(t, "unauthorized: caller is not the funder", revert.Error())
	assert.Equal(t, Unauthorized, revert.Kind())
	assert.Equal(t, "zero amount", New(ZeroAmount, "").Error())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))

	wrapped := errors.WithMessage(revert, "withdraw")
	assert.True(t, IsRevertErr(wrapped))
	assert.True(t, Is(wrapped, Unauthorized))
	assert.False(t, Is(wrapped, Paused))
	assert.False(t, Is(nil, Paused))
}

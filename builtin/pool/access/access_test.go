// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockpool/lockpool/builtin/pool/reverts"
	"github.com/lockpool/lockpool/builtin/solidity"
	"github.com/lockpool/lockpool/lockpool"
	"github.com/lockpool/lockpool/lvldb"
	"github.com/lockpool/lockpool/state"
)

var (
	alice = lockpool.BytesToAddress([]byte("alice"))
	bob   = lockpool.BytesToAddress([]byte("bob"))
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(lockpool.BytesToAddress([]byte("pool")), state.New(db)))
}

func TestRoles(t *testing.T) {
	svc := newService(t)

	// nobody holds a role before initialization
	assert.True(t, reverts.Is(svc.RequireOwner(lockpool.Address{}), reverts.Unauthorized))
	assert.True(t, reverts.Is(svc.RequireFunder(lockpool.Address{}), reverts.Unauthorized))

	require.NoError(t, svc.SetOwner(alice))
	require.NoError(t, svc.SetFunder(bob))

	assert.NoError(t, svc.RequireOwner(alice))
	assert.True(t, reverts.Is(svc.RequireOwner(bob), reverts.Unauthorized))
	assert.NoError(t, svc.RequireFunder(bob))
	assert.True(t, reverts.Is(svc.RequireFunder(alice), reverts.Unauthorized))

	owner, err := svc.Owner()
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	funder, err := svc.Funder()
	require.NoError(t, err)
	assert.Equal(t, bob, funder)

	assert.True(t, reverts.Is(svc.SetOwner(lockpool.Address{}), reverts.InvalidInput))
	assert.True(t, reverts.Is(svc.SetFunder(lockpool.Address{}), reverts.InvalidInput))
}

func TestPause(t *testing.T) {
	svc := newService(t)
	assert.NoError(t, svc.RequireNotPaused())

	svc.SetPaused(true)
	paused, err := svc.IsPaused()
	require.NoError(t, err)
	assert.True(t, paused)
	assert.True(t, reverts.Is(svc.RequireNotPaused(), reverts.Paused))

	svc.SetPaused(false)
	assert.NoError(t, svc.RequireNotPaused())
}

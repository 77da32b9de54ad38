// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/lockpool/lockpool/lockpool"
)

// DevAccount account for development.
type DevAccount struct {
	Name    string
	Address lockpool.Address
}

// DevAsset is the staking asset of the dev pool.
var DevAsset = lockpool.BytesToAddress([]byte("LCK"))

var devAccounts = sync.OnceValue(func() []DevAccount {
	keys := []struct{ name, key string }{
		{"owner", "dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65"},
		{"funder", "321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51"},
		{"alice", "2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2"},
		{"bob", "593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e"},
		{"carol", "ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058"},
	}
	accs := make([]DevAccount, 0, len(keys))
	for _, k := range keys {
		pk, err := crypto.HexToECDSA(k.key)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{k.name, lockpool.Address(crypto.PubkeyToAddress(pk.PublicKey))})
	}
	return accs
})

// DevAccounts returns the pre-funded accounts of the dev pool.
// The first is the owner and the second the reward funder.
func DevAccounts() []DevAccount {
	return devAccounts()
}

// NewDevnet creates the genesis of a dev pool with short rounds.
func NewDevnet() *Genesis {
	accs := DevAccounts()

	roundDuration := lockpool.Hour
	earlyGrace := 10 * lockpool.Minute
	gen := &Genesis{
		Asset:  DevAsset,
		Owner:  accs[0].Address,
		Funder: accs[1].Address,
		Params: Params{
			RoundDuration: &roundDuration,
			EarlyGrace:    &earlyGrace,
		},
	}
	// 1M tokens of 18 decimals each
	balance := new(uint256.Int).Mul(uint256.NewInt(1_000_000), uint256.NewInt(1e18))
	for _, acc := range accs {
		gen.Allocations = append(gen.Allocations, Allocation{
			Account:     acc.Address,
			Amount:      (*HexOrDecimal256)(balance.Clone()),
			ApprovePool: true,
		})
	}
	return gen
}

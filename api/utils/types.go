// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/lockpool/lockpool/lockpool"
)

// Amount is a 256 bit unsigned integer, JSON encoded as a decimal string.
// Hex strings with the 0x prefix are accepted when decoding.
type Amount uint256.Int

func NewAmount(v *uint256.Int) *Amount {
	if v == nil {
		return (*Amount)(new(uint256.Int))
	}
	return (*Amount)(v.Clone())
}

func (a *Amount) Int() *uint256.Int {
	return (*uint256.Int)(a)
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Int().Dec())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("amount must be a string")
	}
	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = uint256.FromHex(s)
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return errors.Wrapf(err, "invalid amount %q", s)
	}
	*a = Amount(*v)
	return nil
}

// RequireAmount returns the amount or a bad request error if it is missing.
func RequireAmount(a *Amount, name string) (*uint256.Int, error) {
	if a == nil {
		return nil, BadRequest(errors.Errorf("%s: required", name))
	}
	return a.Int(), nil
}

// RequireAddress returns the address or a bad request error if it is missing.
func RequireAddress(addr *lockpool.Address, name string) (lockpool.Address, error) {
	if addr == nil {
		return lockpool.Address{}, BadRequest(errors.Errorf("%s: required", name))
	}
	return *addr, nil
}

// ParseAddress parses a path or query address.
func ParseAddress(s, name string) (lockpool.Address, error) {
	addr, err := lockpool.ParseAddress(s)
	if err != nil {
		return lockpool.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// ParseUint64 parses a path or query integer.
func ParseUint64(s, name string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

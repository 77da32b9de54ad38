// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a revert.
type Kind string

const (
	Unauthorized          Kind = "unauthorized"
	ZeroAmount            Kind = "zero amount"
	InvalidInput          Kind = "invalid input"
	RoundActive           Kind = "round active"
	ForbiddenAsset        Kind = "forbidden asset"
	Paused                Kind = "paused"
	Reentrant             Kind = "reentrant call"
	Overflow              Kind = "overflow"
	InsufficientBalance   Kind = "insufficient balance"
	InsufficientAllowance Kind = "insufficient allowance"
	StakeNotFound         Kind = "stake not found"
)

// ErrRevert aborts an operation with no effect.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return string(e.kind)
	}
	return string(e.kind) + ": " + e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	_, ok := As(err)
	return ok
}

// As finds the first revert in the error chain.
func As(err any) (*ErrRevert, bool) {
	if err == nil {
		return nil, false
	}
	e, ok := err.(error)
	if !ok {
		return nil, false
	}
	var ve *ErrRevert
	if errors.As(e, &ve) {
		return ve, true
	}
	return nil, false
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	ve, ok := As(err)
	return ok && ve.kind == kind
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/lockpool/lockpool/api/utils"
	"github.com/lockpool/lockpool/ledger"
	"github.com/lockpool/lockpool/lockpool"
)

type Account struct {
	Balance *utils.Amount `json:"balance"`
	// PoolAllowance is what the pool may pull from the account.
	PoolAllowance *utils.Amount `json:"poolAllowance"`
}

type ApproveRequest struct {
	Caller  *lockpool.Address `json:"caller"`
	Spender *lockpool.Address `json:"spender"`
	Amount  *utils.Amount     `json:"amount"`
}

type TransferRequest struct {
	Caller *lockpool.Address `json:"caller"`
	To     *lockpool.Address `json:"to"`
	Amount *utils.Amount     `json:"amount"`
}

type Assets struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Assets {
	return &Assets{ledger}
}

func (a *Assets) handleGetAccount(w http.ResponseWriter, r *http.Request) error {
	asset, err := utils.ParseAddress(mux.Vars(r)["asset"], "asset")
	if err != nil {
		return err
	}
	account, err := utils.ParseAddress(mux.Vars(r)["address"], "address")
	if err != nil {
		return err
	}
	balance, allowance, err := a.ledger.Balance(asset, account)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Balance:       utils.NewAmount(balance),
		PoolAllowance: utils.NewAmount(allowance),
	})
}

func (a *Assets) handleApprove(w http.ResponseWriter, r *http.Request) error {
	asset, err := utils.ParseAddress(mux.Vars(r)["asset"], "asset")
	if err != nil {
		return err
	}
	var req ApproveRequest
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := utils.RequireAddress(req.Caller, "caller")
	if err != nil {
		return err
	}
	amount, err := utils.RequireAmount(req.Amount, "amount")
	if err != nil {
		return err
	}
	// the pool is the usual spender
	spender := a.ledger.Pool()
	if req.Spender != nil {
		spender = *req.Spender
	}
	if err := a.ledger.Approve(asset, caller, spender, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"spender": spender, "allowance": utils.NewAmount(amount)})
}

func (a *Assets) handleTransfer(w http.ResponseWriter, r *http.Request) error {
	asset, err := utils.ParseAddress(mux.Vars(r)["asset"], "asset")
	if err != nil {
		return err
	}
	var req TransferRequest
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := utils.RequireAddress(req.Caller, "caller")
	if err != nil {
		return err
	}
	to, err := utils.RequireAddress(req.To, "to")
	if err != nil {
		return err
	}
	amount, err := utils.RequireAmount(req.Amount, "amount")
	if err != nil {
		return err
	}
	if err := a.ledger.Transfer(asset, caller, to, amount); err != nil {
		return err
	}
	balance, allowance, err := a.ledger.Balance(asset, caller)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Balance:       utils.NewAmount(balance),
		PoolAllowance: utils.NewAmount(allowance),
	})
}

func (a *Assets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{asset}/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /assets/{asset}/accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{asset}/approve").
		Methods(http.MethodPost).
		Name("POST /assets/{asset}/approve").
		HandlerFunc(utils.WrapHandlerFunc(a.handleApprove))
	sub.Path("/{asset}/transfer").
		Methods(http.MethodPost).
		Name("POST /assets/{asset}/transfer").
		HandlerFunc(utils.WrapHandlerFunc(a.handleTransfer))
}

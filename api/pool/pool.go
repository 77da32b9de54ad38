// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/lockpool/lockpool/api/utils"
	"github.com/lockpool/lockpool/builtin/pool/stakes"
	"github.com/lockpool/lockpool/ledger"
)

type Pool struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Pool {
	return &Pool{ledger}
}

func parseBody[T any](r *http.Request) (*T, error) {
	var req T
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return &req, nil
}

func (p *Pool) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	sum, err := p.ledger.Summary()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertSummary(p.ledger.Pool(), sum))
}

func (p *Pool) handleGetStake(w http.ResponseWriter, r *http.Request) error {
	id, err := utils.ParseUint64(mux.Vars(r)["id"], "id")
	if err != nil {
		return err
	}
	info, err := p.ledger.Stake(stakes.ID(id))
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertStake(info))
}

func (p *Pool) handleGetAccountStakes(w http.ResponseWriter, r *http.Request) error {
	account, err := utils.ParseAddress(mux.Vars(r)["address"], "address")
	if err != nil {
		return err
	}
	infos, err := p.ledger.StakesOf(account)
	if err != nil {
		return err
	}
	res := make([]*Stake, 0, len(infos))
	for _, info := range infos {
		res = append(res, convertStake(info))
	}
	return utils.WriteJSON(w, res)
}

func (p *Pool) handleDeposit(w http.ResponseWriter, r *http.Request) error {
	req, err := parseBody[DepositRequest](r)
	if err != nil {
		return err
	}
	caller, err := utils.RequireAddress(req.Caller, "caller")
	if err != nil {
		return err
	}
	amount, err := utils.RequireAmount(req.Amount, "amount")
	if err != nil {
		return err
	}
	id, err := p.ledger.Deposit(caller, amount, req.Duration)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, DepositResponse{ID: uint64(id)})
}

func (p *Pool) handleWithdraw(w http.ResponseWriter, r *http.Request) error {
	id, err := utils.ParseUint64(mux.Vars(r)["id"], "id")
	if err != nil {
		return err
	}
	req, err := parseBody[WithdrawRequest](r)
	if err != nil {
		return err
	}
	caller, err := utils.RequireAddress(req.Caller, "caller")
	if err != nil {
		return err
	}
	payout, err := p.ledger.Withdraw(caller, stakes.ID(id))
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, WithdrawResponse{Payout: utils.NewAmount(payout)})
}

func (p *Pool) handleChargeReward(w http.ResponseWriter, r *http.Request) error {
	req, err := parseBody[ChargeRequest](r)
	if err != nil {
		return err
	}
	caller, err := utils.RequireAddress(req.Caller, "caller")
	if err != nil {
		return err
	}
	amount, err := utils.RequireAmount(req.Amount, "amount")
	if err != nil {
		return err
	}
	if err := p.ledger.ChargeReward(caller, amount); err != nil {
		return err
	}
	return p.handleGetSummary(w, r)
}

func (p *Pool) handleStartRound(w http.ResponseWriter, r *http.Request) error {
	req, err := parseBody[StartRoundRequest](r)
	if err != nil {
		return err
	}
	caller, err := utils.RequireAddress(req.Caller, "caller")
	if err != nil {
		return err
	}
	round, err := p.ledger.StartRound(caller)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, StartRoundResponse{Round: round})
}

func (p *Pool) handleSetFunder(w http.ResponseWriter, r *http.Request) error {
	req, err := parseBody[SetFunderRequest](r)
	if err != nil {
		return err
	}
	caller, err := utils.RequireAddress(req.Caller, "caller")
	if err != nil {
		return err
	}
	funder, err := utils.RequireAddress(req.Funder, "funder")
	if err != nil {
		return err
	}
	if err := p.ledger.SetRewardFunder(caller, funder); err != nil {
		return err
	}
	return p.handleGetSummary(w, r)
}

func (p *Pool) handleSetOwner(w http.ResponseWriter, r *http.Request) error {
	req, err := parseBody[SetOwnerRequest](r)
	if err != nil {
		return err
	}
	caller, err := utils.RequireAddress(req.Caller, "caller")
	if err != nil {
		return err
	}
	owner, err := utils.RequireAddress(req.Owner, "owner")
	if err != nil {
		return err
	}
	if err := p.ledger.TransferOwnership(caller, owner); err != nil {
		return err
	}
	return p.handleGetSummary(w, r)
}

func (p *Pool) handleSetPaused(w http.ResponseWriter, r *http.Request) error {
	req, err := parseBody[SetPausedRequest](r)
	if err != nil {
		return err
	}
	caller, err := utils.RequireAddress(req.Caller, "caller")
	if err != nil {
		return err
	}
	if err := p.ledger.SetPaused(caller, req.Paused); err != nil {
		return err
	}
	return p.handleGetSummary(w, r)
}

func (p *Pool) handleRecover(w http.ResponseWriter, r *http.Request) error {
	req, err := parseBody[RecoverRequest](r)
	if err != nil {
		return err
	}
	caller, err := utils.RequireAddress(req.Caller, "caller")
	if err != nil {
		return err
	}
	asset, err := utils.RequireAddress(req.Asset, "asset")
	if err != nil {
		return err
	}
	amount, err := utils.RequireAmount(req.Amount, "amount")
	if err != nil {
		return err
	}
	if err := p.ledger.RecoverForeignAsset(caller, asset, amount); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"recovered": utils.NewAmount(amount)})
}

func (p *Pool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetSummary))
	sub.Path("/stakes").
		Methods(http.MethodPost).
		Name("POST /pool/stakes").
		HandlerFunc(utils.WrapHandlerFunc(p.handleDeposit))
	sub.Path("/stakes/{id}").
		Methods(http.MethodGet).
		Name("GET /pool/stakes/{id}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetStake))
	sub.Path("/stakes/{id}/withdraw").
		Methods(http.MethodPost).
		Name("POST /pool/stakes/{id}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.handleWithdraw))
	sub.Path("/accounts/{address}/stakes").
		Methods(http.MethodGet).
		Name("GET /pool/accounts/{address}/stakes").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetAccountStakes))
	sub.Path("/rewards").
		Methods(http.MethodPost).
		Name("POST /pool/rewards").
		HandlerFunc(utils.WrapHandlerFunc(p.handleChargeReward))
	sub.Path("/rounds").
		Methods(http.MethodPost).
		Name("POST /pool/rounds").
		HandlerFunc(utils.WrapHandlerFunc(p.handleStartRound))
	sub.Path("/funder").
		Methods(http.MethodPost).
		Name("POST /pool/funder").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetFunder))
	sub.Path("/owner").
		Methods(http.MethodPost).
		Name("POST /pool/owner").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetOwner))
	sub.Path("/pause").
		Methods(http.MethodPost).
		Name("POST /pool/pause").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetPaused))
	sub.Path("/recover").
		Methods(http.MethodPost).
		Name("POST /pool/recover").
		HandlerFunc(utils.WrapHandlerFunc(p.handleRecover))
}

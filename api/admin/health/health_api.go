// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/lockpool/lockpool/api/utils"
)

const checkTimeout = 5 * time.Second

// Checker reports whether the service can serve requests.
type Checker interface {
	Health(ctx context.Context) error
}

type Status struct {
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

type API struct {
	checker Checker
}

func New(checker Checker) *API {
	return &API{checker: checker}
}

func (h *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	status := Status{Healthy: true, CheckedAt: time.Now().UTC()}
	if err := h.checker.Health(ctx); err != nil {
		status.Healthy = false
		status.Error = err.Error()
	}

	w.Header().Set("Content-Type", utils.JSONContentType)
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	return utils.WriteJSON(w, status)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/lockpool/lockpool/api/events"
	"github.com/lockpool/lockpool/api/utils"
	"github.com/lockpool/lockpool/ledger"
	"github.com/lockpool/lockpool/log"
	"github.com/lockpool/lockpool/logdb"
	"github.com/lockpool/lockpool/metrics"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveCount = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

const (
	pingPeriod = 25 * time.Second
	pongWait   = 2 * pingPeriod
	writeWait  = 10 * time.Second
	// events read per step, a slow client catches up in chunks
	readLimit = 100
)

type Subscriptions struct {
	ledger   *ledger.Ledger
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(ledger *ledger.Ledger, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		ledger: ledger,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// eventReader reads the events matching criteria that were recorded after pos.
type eventReader struct {
	ledger   *ledger.Ledger
	criteria *logdb.EventCriteria
	pos      uint64
}

func (r *eventReader) Read(ctx context.Context) ([]*logdb.Event, error) {
	filter := &logdb.EventFilter{
		After:   r.pos,
		Options: &logdb.Options{Limit: readLimit},
	}
	if r.criteria != nil {
		filter.CriteriaSet = []*logdb.EventCriteria{r.criteria}
	}
	evs, err := r.ledger.FilterEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(evs) > 0 {
		r.pos = evs[len(evs)-1].Seq
	}
	return evs, nil
}

func (s *Subscriptions) parseReader(req *http.Request) (*eventReader, error) {
	query := req.URL.Query()
	reader := &eventReader{ledger: s.ledger}

	var criteria logdb.EventCriteria
	matchAll := true
	if kind := query.Get("kind"); kind != "" {
		criteria.Kind = &kind
		matchAll = false
	}
	if v := query.Get("account"); v != "" {
		account, err := utils.ParseAddress(v, "account")
		if err != nil {
			return nil, err
		}
		criteria.Account = &account
		matchAll = false
	}
	if v := query.Get("stakeID"); v != "" {
		id, err := utils.ParseUint64(v, "stakeID")
		if err != nil {
			return nil, err
		}
		criteria.StakeID = &id
		matchAll = false
	}
	if !matchAll {
		reader.criteria = &criteria
	}

	// without a position, only events recorded from now on are sent
	if v := query.Get("pos"); v != "" {
		pos, err := utils.ParseUint64(v, "pos")
		if err != nil {
			return nil, err
		}
		reader.pos = pos
	} else {
		pos, err := s.ledger.LastEventSeq(req.Context())
		if err != nil {
			return nil, err
		}
		reader.pos = pos
	}
	return reader, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	reader, err := s.parseReader(req)
	if err != nil {
		if errors.Is(err, ledger.ErrEventLogDisabled) {
			return utils.HTTPError(err, http.StatusServiceUnavailable)
		}
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has replied already
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	metricActiveCount().AddWithLabel(1, map[string]string{"subject": "event"})
	defer metricActiveCount().AddWithLabel(-1, map[string]string{"subject": "event"})

	if err := s.pipe(conn, reader); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader *eventReader) error {
	// the read loop only serves control frames and notices the peer leaving
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// the waiter must exist before reading, or a commit in between is missed
		waiter := s.ledger.NewEventWaiter()
		evs, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, ev := range evs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(events.ConvertEvent(ev)); err != nil {
				return err
			}
		}
		if len(evs) == readLimit {
			continue
		}

		select {
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "service shutdown")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return nil
		case <-closed:
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-waiter.C():
		}
	}
}

// Close ends all subscriptions. Hijacked connections are not closed by the http server.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodGet).
		Name("WS /subscriptions/event").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}

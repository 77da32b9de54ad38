// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"math"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/lockpool/lockpool/lockpool"
)

const insertEventQuery = "INSERT INTO event(kind, time, round, stakeID, account, asset, amount, penalty) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

// LogDB stores committed pool events in sqlite.
type LogDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if path == ":memory:" {
		// every connection would open its own in-memory database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create event table")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the sqlite library.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Ping checks the database is reachable.
func (db *LogDB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

// Count returns the number of stored events.
func (db *LogDB) Count(ctx context.Context) (uint64, error) {
	var n uint64
	err := db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event").Scan(&n)
	return n, err
}

// LastSeq returns the seq of the newest event, 0 for an empty log.
func (db *LogDB) LastSeq(ctx context.Context) (uint64, error) {
	var seq int64
	if err := db.db.QueryRowContext(ctx, "SELECT IFNULL(MAX(seq), 0) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	return uint64(seq), nil
}

// dbUint converts v to a sqlite integer, which is signed.
func dbUint(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT seq, kind, time, round, stakeID, account, asset, amount, penalty FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := query + " WHERE 1"
	if filter.After > 0 {
		args = append(args, dbUint(filter.After))
		stmt += " AND seq > ?"
	}
	if filter.Range != nil {
		args = append(args, dbUint(filter.Range.From))
		stmt += " AND time >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, dbUint(filter.Range.To))
			stmt += " AND time <= ?"
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Kind != nil {
			args = append(args, *criteria.Kind)
			stmt += " AND kind = ?"
		}
		if criteria.Account != nil {
			args = append(args, criteria.Account.Bytes())
			stmt += " AND account = ?"
		}
		if criteria.StakeID != nil {
			args = append(args, dbUint(*criteria.StakeID))
			stmt += " AND stakeID = ?"
		}
		stmt += " )"
		if i == len(filter.CriteriaSet)-1 {
			stmt += " )"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, dbUint(filter.Options.Offset), dbUint(filter.Options.Limit))
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			ev      Event
			account []byte
			asset   []byte
			amount  []byte
			penalty []byte
		)
		if err := rows.Scan(
			&ev.Seq,
			&ev.Kind,
			&ev.Time,
			&ev.Round,
			&ev.StakeID,
			&account,
			&asset,
			&amount,
			&penalty,
		); err != nil {
			return nil, err
		}
		ev.Account = lockpool.BytesToAddress(account)
		ev.Asset = lockpool.BytesToAddress(asset)
		ev.Amount = new(uint256.Int).SetBytes(amount)
		ev.Penalty = new(uint256.Int).SetBytes(penalty)
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// NewWriter creates a writer appending events in a single transaction.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db}
}

// Writer appends events. Nothing is visible before Commit.
type Writer struct {
	db          *LogDB
	tx          *sql.Tx
	uncommitted int
}

func (w *Writer) Write(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	// prepare before taking the connection, the in-memory db has only one
	stmt, err := w.db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}
	if w.tx == nil {
		tx, err := w.db.db.Begin()
		if err != nil {
			return err
		}
		w.tx = tx
	}
	insert := w.tx.Stmt(stmt)
	defer insert.Close()
	for _, ev := range events {
		res, err := insert.Exec(
			ev.Kind,
			dbUint(ev.Time),
			dbUint(ev.Round),
			dbUint(ev.StakeID),
			ev.Account.Bytes(),
			ev.Asset.Bytes(),
			amountBytes(ev.Amount),
			amountBytes(ev.Penalty),
		)
		if err != nil {
			return err
		}
		if seq, err := res.LastInsertId(); err == nil {
			ev.Seq = uint64(seq)
		}
		w.uncommitted++
	}
	return nil
}

func amountBytes(v *uint256.Int) []byte {
	if v == nil || v.IsZero() {
		return nil
	}
	return v.Bytes()
}

// Commit commits accumulated events.
func (w *Writer) Commit() error {
	if w.tx == nil {
		return nil
	}
	err := w.tx.Commit()
	w.tx = nil
	w.uncommitted = 0
	return err
}

// Rollback drops all uncommitted events.
func (w *Writer) Rollback() error {
	if w.tx == nil {
		return nil
	}
	err := w.tx.Rollback()
	w.tx = nil
	w.uncommitted = 0
	return err
}

// UncommittedCount returns the count of uncommitted events.
func (w *Writer) UncommittedCount() int {
	return w.uncommitted
}

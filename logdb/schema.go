// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY,
	kind TEXT NOT NULL,
	time INTEGER NOT NULL,
	round INTEGER NOT NULL,
	stakeID INTEGER NOT NULL,
	account BLOB(20) NOT NULL,
	asset BLOB(20) NOT NULL,
	amount BLOB,
	penalty BLOB
);

CREATE INDEX IF NOT EXISTS eventTimeIndex ON event(time);
CREATE INDEX IF NOT EXISTS eventKindIndex ON event(kind);
CREATE INDEX IF NOT EXISTS eventAccountIndex ON event(account);
CREATE INDEX IF NOT EXISTS eventStakeIndex ON event(stakeID);
`

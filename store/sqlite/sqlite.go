/*
Package sqlite provides a SQLite-backed tokens.Archive.

PURPOSE:

	Durability for the token ledger across process restarts. The in-memory
	ledger stays authoritative; this archive receives a write-through copy
	of every committed transaction and is replayed at startup.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on token_transactions
  - No DELETE statements on token_transactions
    The token_balances table is a convenience snapshot for operators; the
    ledger never reads it. Restore replays the transaction log only, which
    keeps the replay path identical to the audit invariant.

KEY TABLES:

	token_transactions: Immutable log of all balance changes
	token_balances:     Last balance snapshot per user (upserted)

WAL MODE:

	Opened with WAL for better read concurrency and crash recovery.

USAGE:

	archive, err := sqlite.New("./data/kintaraa.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer archive.Close()

	ledger := tokens.NewLedger(grant, archive)
	if err := ledger.Restore(ctx); err != nil { ... }

SEE ALSO:
  - tokens/ledger.go: Archive interface and write-through ordering
  - tokens/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Kintaraa/kentaraa/tokens"
)

// Archive implements tokens.Archive on SQLite.
type Archive struct {
	db *sql.DB
}

var _ tokens.Archive = (*Archive)(nil)

// New opens (or creates) the archive at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) migrate() error {
	schema := `
	-- Token transactions (append-only ledger)
	CREATE TABLE IF NOT EXISTS token_transactions (
		id INTEGER PRIMARY KEY,
		user TEXT NOT NULL,
		amount INTEGER NOT NULL,
		description TEXT NOT NULL,
		service_type TEXT,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_token_transactions_user
		ON token_transactions(user, id);

	-- Last balance snapshot per user (operator convenience, never replayed)
	CREATE TABLE IF NOT EXISTS token_balances (
		user TEXT PRIMARY KEY,
		balance INTEGER NOT NULL,
		total_earned INTEGER NOT NULL,
		total_spent INTEGER NOT NULL,
		last_updated INTEGER NOT NULL
	);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Record persists the transaction and the resulting balance snapshot in
// one database transaction. Either both land or neither does.
func (a *Archive) Record(ctx context.Context, tx tokens.Transaction, snapshot tokens.Balance) error {
	dbTx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer dbTx.Rollback()

	var serviceType sql.NullString
	if tx.ServiceType != "" {
		serviceType = sql.NullString{String: tx.ServiceType, Valid: true}
	}

	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO token_transactions (id, user, amount, description, service_type, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, string(tx.User), tx.Amount, tx.Description, serviceType, tx.Timestamp.UnixNano(),
	); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO token_balances (user, balance, total_earned, total_spent, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user) DO UPDATE SET
			balance = excluded.balance,
			total_earned = excluded.total_earned,
			total_spent = excluded.total_spent,
			last_updated = excluded.last_updated`,
		string(tx.User), snapshot.Balance, snapshot.TotalEarned, snapshot.TotalSpent,
		snapshot.LastUpdated.UnixNano(),
	); err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}

	return dbTx.Commit()
}

// Restore returns all archived transactions ordered by id.
func (a *Archive) Restore(ctx context.Context) ([]tokens.Transaction, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, user, amount, description, service_type, timestamp
		FROM token_transactions
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []tokens.Transaction
	for rows.Next() {
		var (
			tx          tokens.Transaction
			user        string
			serviceType sql.NullString
			ts          int64
		)
		if err := rows.Scan(&tx.ID, &user, &tx.Amount, &tx.Description, &serviceType, &ts); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.User = tokens.Identity(user)
		if serviceType.Valid {
			tx.ServiceType = serviceType.String
		}
		tx.Timestamp = time.Unix(0, ts)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

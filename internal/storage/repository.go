// Package storage is the durable transaction ledger.
//
// Entries are written once at confirmation time and never updated or
// deleted. Inserts with an explicit id replace the prior row, so a retried
// confirmation lands on the same entry instead of duplicating it. Recency
// queries order by id descending, which matches insertion order because ids
// are monotonically increasing.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"remitconnect/internal/core"

	_ "modernc.org/sqlite"
)

// DefaultRecentLimit is how many ledger entries the home screen shows.
const DefaultRecentLimit = 5

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertTransaction persists a confirmed transaction and returns its ledger
// id. A transaction with id zero gets a fresh auto-assigned id; a positive
// id replaces any prior entry with the same id (safe confirmation retry).
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	recipientJSON, err := encodeRecipient(tx.Recipient)
	if err != nil {
		return 0, fmt.Errorf("encode recipient: %w", err)
	}

	var id int64
	if tx.ID > 0 {
		_, err = r.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO transactions
				(id, option, from_channel, recipient, selected_wallet, currency_code,
				 amount, moneco_fees, transfer_fees, conversion_rate, total_spent, amount_received, date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tx.ID, tx.Option, tx.From, recipientJSON, tx.SelectedWallet, tx.CurrencyCode,
			tx.Amount, tx.MonecoFees, tx.TransferFees, tx.ConversionRate, tx.TotalSpent, tx.AmountReceived,
			tx.Date.UnixMilli())
		if err != nil {
			return 0, fmt.Errorf("replace transaction: %w", err)
		}
		id = tx.ID
	} else {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO transactions
				(option, from_channel, recipient, selected_wallet, currency_code,
				 amount, moneco_fees, transfer_fees, conversion_rate, total_spent, amount_received, date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tx.Option, tx.From, recipientJSON, tx.SelectedWallet, tx.CurrencyCode,
			tx.Amount, tx.MonecoFees, tx.TransferFees, tx.ConversionRate, tx.TotalSpent, tx.AmountReceived,
			tx.Date.UnixMilli())
		if err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("last insert id: %w", err)
		}
	}

	slog.InfoContext(ctx, "Transaction saved to ledger",
		"id", id,
		"total_spent", tx.TotalSpent,
		"currency_code", tx.CurrencyCode)

	return id, nil
}

// RecentTransactions returns up to limit entries, most recently inserted
// first. An empty ledger yields an empty slice, not an error.
func (r *SQLiteRepository) RecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, option, from_channel, recipient, selected_wallet, currency_code,
		       amount, moneco_fees, transfer_fees, conversion_rate, total_spent, amount_received, date
		FROM transactions
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0, limit)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent transactions: %w", err)
	}

	return txs, nil
}

// SumTotalSpent aggregates total_spent across the whole ledger. ok is false
// when the ledger is empty, letting the caller tell "no data" apart from
// zero spent.
func (r *SQLiteRepository) SumTotalSpent(ctx context.Context) (sum float64, ok bool, err error) {
	var total sql.NullFloat64
	row := r.db.QueryRowContext(ctx, `SELECT SUM(total_spent) FROM transactions`)
	if err := row.Scan(&total); err != nil {
		return 0, false, fmt.Errorf("sum total spent: %w", err)
	}
	if !total.Valid {
		return 0, false, nil
	}
	return total.Float64, true, nil
}

func encodeRecipient(r *core.Recipient) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeRecipient(s sql.NullString) (*core.Recipient, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var r core.Recipient
	if err := json.Unmarshal([]byte(s.String), &r); err != nil {
		// A recipient blob that no longer decodes means the row was
		// corrupted outside of this process.
		return nil, fmt.Errorf("corrupted recipient data: %w", err)
	}
	return &r, nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		tx            core.Transaction
		option        sql.NullString
		from          sql.NullString
		recipientJSON sql.NullString
		wallet        sql.NullString
		amount        sql.NullString
		dateMillis    int64
	)
	err := rows.Scan(&tx.ID, &option, &from, &recipientJSON, &wallet, &tx.CurrencyCode,
		&amount, &tx.MonecoFees, &tx.TransferFees, &tx.ConversionRate, &tx.TotalSpent, &tx.AmountReceived,
		&dateMillis)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	tx.Option = option.String
	tx.From = from.String
	tx.SelectedWallet = wallet.String
	tx.Amount = amount.String
	tx.Date = time.UnixMilli(dateMillis)

	tx.Recipient, err = decodeRecipient(recipientJSON)
	if err != nil {
		return core.Transaction{}, err
	}

	return tx, nil
}

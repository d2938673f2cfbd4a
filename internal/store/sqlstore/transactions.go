package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
)

const upsertTransactionQuery = `
INSERT INTO wallet_transactions (
	transaction_id, wallet_id, user_id, tx_type, state,
	amount_btc, amount_usd, total_fee_btc,
	note, invoice, is_zap, other_user_id, other_lightning_address,
	created_at, updated_at, completed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (transaction_id) DO UPDATE SET
	wallet_id = excluded.wallet_id,
	user_id = excluded.user_id,
	tx_type = excluded.tx_type,
	state = excluded.state,
	amount_btc = excluded.amount_btc,
	amount_usd = excluded.amount_usd,
	total_fee_btc = excluded.total_fee_btc,
	note = excluded.note,
	invoice = excluded.invoice,
	is_zap = excluded.is_zap,
	other_user_id = excluded.other_user_id,
	other_lightning_address = excluded.other_lightning_address,
	created_at = excluded.created_at,
	updated_at = excluded.updated_at,
	completed_at = excluded.completed_at`

// UpsertTransactions writes transactions keyed by transaction id in one
// database transaction. Existing rows are overwritten, so repeating a page is harmless.
func (s *Store) UpsertTransactions(ctx context.Context, txs []model.WalletTransaction) (err error) {
	if len(txs) == 0 {
		return nil
	}

	started := time.Now()
	defer func() {
		s.observe("upsert_transactions", err, started)
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert transactions: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, s.rebind(upsertTransactionQuery))
	if err != nil {
		return fmt.Errorf("prepare upsert transactions: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err = stmt.ExecContext(ctx,
			t.TransactionID,
			string(t.WalletID),
			t.UserID,
			string(t.Type),
			t.State,
			t.AmountBTC.String(),
			nullDecimal(t.AmountUSD),
			nullDecimal(t.TotalFeeBTC),
			t.Note,
			t.Invoice,
			t.IsZap,
			t.OtherUserID,
			t.OtherLightningAddress,
			t.CreatedAt,
			t.UpdatedAt,
			nullInt64(t.CompletedAt),
		); err != nil {
			return fmt.Errorf("upsert transaction %s: %w", t.TransactionID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert transactions: %w", err)
	}
	return nil
}

// CountTransactions returns the number of stored transactions of a wallet.
func (s *Store) CountTransactions(ctx context.Context, walletID model.WalletID) (count int, err error) {
	started := time.Now()
	defer func() {
		s.observe("count_transactions", err, started)
	}()

	const query = `SELECT COUNT(*) FROM wallet_transactions WHERE wallet_id = ?`
	if err = s.db.QueryRowContext(ctx, s.rebind(query), string(walletID)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions of wallet %s: %w", walletID, err)
	}
	return count, nil
}

// FindTransactions returns stored transactions of a wallet, newest first.
func (s *Store) FindTransactions(ctx context.Context, walletID model.WalletID, limit int) (txs []model.WalletTransaction, err error) {
	started := time.Now()
	defer func() {
		s.observe("find_transactions", err, started)
	}()

	const query = `
SELECT transaction_id, wallet_id, user_id, tx_type, state,
	amount_btc, amount_usd, total_fee_btc,
	note, invoice, is_zap, other_user_id, other_lightning_address,
	created_at, updated_at, completed_at
FROM wallet_transactions
WHERE wallet_id = ?
ORDER BY created_at DESC, transaction_id
LIMIT ?`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), string(walletID), limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions of wallet %s: %w", walletID, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var (
			t                      model.WalletTransaction
			wallet, txType, amount string
			amountUSD, totalFee    sql.NullString
			completedAt            sql.NullInt64
		)
		if err = rows.Scan(
			&t.TransactionID, &wallet, &t.UserID, &txType, &t.State,
			&amount, &amountUSD, &totalFee,
			&t.Note, &t.Invoice, &t.IsZap, &t.OtherUserID, &t.OtherLightningAddress,
			&t.CreatedAt, &t.UpdatedAt, &completedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		t.WalletID = model.WalletID(wallet)
		t.Type = model.TxType(txType)
		t.CompletedAt = int64Ptr(completedAt)
		if t.AmountBTC, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount of transaction %s: %w", t.TransactionID, err)
		}
		if t.AmountUSD, err = decimalPtr(amountUSD); err != nil {
			return nil, fmt.Errorf("parse usd amount of transaction %s: %w", t.TransactionID, err)
		}
		if t.TotalFeeBTC, err = decimalPtr(totalFee); err != nil {
			return nil, fmt.Errorf("parse fee of transaction %s: %w", t.TransactionID, err)
		}
		txs = append(txs, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func nullDecimal(v *decimal.Decimal) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.String(), Valid: true}
}

func decimalPtr(v sql.NullString) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
)

// SaveWallet inserts a wallet or updates its user, kind and balance.
// Import state and the active flag are left untouched on update.
func (s *Store) SaveWallet(ctx context.Context, w model.Wallet) (err error) {
	started := time.Now()
	defer func() {
		s.observe("save_wallet", err, started)
	}()

	now := s.now().Unix()
	const query = `
INSERT INTO wallets (wallet_id, user_id, kind, is_active, balance_btc, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (wallet_id) DO UPDATE SET
	user_id = excluded.user_id,
	kind = excluded.kind,
	balance_btc = excluded.balance_btc,
	updated_at = excluded.updated_at`

	if _, err = s.db.ExecContext(ctx, s.rebind(query),
		string(w.ID),
		w.UserID,
		string(w.Kind),
		w.IsActive,
		w.BalanceBTC.String(),
		now,
		now,
	); err != nil {
		return fmt.Errorf("save wallet %s: %w", w.ID, err)
	}
	return nil
}

// FindWallet returns the wallet row with the given id.
func (s *Store) FindWallet(ctx context.Context, walletID model.WalletID) (w model.Wallet, err error) {
	started := time.Now()
	defer func() {
		s.observe("find_wallet", err, started)
	}()

	const query = `
SELECT wallet_id, user_id, kind, is_active, balance_btc
FROM wallets
WHERE wallet_id = ?`

	var (
		id, kind, balance string
	)
	err = s.db.QueryRowContext(ctx, s.rebind(query), string(walletID)).
		Scan(&id, &w.UserID, &kind, &w.IsActive, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("%w: %s", ErrWalletNotFound, walletID)
		return model.Wallet{}, err
	}
	if err != nil {
		return model.Wallet{}, fmt.Errorf("query wallet %s: %w", walletID, err)
	}

	w.ID = model.WalletID(id)
	w.Kind = model.WalletKind(kind)
	if w.BalanceBTC, err = decimal.NewFromString(balance); err != nil {
		return model.Wallet{}, fmt.Errorf("parse balance of wallet %s: %w", walletID, err)
	}
	return w, nil
}

// FindSparkWalletData returns the history import state of a self-custodial wallet.
func (s *Store) FindSparkWalletData(ctx context.Context, walletID model.WalletID) (data model.SparkWalletData, err error) {
	started := time.Now()
	defer func() {
		s.observe("find_spark_wallet_data", err, started)
	}()

	const query = `
SELECT wallet_id, user_id, primal_txs_migrated_until, primal_txs_migrated
FROM wallets
WHERE wallet_id = ? AND kind = ?`

	var (
		id     string
		cursor sql.NullInt64
	)
	err = s.db.QueryRowContext(ctx, s.rebind(query), string(walletID), string(model.WalletKindSpark)).
		Scan(&id, &data.UserID, &cursor, &data.TxsMigrated)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("%w: %s", ErrWalletNotFound, walletID)
		return model.SparkWalletData{}, err
	}
	if err != nil {
		return model.SparkWalletData{}, fmt.Errorf("query spark wallet %s: %w", walletID, err)
	}

	data.WalletID = model.WalletID(id)
	data.ImportCursor = int64Ptr(cursor)
	return data, nil
}

// FindIncompleteImports lists self-custodial wallets whose history import has not finished.
func (s *Store) FindIncompleteImports(ctx context.Context, limit int) (wallets []model.SparkWalletData, err error) {
	started := time.Now()
	defer func() {
		s.observe("find_incomplete_imports", err, started)
	}()

	const query = `
SELECT wallet_id, user_id, primal_txs_migrated_until
FROM wallets
WHERE kind = ? AND primal_txs_migrated = ?
ORDER BY updated_at
LIMIT ?`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), string(model.WalletKindSpark), false, limit)
	if err != nil {
		return nil, fmt.Errorf("query incomplete imports: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var (
			id     string
			data   model.SparkWalletData
			cursor sql.NullInt64
		)
		if err = rows.Scan(&id, &data.UserID, &cursor); err != nil {
			return nil, fmt.Errorf("scan incomplete import: %w", err)
		}
		data.WalletID = model.WalletID(id)
		data.ImportCursor = int64Ptr(cursor)
		wallets = append(wallets, data)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incomplete imports: %w", err)
	}
	return wallets, nil
}

// UpdateImportCursor persists how far back the history of a wallet has been imported.
func (s *Store) UpdateImportCursor(ctx context.Context, walletID model.WalletID, cursor *int64) (err error) {
	started := time.Now()
	defer func() {
		s.observe("update_import_cursor", err, started)
	}()

	const query = `
UPDATE wallets
SET primal_txs_migrated_until = ?, updated_at = ?
WHERE wallet_id = ?`

	return s.execOne(ctx, query, walletID, nullInt64(cursor), s.now().Unix(), string(walletID))
}

// UpdateImportComplete flags whether the history import of a wallet has finished.
func (s *Store) UpdateImportComplete(ctx context.Context, walletID model.WalletID, complete bool) (err error) {
	started := time.Now()
	defer func() {
		s.observe("update_import_complete", err, started)
	}()

	const query = `
UPDATE wallets
SET primal_txs_migrated = ?, updated_at = ?
WHERE wallet_id = ?`

	return s.execOne(ctx, query, walletID, complete, s.now().Unix(), string(walletID))
}

// DeleteWalletByID removes a wallet row. Deleting a missing wallet is not an error.
func (s *Store) DeleteWalletByID(ctx context.Context, walletID model.WalletID) (err error) {
	started := time.Now()
	defer func() {
		s.observe("delete_wallet", err, started)
	}()

	const query = `DELETE FROM wallets WHERE wallet_id = ?`
	if _, err = s.db.ExecContext(ctx, s.rebind(query), string(walletID)); err != nil {
		return fmt.Errorf("delete wallet %s: %w", walletID, err)
	}
	return nil
}

// ActivateWallet makes walletID the only active wallet of the user.
func (s *Store) ActivateWallet(ctx context.Context, userID string, walletID model.WalletID) (err error) {
	started := time.Now()
	defer func() {
		s.observe("activate_wallet", err, started)
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin activate wallet: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := s.now().Unix()
	if _, err = tx.ExecContext(ctx,
		s.rebind(`UPDATE wallets SET is_active = ?, updated_at = ? WHERE user_id = ? AND wallet_id <> ?`),
		false, now, userID, string(walletID),
	); err != nil {
		return fmt.Errorf("deactivate wallets of user %s: %w", userID, err)
	}

	res, err := tx.ExecContext(ctx,
		s.rebind(`UPDATE wallets SET is_active = ?, updated_at = ? WHERE user_id = ? AND wallet_id = ?`),
		true, now, userID, string(walletID),
	)
	if err != nil {
		return fmt.Errorf("activate wallet %s: %w", walletID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("activate wallet %s: %w", walletID, err)
	}
	if affected == 0 {
		err = fmt.Errorf("%w: %s", ErrWalletNotFound, walletID)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit activate wallet: %w", err)
	}
	return nil
}

func (s *Store) execOne(ctx context.Context, query string, walletID model.WalletID, args ...any) error {
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update wallet %s: %w", walletID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update wallet %s: %w", walletID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrWalletNotFound, walletID)
	}
	return nil
}

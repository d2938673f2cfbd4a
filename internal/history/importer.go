// Package history copies custodial ledger history into local storage for a
// self-custodial wallet, page by page and resumable across restarts.
package history

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
)

// DefaultPageSize is the number of ledger transactions fetched per page.
const DefaultPageSize = 50

// Config tunes the importer.
type Config struct {
	PageSize   int
	SubAccount model.SubAccount
}

// DefaultConfig returns the importer defaults.
func DefaultConfig() Config {
	return Config{
		PageSize:   DefaultPageSize,
		SubAccount: model.SubAccountOpen,
	}
}

// Importer walks the custodial history backwards and upserts every page into
// the local transaction table of the destination wallet. Imports of the same
// wallet never run concurrently.
type Importer struct {
	ledger   Ledger
	store    Store
	profiles ProfileEnricher
	metrics  Metrics
	logger   *zap.Logger
	cfg      Config
	locks    *walletLocks
}

// NewImporter constructs an Importer. profiles may be nil.
func NewImporter(
	ledger Ledger,
	store Store,
	profiles ProfileEnricher,
	metrics Metrics,
	logger *zap.Logger,
	cfg Config,
) *Importer {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.SubAccount == "" {
		cfg.SubAccount = model.SubAccountOpen
	}
	return &Importer{
		ledger:   ledger,
		store:    store,
		profiles: profiles,
		metrics:  metrics,
		logger:   logger.Named("history_importer"),
		cfg:      cfg,
		locks:    newWalletLocks(),
	}
}

// Import resumes the history import of walletID from its saved cursor. With
// maxPages set it stops after that many pages and leaves the import
// incomplete; otherwise it runs until the ledger has nothing older. A call
// waiting for another import of the same wallet returns ctx.Err() when ctx
// ends.
func (i *Importer) Import(ctx context.Context, userID string, walletID model.WalletID, maxPages *int) (err error) {
	if err := i.locks.Lock(ctx, walletID); err != nil {
		return err
	}
	defer i.locks.Unlock(walletID)

	logger := i.logger.With(zap.String("user_id", userID), zap.String("wallet_id", string(walletID)))

	var (
		pages    int
		complete bool
	)
	defer func() {
		i.metrics.ObserveImport(err, pages, complete)
	}()

	data, err := i.store.FindSparkWalletData(ctx, walletID)
	if err != nil {
		return fmt.Errorf("load import cursor: %w", err)
	}
	if data.TxsMigrated {
		logger.Debug("history already imported")
		complete = true
		return nil
	}

	cursor := data.ImportCursor
	for {
		if maxPages != nil && pages >= *maxPages {
			logger.Info("history import paused",
				zap.Int("pages", pages),
				zap.Int64p("cursor", cursor),
			)
			return nil
		}
		if err = ctx.Err(); err != nil {
			return err
		}

		var next *int64
		next, err = i.importPage(ctx, userID, walletID, cursor)
		if err != nil {
			return err
		}
		pages++

		if next == nil || (cursor != nil && *next >= *cursor) {
			if next != nil {
				logger.Warn("history cursor did not move back, finishing import",
					zap.Int64("cursor", *next),
				)
			}
			if err = i.finish(ctx, walletID); err != nil {
				return err
			}
			complete = true
			logger.Info("history import completed", zap.Int("pages", pages))
			return nil
		}

		if err = i.store.UpdateImportCursor(ctx, walletID, next); err != nil {
			return fmt.Errorf("save import cursor: %w", err)
		}
		cursor = next
	}
}

// importPage stores one page older than cursor and returns the cursor of the
// following page, nil when there is nothing older.
func (i *Importer) importPage(ctx context.Context, userID string, walletID model.WalletID, cursor *int64) (next *int64, err error) {
	started := time.Now()
	var stored int
	defer func() {
		i.metrics.ObservePage(err, stored, started)
	}()

	page, err := i.ledger.GetTransactions(ctx, userID, i.cfg.SubAccount, i.cfg.PageSize, cursor)
	if err != nil {
		return nil, fmt.Errorf("fetch history page: %w", err)
	}
	if len(page.Transactions) == 0 {
		return nil, nil
	}

	rows := make([]model.WalletTransaction, 0, len(page.Transactions))
	for _, tx := range page.Transactions {
		rows = append(rows, toWalletTransaction(tx, userID, walletID))
	}
	if err = i.store.UpsertTransactions(ctx, rows); err != nil {
		return nil, fmt.Errorf("store history page: %w", err)
	}
	stored = len(rows)

	i.enrichProfiles(ctx, page.Transactions)

	i.logger.Debug("history page imported",
		zap.String("wallet_id", string(walletID)),
		zap.Int("transactions", stored),
		zap.Int64p("until", page.Until),
	)
	return page.Until, nil
}

func (i *Importer) finish(ctx context.Context, walletID model.WalletID) error {
	if err := i.store.UpdateImportCursor(ctx, walletID, nil); err != nil {
		return fmt.Errorf("clear import cursor: %w", err)
	}
	if err := i.store.UpdateImportComplete(ctx, walletID, true); err != nil {
		return fmt.Errorf("mark import complete: %w", err)
	}
	return nil
}

func (i *Importer) enrichProfiles(ctx context.Context, txs []model.LedgerTransaction) {
	if i.profiles == nil {
		return
	}

	seen := make(map[string]struct{}, len(txs))
	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		if tx.OtherUserID == "" {
			continue
		}
		if _, ok := seen[tx.OtherUserID]; ok {
			continue
		}
		seen[tx.OtherUserID] = struct{}{}
		ids = append(ids, tx.OtherUserID)
	}
	if len(ids) == 0 {
		return
	}

	if err := i.profiles.FetchMissingProfiles(ctx, ids); err != nil {
		i.logger.Warn("fetch counterparty profiles", zap.Int("profiles", len(ids)), zap.Error(err))
	}
}

func toWalletTransaction(tx model.LedgerTransaction, userID string, walletID model.WalletID) model.WalletTransaction {
	return model.WalletTransaction{
		TransactionID:         tx.ID,
		WalletID:              walletID,
		UserID:                userID,
		Type:                  tx.Type,
		State:                 tx.State,
		CreatedAt:             tx.CreatedAt,
		UpdatedAt:             tx.UpdatedAt,
		CompletedAt:           tx.CompletedAt,
		AmountBTC:             tx.AmountBTC,
		AmountUSD:             tx.AmountUSD,
		TotalFeeBTC:           tx.TotalFeeBTC,
		Note:                  tx.Note,
		Invoice:               tx.Invoice,
		IsZap:                 tx.IsZap,
		OtherUserID:           tx.OtherUserID,
		OtherLightningAddress: tx.OtherLightningAddress,
	}
}

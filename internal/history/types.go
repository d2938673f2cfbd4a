package history

import (
	"context"
	"time"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Ledger interface {
		GetTransactions(ctx context.Context, userID string, subAccount model.SubAccount, limit int, until *int64) (model.LedgerTransactionsPage, error)
	}
	Store interface {
		FindSparkWalletData(ctx context.Context, walletID model.WalletID) (model.SparkWalletData, error)
		FindIncompleteImports(ctx context.Context, limit int) ([]model.SparkWalletData, error)
		UpdateImportCursor(ctx context.Context, walletID model.WalletID, cursor *int64) error
		UpdateImportComplete(ctx context.Context, walletID model.WalletID, complete bool) error
		UpsertTransactions(ctx context.Context, txs []model.WalletTransaction) error
	}
	ProfileEnricher interface {
		FetchMissingProfiles(ctx context.Context, userIDs []string) error
	}
	Metrics interface {
		ObservePage(err error, transactions int, started time.Time)
		ObserveImport(err error, pages int, complete bool)
	}
	Journal interface {
		Record(ctx context.Context, event model.MigrationEvent)
	}
	Runner interface {
		Import(ctx context.Context, userID string, walletID model.WalletID, maxPages *int) error
	}
)

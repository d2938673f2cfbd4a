package migration

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	WalletAccountRegistry interface {
		EnsureSelfCustodialWalletExists(ctx context.Context, userID string, register bool) (model.WalletID, error)
		RegisterWallet(ctx context.Context, userID string, walletID model.WalletID) error
		UnregisterWallet(ctx context.Context, userID string, walletID model.WalletID) error
		SetActiveWallet(ctx context.Context, userID string, walletID model.WalletID) error
		FetchWalletAccountInfo(ctx context.Context, userID string, walletID model.WalletID) error
	}
	CustodialLedger interface {
		GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
		Withdraw(ctx context.Context, userID string, req model.WithdrawRequest) error
	}
	SelfCustodialWallet interface {
		CreateInvoice(ctx context.Context, walletID model.WalletID, amountBTC decimal.Decimal, comment string) (string, error)
		AwaitInvoicePayment(ctx context.Context, walletID model.WalletID, invoice string, timeout time.Duration) error
		FetchBalance(ctx context.Context, walletID model.WalletID) error
		GetWalletByID(ctx context.Context, walletID model.WalletID) (model.Wallet, error)
		DeleteWalletByID(ctx context.Context, walletID model.WalletID) error
	}
	InvoiceDecoder interface {
		DecodeAmount(invoice string) (btcutil.Amount, error)
	}
	HistoryImporter interface {
		Import(ctx context.Context, userID string, walletID model.WalletID, maxPages *int) error
	}
	ImportStateStore interface {
		UpdateImportComplete(ctx context.Context, walletID model.WalletID, complete bool) error
	}
	Journal interface {
		Record(ctx context.Context, event model.MigrationEvent)
	}
	Metrics interface {
		ObserveStep(step model.MigrationStep, err error, started time.Time)
		ObserveRollback(err error)
		ObserveMigration(step model.MigrationStep, err error, started time.Time)
	}
)

package model

import "github.com/shopspring/decimal"

// WalletID identifies a wallet in local storage and in the wallet registry.
type WalletID string

// WalletKind distinguishes custodial from self-custodial wallets.
type WalletKind string

var (
	WalletKindPrimal WalletKind = "primal"
	WalletKindSpark  WalletKind = "spark"
)

// SubAccount selects a sub-account of the custodial ledger.
type SubAccount string

// SubAccountOpen is the default custodial sub-account holding user funds.
var SubAccountOpen SubAccount = "open"

// Wallet is a locally stored wallet row.
type Wallet struct {
	ID         WalletID
	UserID     string
	Kind       WalletKind
	IsActive   bool
	BalanceBTC decimal.Decimal
}

// SparkWalletData carries the history import state of a self-custodial wallet.
// ImportCursor is nil either before the first page or after a full import;
// TxsMigrated tells the two apart.
type SparkWalletData struct {
	WalletID     WalletID
	UserID       string
	ImportCursor *int64
	TxsMigrated  bool
}

// Invoice is a Lightning payment request together with its decoded amount.
type Invoice struct {
	PaymentRequest string
	AmountSats     int64
}

// WithdrawRequest instructs the custodial ledger to pay an invoice.
type WithdrawRequest struct {
	SubAccount SubAccount
	Invoice    string
	Note       string
}

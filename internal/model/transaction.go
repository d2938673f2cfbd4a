package model

import "github.com/shopspring/decimal"

// TxType is the direction of a wallet transaction.
type TxType string

var (
	TxTypeDeposit  TxType = "DEPOSIT"
	TxTypeWithdraw TxType = "WITHDRAW"
)

// LedgerTransaction is a transaction as returned by the custodial ledger.
type LedgerTransaction struct {
	ID                    string
	Type                  TxType
	State                 string
	CreatedAt             int64
	UpdatedAt             int64
	CompletedAt           *int64
	AmountBTC             decimal.Decimal
	AmountUSD             *decimal.Decimal
	TotalFeeBTC           *decimal.Decimal
	Note                  string
	Invoice               string
	IsZap                 bool
	OtherUserID           string
	OtherLightningAddress string
}

// LedgerTransactionsPage is one page of custodial history. Until points at the
// oldest transaction of the page and is nil when the ledger has nothing older.
type LedgerTransactionsPage struct {
	Transactions []LedgerTransaction
	Until        *int64
}

// WalletTransaction is a transaction row stored locally for a wallet.
type WalletTransaction struct {
	TransactionID         string
	WalletID              WalletID
	UserID                string
	Type                  TxType
	State                 string
	CreatedAt             int64
	UpdatedAt             int64
	CompletedAt           *int64
	AmountBTC             decimal.Decimal
	AmountUSD             *decimal.Decimal
	TotalFeeBTC           *decimal.Decimal
	Note                  string
	Invoice               string
	IsZap                 bool
	OtherUserID           string
	OtherLightningAddress string
}

package primal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
)

type balanceResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type withdrawRequest struct {
	SubWallet string `json:"subwallet"`
	Invoice   string `json:"lnInvoice"`
	Note      string `json:"note,omitempty"`
}

type transactionDTO struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	State       string           `json:"state"`
	CreatedAt   int64            `json:"created_at"`
	UpdatedAt   int64            `json:"updated_at"`
	CompletedAt *int64           `json:"completed_at"`
	AmountBTC   decimal.Decimal  `json:"amount_btc"`
	AmountUSD   *decimal.Decimal `json:"amount_usd"`
	TotalFeeBTC *decimal.Decimal `json:"total_fee_btc"`
	Note        string           `json:"note"`
	Invoice     string           `json:"invoice"`
	IsZap       bool             `json:"is_zap"`
	OtherPubkey string           `json:"other_pubkey"`
	OtherLud16  string           `json:"other_lud16"`
}

type transactionsResponse struct {
	Transactions []transactionDTO `json:"transactions"`
	Paging       struct {
		Until *int64 `json:"until"`
	} `json:"paging"`
}

// GetBalance returns the BTC balance of the user's custodial wallet.
func (c *Client) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var resp balanceResponse
	query := url.Values{"subwallet": {string(model.SubAccountOpen)}}
	if err := c.call(ctx, "get_balance", http.MethodGet, c.endpoint(query, "v1", "users", userID, "balance"), nil, &resp); err != nil {
		return decimal.Zero, err
	}
	if resp.Currency != "" && resp.Currency != "BTC" {
		return decimal.Zero, fmt.Errorf("get_balance: unexpected currency %q", resp.Currency)
	}
	return resp.Amount, nil
}

// Withdraw pays req.Invoice from the custodial wallet.
func (c *Client) Withdraw(ctx context.Context, userID string, req model.WithdrawRequest) error {
	body := withdrawRequest{
		SubWallet: string(req.SubAccount),
		Invoice:   req.Invoice,
		Note:      req.Note,
	}
	return c.call(ctx, "withdraw", http.MethodPost, c.endpoint(nil, "v1", "users", userID, "withdraw"), body, nil)
}

// GetTransactions returns up to limit transactions older than until, newest first.
func (c *Client) GetTransactions(ctx context.Context, userID string, subAccount model.SubAccount, limit int, until *int64) (model.LedgerTransactionsPage, error) {
	query := url.Values{
		"subwallet": {string(subAccount)},
		"limit":     {strconv.Itoa(limit)},
	}
	if until != nil {
		query.Set("until", strconv.FormatInt(*until, 10))
	}

	var resp transactionsResponse
	if err := c.call(ctx, "get_transactions", http.MethodGet, c.endpoint(query, "v1", "users", userID, "transactions"), nil, &resp); err != nil {
		return model.LedgerTransactionsPage{}, err
	}

	page := model.LedgerTransactionsPage{
		Transactions: make([]model.LedgerTransaction, 0, len(resp.Transactions)),
		Until:        resp.Paging.Until,
	}
	for _, tx := range resp.Transactions {
		page.Transactions = append(page.Transactions, model.LedgerTransaction{
			ID:                    tx.ID,
			Type:                  model.TxType(tx.Type),
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
			OtherUserID:           tx.OtherPubkey,
			OtherLightningAddress: tx.OtherLud16,
		})
	}
	if page.Until == nil && len(page.Transactions) > 0 {
		oldest := page.Transactions[len(page.Transactions)-1].CreatedAt
		page.Until = &oldest
	}
	return page, nil
}

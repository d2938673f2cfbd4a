package utils

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

// BtcToSatoshis converts a decimal BTC amount to satoshis. Amounts with
// sub-satoshi precision or outside the valid range are rejected.
func BtcToSatoshis(value decimal.Decimal) (btcutil.Amount, error) {
	if value.IsNegative() {
		return 0, fmt.Errorf("negative amount: %s", value.String())
	}
	sats := value.Shift(8)
	if !sats.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-satoshi precision", value.String())
	}
	if sats.GreaterThan(decimal.NewFromInt(int64(btcutil.MaxSatoshi))) {
		return 0, fmt.Errorf("amount %s exceeds max supply", value.String())
	}
	return btcutil.Amount(sats.IntPart()), nil
}

// SatoshisToBtc converts satoshis back to a decimal BTC amount.
func SatoshisToBtc(amount btcutil.Amount) decimal.Decimal {
	return decimal.New(int64(amount), -8)
}

// Package lightning decodes BOLT-11 payment requests.
package lightning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/zpay32"
)

// ErrNoAmount is returned for invoices that leave the amount to the payer.
var ErrNoAmount = errors.New("invoice has no amount")

// Decoder reads amounts out of invoices issued for a single network.
type Decoder struct {
	params *chaincfg.Params
}

// NewDecoder returns a decoder for the named network.
func NewDecoder(network string) (*Decoder, error) {
	params, err := NetParams(network)
	if err != nil {
		return nil, err
	}
	return &Decoder{params: params}, nil
}

// NetParams resolves a network name to chain parameters.
func NetParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "simnet":
		return &chaincfg.SimNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q", network)
	}
}

// DecodeAmount returns the amount encoded in the invoice, truncated to whole satoshis.
func (d *Decoder) DecodeAmount(invoice string) (btcutil.Amount, error) {
	decoded, err := zpay32.Decode(strings.TrimPrefix(strings.TrimSpace(invoice), "lightning:"), d.params)
	if err != nil {
		return 0, fmt.Errorf("decode invoice: %w", err)
	}
	if decoded.MilliSat == nil {
		return 0, ErrNoAmount
	}
	return decoded.MilliSat.ToSatoshis(), nil
}

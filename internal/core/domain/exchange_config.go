package domain

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	ConfigKeyExchangeWallet   = "exchange_wallet_address"
	ConfigKeyCommitmentFeeUSD = "commitment_fee_usd"

	xchAddressPrefix = "xch1"
	xchAddressLength = 62
)

// DefaultCommitmentFeeUSD is used when no fee has been configured.
var DefaultCommitmentFeeUSD = decimal.NewFromInt(1)

// ConfigEntry is a key/value pair of the exchange configuration.
type ConfigEntry struct {
	Key   string
	Value string
}

// ExchangeWallet is the wallet commitment fees are paid to.
type ExchangeWallet struct {
	Address          string
	CommitmentFeeUSD decimal.Decimal
}

// NewExchangeWallet validates the address and defaults the fee.
func NewExchangeWallet(address string, fee decimal.NullDecimal) (*ExchangeWallet, error) {
	if err := ValidateXCHAddress(address); err != nil {
		return nil, err
	}
	feeUSD := DefaultCommitmentFeeUSD
	if fee.Valid {
		if fee.Decimal.IsNegative() {
			return nil, ErrTradeInvalidValue
		}
		feeUSD = fee.Decimal
	}
	return &ExchangeWallet{Address: address, CommitmentFeeUSD: feeUSD}, nil
}

// Entries returns the config entries to upsert.
func (w *ExchangeWallet) Entries() []ConfigEntry {
	return []ConfigEntry{
		{Key: ConfigKeyExchangeWallet, Value: w.Address},
		{Key: ConfigKeyCommitmentFeeUSD, Value: w.CommitmentFeeUSD.String()},
	}
}

// ValidateXCHAddress checks the bech32m-like shape of a mainnet address.
func ValidateXCHAddress(address string) error {
	if !strings.HasPrefix(address, xchAddressPrefix) ||
		len(address) != xchAddressLength {
		return ErrInvalidXCHAddress
	}
	return nil
}

// ConfigRepository is the abstraction for any kind of database intended to
// persist the exchange configuration.
type ConfigRepository interface {
	// GetConfigValue returns the value for key or ErrConfigNotFound.
	GetConfigValue(ctx context.Context, key string) (string, error)
	// UpsertConfigValues sets all the given entries atomically.
	UpsertConfigValues(ctx context.Context, entries ...ConfigEntry) error
}

package domain_test

import (
	"strings"
	"testing"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewExchangeWallet(t *testing.T) {
	t.Parallel()

	address := "xch1" + strings.Repeat("q", 58)

	w, err := domain.NewExchangeWallet(address, decimal.NullDecimal{})
	require.NoError(t, err)
	require.True(t, w.CommitmentFeeUSD.Equal(domain.DefaultCommitmentFeeUSD))

	w, err = domain.NewExchangeWallet(
		address, decimal.NewNullDecimal(decimal.RequireFromString("2.5")),
	)
	require.NoError(t, err)
	require.Equal(t, []domain.ConfigEntry{
		{Key: domain.ConfigKeyExchangeWallet, Value: address},
		{Key: domain.ConfigKeyCommitmentFeeUSD, Value: "2.5"},
	}, w.Entries())

	for _, bad := range []string{
		"", "xch1short", "txch1" + strings.Repeat("q", 57), address + "q",
	} {
		_, err := domain.NewExchangeWallet(bad, decimal.NullDecimal{})
		require.ErrorIs(t, err, domain.ErrInvalidXCHAddress, bad)
	}
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	require.Equal(t, domain.Page{Limit: 50, Offset: 0}, domain.NewPage(0, -1))
	require.Equal(t, domain.Page{Limit: 100, Offset: 10}, domain.NewPage(500, 10))

	start, end := domain.NewPage(2, 1).Apply(5)
	require.Equal(t, 1, start)
	require.Equal(t, 3, end)

	start, end = domain.NewPage(2, 10).Apply(5)
	require.Equal(t, start, end)
}

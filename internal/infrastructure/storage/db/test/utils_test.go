package db_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/dtrex-network/dtrex-daemon/internal/core/domain"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	dbbadger "github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/badger"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type repoManager struct {
	Name string
	ports.RepoManager
}

func createRepoManagers(t *testing.T) []repoManager {
	badgerDBManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(badgerDBManager.Close)

	managers := []repoManager{
		{Name: "inmemory", RepoManager: inmemory.NewRepoManager()},
		{Name: "badger", RepoManager: badgerDBManager},
	}
	if pg := newPgRepoManager(t); pg != nil {
		managers = append(managers, repoManager{Name: "postgres", RepoManager: pg})
	}
	return managers
}

func makeRandomTrade(t *testing.T) *domain.Trade {
	trade, err := domain.NewTrade(
		randomUserID(),
		domain.Item{
			Title:       randomHex(8),
			Description: randomHex(16),
			Condition:   "new",
			ValueUSD:    decimal.NewFromInt(int64(randomIntInRange(1, 500))),
		},
		[]domain.WishlistItem{
			{Type: domain.OfferKindItem, ItemDescription: randomHex(8)},
			{Type: domain.OfferKindXCH, XCHAmount: 1000},
		},
	)
	require.NoError(t, err)
	return trade
}

// addMatchedTrade stores a trade accepted by a random user.
func addMatchedTrade(t *testing.T, repo domain.TradeRepository) *domain.Trade {
	trade := makeRandomTrade(t)
	require.NoError(t, repo.AddTrade(ctx, trade))

	acceptorID := randomUserID()
	updated, err := repo.UpdateTrade(
		ctx, trade.ID, domain.TradeCondition{},
		func(t *domain.Trade) (*domain.Trade, error) {
			if err := t.Accept(acceptorID, domain.Offer{
				Kind:      domain.OfferKindXCH,
				XCHAmount: 5000,
			}); err != nil {
				return nil, err
			}
			return t, nil
		},
	)
	require.NoError(t, err)
	return updated
}

func makeCommitmentFee(
	t *testing.T, trade *domain.Trade, userID int64,
) *domain.TradeTransaction {
	tx, err := domain.NewTradeTransaction(
		trade.ID, userID, domain.TxTypeCommitmentFee, "",
		"xch1from", "xch1to", 1000000000,
	)
	require.NoError(t, err)
	return tx
}

func randomUserID() int64 {
	return int64(randomIntInRange(1, 1<<40))
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func randomIntInRange(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	return int(n.Int64()) + min
}

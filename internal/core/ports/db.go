package ports

import "github.com/dtrex-network/dtrex-daemon/internal/core/domain"

// RepoManager interface defines the methods to access the repositories of
// every entity.
type RepoManager interface {
	TradeRepository() domain.TradeRepository
	TransactionRepository() domain.TransactionRepository
	ReviewRepository() domain.ReviewRepository
	ConfigRepository() domain.ConfigRepository

	Close()
}

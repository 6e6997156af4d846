package application

import (
	"fmt"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/ledger"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/pubsub"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/reputation"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/trade"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/verifier"
	"github.com/dtrex-network/dtrex-daemon/internal/core/ports"
	dbbadger "github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/badger"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/dtrex-network/dtrex-daemon/internal/infrastructure/storage/db/pg"
	log "github.com/sirupsen/logrus"
)

const (
	DBPostgres = "postgres"
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBPostgres: {},
		DBBadger:   {},
		DBInMemory: {},
	}
)

type Config struct {
	DBType string
	// DBConfig is the datadir for badger and a postgresdb.DbConfig for
	// postgres. It is ignored for inmemory.
	DBConfig interface{}

	Notifier      ports.Notifier
	ChainObserver ports.ChainObserver
	Verifier      verifier.Config

	repo       ports.RepoManager
	pubsub     *pubsub.Service
	trade      *trade.Service
	ledger     *ledger.Service
	reputation *reputation.Service
	verifier   *verifier.Service
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("db type %s not supported", c.DBType)
	}
	if c.ChainObserver == nil {
		return fmt.Errorf("missing chain observer")
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.verifierService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) PubSubService() *pubsub.Service {
	svc, _ := c.pubsubService()
	return svc
}

func (c *Config) TradeService() *trade.Service {
	svc, _ := c.tradeService()
	return svc
}

func (c *Config) LedgerService() *ledger.Service {
	svc, _ := c.ledgerService()
	return svc
}

func (c *Config) ReputationService() *reputation.Service {
	svc, _ := c.reputationService()
	return svc
}

func (c *Config) VerifierService() *verifier.Service {
	svc, _ := c.verifierService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo != nil {
		return c.repo, nil
	}

	var (
		repoManager ports.RepoManager
		err         error
	)
	switch c.DBType {
	case DBBadger:
		datadir, _ := c.DBConfig.(string)
		repoManager, err = dbbadger.NewRepoManager(datadir, log.New())
	case DBPostgres:
		dbConfig, ok := c.DBConfig.(postgresdb.DbConfig)
		if !ok {
			return nil, fmt.Errorf("invalid postgres db config")
		}
		repoManager, err = postgresdb.NewRepoManager(dbConfig)
	case DBInMemory:
		repoManager = inmemory.NewRepoManager()
	default:
		return nil, fmt.Errorf("db type %s not supported", c.DBType)
	}
	if err != nil {
		return nil, err
	}
	c.repo = repoManager
	return c.repo, nil
}

func (c *Config) pubsubService() (*pubsub.Service, error) {
	if c.pubsub == nil {
		c.pubsub = pubsub.NewService(c.Notifier)
	}
	return c.pubsub, nil
}

func (c *Config) tradeService() (*trade.Service, error) {
	if c.trade == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		pubsubSvc, _ := c.pubsubService()
		svc, err := trade.NewService(pubsubSvc, repo)
		if err != nil {
			return nil, err
		}
		c.trade = svc
	}
	return c.trade, nil
}

func (c *Config) ledgerService() (*ledger.Service, error) {
	if c.ledger == nil {
		tradeSvc, err := c.tradeService()
		if err != nil {
			return nil, err
		}
		repo, _ := c.repoManager()
		pubsubSvc, _ := c.pubsubService()
		svc, err := ledger.NewService(repo, tradeSvc, pubsubSvc)
		if err != nil {
			return nil, err
		}
		c.ledger = svc
	}
	return c.ledger, nil
}

func (c *Config) reputationService() (*reputation.Service, error) {
	if c.reputation == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		svc, err := reputation.NewService(repo)
		if err != nil {
			return nil, err
		}
		c.reputation = svc
	}
	return c.reputation, nil
}

func (c *Config) verifierService() (*verifier.Service, error) {
	if c.verifier == nil {
		ledgerSvc, err := c.ledgerService()
		if err != nil {
			return nil, err
		}
		svc, err := verifier.NewService(ledgerSvc, c.ChainObserver, c.Verifier)
		if err != nil {
			return nil, err
		}
		c.verifier = svc
	}
	return c.verifier, nil
}

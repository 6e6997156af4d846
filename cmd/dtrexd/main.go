package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/config"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/verifier"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/chain/chia"
	"github.com/dtrex-network/dtrex-daemon/internal/infrastructure/pubsub"
	httpinterface "github.com/dtrex-network/dtrex-daemon/internal/interfaces/http"
	"github.com/dtrex-network/dtrex-daemon/pkg/stats"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	closeLog := initLogger(
		config.GetInt(config.LogLevelKey), config.GetString(config.LogFileKey),
	)
	defer closeLog()

	if err := run(); err != nil {
		log.WithError(err).Error("daemon exited with error")
		closeLog()
		os.Exit(1)
	}
	log.Info("shutdown")
}

func run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	datadir := config.GetDatadir()
	dbType := config.GetString(config.DBTypeKey)

	chainSvc, err := chia.NewService(chia.Config{
		NodeURL:   config.GetString(config.NodeRPCURLKey),
		WalletURL: config.GetString(config.WalletRPCURLKey),
		CertFile:  config.GetString(config.NodeTLSCertKey),
		KeyFile:   config.GetString(config.NodeTLSKeyKey),
		CAFile:    config.GetString(config.NodeTLSCAKey),
		Insecure:  config.GetBool(config.NodeTLSInsecureKey),
		Timeout:   config.GetDuration(config.NodeRPCTimeoutKey),
	})
	if err != nil {
		return fmt.Errorf("chain observer: %w", err)
	}

	pubsubDatadir := datadir
	if dbType == application.DBInMemory {
		pubsubDatadir = ""
	}
	notifier, err := pubsub.NewService(
		pubsubDatadir, config.GetDuration(config.WebhookTimeoutKey), log.New(),
	)
	if err != nil {
		return fmt.Errorf("webhook notifier: %w", err)
	}

	var dbConfig interface{}
	switch dbType {
	case application.DBBadger:
		dbConfig = config.GetDbDir()
	case application.DBPostgres:
		if dbConfig, err = config.GetPostgresConfig(); err != nil {
			return err
		}
	}

	appConfig := &application.Config{
		DBType:        dbType,
		DBConfig:      dbConfig,
		Notifier:      notifier,
		ChainObserver: chainSvc,
		Verifier: verifier.Config{
			Interval:         config.GetDuration(config.VerifyIntervalKey),
			MinConfirmations: config.GetUint64(config.MinConfirmationsKey),
			CleanupInterval:  config.GetDuration(config.CleanupIntervalKey),
			StaleAge:         config.GetDuration(config.StalePendingAgeKey),
			PendingExpiry:    config.GetDuration(config.PendingExpiryKey),
		},
	}
	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("invalid app config: %w", err)
	}
	defer appConfig.RepoManager().Close()
	// Pending webhook deliveries complete before the db is closed.
	defer appConfig.PubSubService().Close()

	tokenValidator, err := httpinterface.NewJWTValidator(
		config.GetString(config.AuthSecretKey),
	)
	if err != nil {
		return err
	}
	rpcSvc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:            fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey)),
		TLSKey:             config.GetString(config.TLSKeyKey),
		TLSCert:            config.GetString(config.TLSCertKey),
		CORSAllowedOrigins: config.GetStringSlice(config.CORSAllowedOriginsKey),
		RateLimit:          config.GetFloat(config.RPCRateLimitKey),
		RateBurst:          config.GetInt(config.RPCRateBurstKey),
		TokenValidator:     tokenValidator,
		TradeSvc:           appConfig.TradeService(),
		LedgerSvc:          appConfig.LedgerService(),
		ReputationSvc:      appConfig.ReputationService(),
		PubSubSvc:          appConfig.PubSubService(),
	})
	if err != nil {
		return err
	}
	verifierSvc := appConfig.VerifierService()

	if config.GetBool(config.EnableProfilerKey) {
		stats.EnableMemoryStatistics(
			ctx,
			time.Duration(config.GetInt(config.StatsIntervalKey))*time.Second,
			filepath.Join(config.GetProfilerDir(), fmt.Sprintf("metrics-%d.txt", time.Now().Unix())),
		)
	}

	g := &errgroup.Group{}
	g.Go(verifierSvc.Start)
	g.Go(rpcSvc.Start)
	if err := g.Wait(); err != nil {
		verifierSvc.Stop()
		rpcSvc.Stop()
		return err
	}

	log.Infof("dtrex daemon started (db: %s, datadir: %s)", dbType, datadir)

	<-ctx.Done()
	log.Info("shutting down daemon")

	rpcSvc.Stop()
	verifierSvc.Stop()
	return nil
}

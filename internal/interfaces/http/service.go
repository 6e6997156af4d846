package httpinterface

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dtrex-network/dtrex-daemon/internal/core/application/ledger"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/pubsub"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/reputation"
	"github.com/dtrex-network/dtrex-daemon/internal/core/application/trade"
	interfaces "github.com/dtrex-network/dtrex-daemon/internal/interfaces"
	"github.com/dtrex-network/dtrex-daemon/pkg/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type ServiceOpts struct {
	Address            string
	TLSKey             string
	TLSCert            string
	CORSAllowedOrigins []string
	// RateLimit is the number of requests per second allowed per client, 0
	// disables limiting.
	RateLimit float64
	RateBurst int

	TokenValidator TokenValidator

	TradeSvc      *trade.Service
	LedgerSvc     *ledger.Service
	ReputationSvc *reputation.Service
	PubSubSvc     *pubsub.Service
}

func (o ServiceOpts) validate() error {
	if o.Address == "" {
		return fmt.Errorf("missing listening address")
	}
	if (o.TLSKey == "") != (o.TLSCert == "") {
		return fmt.Errorf("tls key and cert must be either both set or not")
	}
	if o.TokenValidator == nil {
		return fmt.Errorf("token validator must not be null")
	}
	if o.TradeSvc == nil {
		return fmt.Errorf("trade app service must not be null")
	}
	if o.LedgerSvc == nil {
		return fmt.Errorf("ledger app service must not be null")
	}
	if o.ReputationSvc == nil {
		return fmt.Errorf("reputation app service must not be null")
	}
	if o.PubSubSvc == nil {
		return fmt.Errorf("pubsub app service must not be null")
	}
	return nil
}

// NewRouter returns the handler serving the JSON-RPC endpoint together with
// the health and metrics ones.
func NewRouter(opts ServiceOpts) http.Handler {
	rpc := &rpcHandler{methods: make(map[string]method)}
	for _, methods := range []map[string]method{
		newTradeHandler(opts.TradeSvc).methods(),
		newReviewHandler(opts.ReputationSvc).methods(),
		newLedgerHandler(opts.LedgerSvc).methods(),
		newAdminHandler(opts.TradeSvc, opts.PubSubSvc).methods(),
	} {
		for name, m := range methods {
			rpc.methods[name] = m
		}
	}

	allowedOrigins := opts.CORSAllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	limiter := newRateLimiter(opts.RateLimit, opts.RateBurst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", stats.Handler())
	r.With(limiter.middleware, authenticate(opts.TokenValidator)).
		Method(http.MethodPost, "/rpc", rpc)

	return r
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	return &service{opts: opts}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	if s.opts.TLSKey != "" {
		certificate, err := tls.LoadX509KeyPair(s.opts.TLSCert, s.opts.TLSKey)
		if err != nil {
			lis.Close()
			return err
		}
		lis = tls.NewListener(lis, &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{certificate},
		})
	}

	s.server = &http.Server{
		Handler:           NewRouter(s.opts),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		if err := s.server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("rpc server stopped unexpectedly")
		}
	}()

	log.Infof("rpc interface listening on %s", s.opts.Address)
	return nil
}

func (s *service) Stop() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop rpc interface")
	}
	log.Debug("disabled rpc interface")
}

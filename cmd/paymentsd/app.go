package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gigconnect/payments/internal/db"
	"github.com/gigconnect/payments/internal/handlers"
	"github.com/gigconnect/payments/internal/logger"
	"github.com/gigconnect/payments/internal/repository/postgres"
	"github.com/gigconnect/payments/internal/service/fee"
	"github.com/gigconnect/payments/internal/service/notification"
	"github.com/gigconnect/payments/internal/service/payment"
	"github.com/gigconnect/payments/internal/service/wallet"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger     logger.Logger
	dispatcher *notification.Dispatcher
	closeFns   []func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	platformFee, err := fee.New(c.FeeRate)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while parsing platform fee rate. Err: %w", err)
	}
	walletService := wallet.NewService(storage, platformFee)
	paymentService := payment.NewService(storage, platformFee)

	app := &ServerApp{
		ListenAddr: c.ListenAddr,
		logger:     l,
		closeFns:   []func(){pool.Close},
	}

	// Wallet events go to the broker only when one is configured
	if c.AMQPUrl != "" {
		publisher, err := notification.NewAMQPPublisher(c.AMQPUrl, c.AMQPExchange)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("error while connecting to amqp broker. Err: %w", err)
		}
		app.closeFns = append(app.closeFns, func() {
			if err := publisher.Close(); err != nil {
				l.Warn("Failed to close amqp publisher", "error", err.Error())
			}
		})
		app.dispatcher = notification.NewDispatcher(storage, publisher, l, 0, 0)
	}

	app.Handler = handlers.NewRouter(walletService, paymentService, l)

	return app, nil
}

// Close releases app resources (db pool, broker connection)
func (s *ServerApp) Close() {
	for i := len(s.closeFns) - 1; i >= 0; i-- {
		s.closeFns[i]()
	}
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	if s.dispatcher != nil {
		s.dispatcher.Run(srvCtx)
	}

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}

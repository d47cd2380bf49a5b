package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/atlasbank/core-banking/internal/adapter/events"
	"github.com/atlasbank/core-banking/internal/adapter/http/controller"
	"github.com/atlasbank/core-banking/internal/adapter/http/middleware"
	"github.com/atlasbank/core-banking/internal/adapter/http/router"
	"github.com/atlasbank/core-banking/internal/adapter/repository/postgres"
	"github.com/atlasbank/core-banking/internal/config"
	"github.com/atlasbank/core-banking/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(migrateCtx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	var publisher events.Publisher = events.NewNoOpPublisher()
	if cfg.AMQPURL != "" {
		rabbit, err := events.NewRabbitMQPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("connect event broker: %v", err)
		}
		publisher = rabbit
	}
	defer publisher.Close()

	accountRepo := postgres.NewAccountRepository(db)
	transferRepo := postgres.NewTransferRepository(db)
	creditRepo := postgres.NewCreditRequestRepository(db)
	cardRepo := postgres.NewCardRepository(db)

	idGen := services.NewIdentifierGenerator(rand.NewSource(time.Now().UnixNano()))

	accountService := services.NewAccountService(accountRepo, idGen)
	transferService := services.NewTransferService(transferRepo, accountRepo, publisher)
	creditService := services.NewCreditService(creditRepo, accountRepo, publisher)
	cardService := services.NewCardService(cardRepo, accountRepo, idGen, publisher)

	authMiddleware := middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey)

	handler := router.New(
		controller.NewAccountController(accountService),
		controller.NewTransferController(transferService),
		controller.NewCreditController(creditService),
		controller.NewCardController(cardService),
		authMiddleware,
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
	log.Println("server stopped")
}

package main

import (
	"context"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/worklane/worklane-backend/config"
	"github.com/worklane/worklane-backend/internal/bootstrap"
	"github.com/worklane/worklane-backend/internal/identity"
	"github.com/worklane/worklane-backend/internal/messaging"
	"github.com/worklane/worklane-backend/internal/payments"
	"github.com/worklane/worklane-backend/internal/storage/postgres"
)

// The worker hosts the consumer side of the payments and identity domains:
// account-linked facts land on local profiles, cancellation requests are
// forwarded to the payment provider.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	defer rdb.Close()

	profileRepo := identity.NewProfileRepository(db)
	intentRepo := payments.NewIntentRepository(db)
	provider := payments.NewProviderClient(cfg.Provider.BaseURL, cfg.Provider.APIKey)

	consumers := []*messaging.Consumer{
		messaging.NewConsumer(rdb, cfg.Topics.EmployerAccountLinked, cfg.Topics.ConsumerGroup, "worker",
			identity.EmployerAccountLinkedHandler(profileRepo)),
		messaging.NewConsumer(rdb, cfg.Topics.FreelancerAccountLinked, cfg.Topics.ConsumerGroup, "worker",
			identity.FreelancerAccountLinkedHandler(profileRepo)),
		messaging.NewConsumer(rdb, cfg.Topics.PaymentCancellation, cfg.Topics.ConsumerGroup, "worker",
			payments.CancellationHandler(provider, intentRepo)),
	}

	var wg sync.WaitGroup
	for _, c := range consumers {
		wg.Add(1)
		go func(c *messaging.Consumer) {
			defer wg.Done()
			c.Run(ctx)
		}(c)
	}

	log.Printf("worker started with %d consumers", len(consumers))
	<-ctx.Done()
	log.Println("shutting down")
	wg.Wait()
}

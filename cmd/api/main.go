package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/worklane/worklane-backend/config"
	"github.com/worklane/worklane-backend/internal/bootstrap"
	"github.com/worklane/worklane-backend/internal/messaging"
	cronjob "github.com/worklane/worklane-backend/internal/projects/cron"
	projectshttp "github.com/worklane/worklane-backend/internal/projects/http"
	"github.com/worklane/worklane-backend/internal/projects/repository"
	"github.com/worklane/worklane-backend/internal/projects/service"
	"github.com/worklane/worklane-backend/internal/storage/postgres"
)

const sweepJobName = "lifecycle-sweep"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

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

	projectRepo := repository.NewProjectRepository(db)
	lifecycleRepo := repository.NewLifecycleRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	publisher := messaging.NewPublisher(rdb)
	paymentProducer := messaging.NewPaymentProducer(publisher, cfg.Topics)

	projectService := service.NewProjectService(projectRepo, lifecycleRepo, paymentProducer)
	applicationService := service.NewApplicationService(applicationRepo, lifecycleRepo)

	// Background loops: the sweeper on its cron schedule, one consumer per
	// inbound topic. All of them stop through ctx.
	sweeper := service.NewSweeper(lifecycleRepo, applicationRepo)
	scheduler := cronjob.NewScheduler()
	err = scheduler.Register(sweepJobName, cfg.Sweeper.Spec, func() {
		sweeper.Tick(ctx)
	})
	if err != nil {
		log.Fatalf("register sweep job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	intentConsumer := messaging.NewConsumer(
		rdb, cfg.Topics.PaymentIntentLinked, cfg.Topics.ConsumerGroup, "marketplace-api",
		service.PaymentIntentLinkedHandler(projectRepo))
	go intentConsumer.Run(ctx)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "worklane-marketplace",
		Version:     cfg.App.Version,
		DB:          db,
		Projects:    projectshttp.NewHandler(projectService, applicationService),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("marketplace api listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}

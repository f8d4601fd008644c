package main

import (
	"context"
	"log"
	"net/http"

	"meetnotes/api/router"
	"meetnotes/config"
	"meetnotes/db"
	"meetnotes/logger"
	"meetnotes/mailer"
	"meetnotes/observability"
	"meetnotes/repositories"
	"meetnotes/services"
	"meetnotes/summarizer"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		log.Fatal("failed to initialize MongoDB:", err)
	}

	sum, err := summarizer.New(ctx)
	if err != nil {
		log.Fatal("failed to initialize summarizer:", err)
	}

	metrics := observability.NewMetrics()
	svc := services.NewTranscriptService(services.Dependencies{
		Transcripts: repositories.NewTranscriptRepository(db.Database()),
		EmailLogs:   repositories.NewEmailLogRepository(db.Database()),
		AILogs:      repositories.NewAILogRepository(db.Database()),
		Summarizer:  sum,
		Mailer:      mailer.New(cfg),
		Metrics:     metrics,
	}, services.Options{
		ModelName:        sum.ModelName(),
		DefaultSubject:   cfg.Mail.DefaultSubject,
		SummarizeTimeout: cfg.SummarizeTimeout(),
		SendTimeout:      cfg.MailTimeout(),
	})

	r := router.New(router.Deps{Service: svc, Metrics: metrics})
	if err := r.Run(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

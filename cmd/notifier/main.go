package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"go-ats/internal/config"
	"go-ats/internal/notify"
	"go-ats/internal/shared/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required for the notifier")
	}

	zl, err := logger.Init(cfg.IsProduction())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	mailer := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, zl)

	consumer := notify.NewConsumer(cfg.KafkaBrokers, mailer, zl)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zl.Info("notifier running", zap.Strings("brokers", cfg.KafkaBrokers))
	if err := consumer.Run(ctx); err != nil {
		zl.Fatal("consumer error", zap.Error(err))
	}
}

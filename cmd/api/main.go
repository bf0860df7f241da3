package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"go-ats/internal/app"
	"go-ats/internal/bootstrap"
	"go-ats/internal/config"
	"go-ats/internal/shared/apperror"
	"go-ats/internal/shared/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	apperror.Init()

	zl, err := logger.Init(cfg.IsProduction())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	reg, err := app.NewRegistry(context.Background(), cfg, zl)
	if err != nil {
		zl.Fatal("build registry", zap.Error(err))
	}
	defer reg.Close()

	router := app.NewRouter(cfg, reg, zl)
	if err := bootstrap.Serve(":"+cfg.HTTPPort, router, zl); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}

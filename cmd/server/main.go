package main

import (
	"AgroKeeper/internal/ai"
	"AgroKeeper/internal/config"
	"AgroKeeper/internal/handlers"
	"AgroKeeper/internal/middleware"
	"AgroKeeper/internal/repo"
	"AgroKeeper/internal/service"
	"AgroKeeper/internal/storage"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	// Опциональные коллабораторы: без настроек сервис работает без них.
	var uploader storage.Uploader
	if cfg.StorageConfigured() {
		cs, err := storage.NewCloudStorage(cfg, sugar)
		if err != nil {
			sugar.Fatalw("failed to initialize cloud storage", "error", err)
		}
		uploader = cs
	} else {
		sugar.Warnw("cloud storage not configured, uploads disabled")
	}

	var generator ai.KeywordGenerator
	if cfg.AIConfigured() {
		gen, err := ai.NewGenerator(cfg, sugar)
		if err != nil {
			sugar.Fatalw("failed to initialize keyword generator", "error", err)
		}
		generator = gen
	} else {
		sugar.Warnw("AI model not configured, fallback keywords only")
	}

	materialRepo := repo.NewMaterialRepository(gormDB)
	materialService := service.NewMaterialService(materialRepo, uploader, generator, sugar)

	h := handlers.NewHandler(materialService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"StorageConfigured", cfg.StorageConfigured(),
		"AIConfigured", cfg.AIConfigured(),
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}

package handlers

import (
	"AgroKeeper/internal/config"
	"AgroKeeper/internal/middleware"
	"AgroKeeper/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	materialService *service.MaterialService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	mh := NewMaterialHandler(materialService, logger, config)

	r.Post("/api/upload", mh.Upload)
	r.Get("/api/materials", mh.List)
	r.Delete("/api/materials/batch", mh.BatchDelete)
	r.Delete("/api/materials/clear", mh.ClearAll)
	r.Get("/api/materials/{id}", mh.Get)
	r.Delete("/api/materials/{id}", mh.Delete)
	r.Post("/api/materials/{id}/reanalyze", mh.Reanalyze)
	r.Get("/api/timeline", mh.Timeline)
	r.Get("/api/health", mh.Health)

	return &Handler{Router: r}
}

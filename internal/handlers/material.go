package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"AgroKeeper/internal/config"
	"AgroKeeper/internal/service"
)

// MaterialHandler обрабатывает HTTP-запросы каталога материалов.
type MaterialHandler struct {
	Service *service.MaterialService
	Logger  *zap.SugaredLogger
	Config  *config.Config
}

// NewMaterialHandler создаёт хендлер каталога.
func NewMaterialHandler(s *service.MaterialService, logger *zap.SugaredLogger, cfg *config.Config) *MaterialHandler {
	return &MaterialHandler{Service: s, Logger: logger, Config: cfg}
}

// writeJSON сериализует успешный ответ.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError — единый формат ошибки: {"error": "..."}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Upload принимает multipart-поле "files" и прогоняет пайплайн загрузки.
func (h *MaterialHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBody := int64(h.Config.UploadMaxSizeMB) * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.Logger.Warnw("Upload: invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if headers == nil {
		writeError(w, http.StatusBadRequest, "no files field")
		return
	}

	files := make([]service.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.Logger.Warnw("Upload: cannot open part", "filename", fh.Filename, "error", err)
			continue
		}
		defer f.Close()
		files = append(files, service.UploadedFile{
			Filename: fh.Filename,
			Size:     fh.Size,
			Content:  f,
		})
	}

	res, err := h.Service.Upload(r.Context(), files)
	if err != nil {
		if errors.Is(err, service.ErrStorageUnavailable) {
			h.Logger.Errorw("Upload: storage unavailable")
			writeError(w, http.StatusInternalServerError, "cloud storage unavailable")
			return
		}
		h.Logger.Errorw("Upload: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   fmt.Sprintf("uploaded %d files", res.Count),
		"count":     res.Count,
		"materials": res.Materials,
	})
}

// Get отдаёт одну запись каталога.
func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dto, err := h.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "material not found")
			return
		}
		h.Logger.Errorw("Get: service error", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"material": dto})
}

// List отдаёт страницу каталога (page, per_page).
func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	res, err := h.Service.List(r.Context(), page, perPage)
	if err != nil {
		h.Logger.Errorw("List: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"materials":    res.Materials,
		"total":        res.Total,
		"pages":        res.Pages,
		"current_page": res.CurrentPage,
	})
}

// Delete удаляет одну запись (жёстко) с best-effort чисткой облака.
func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "material not found")
			return
		}
		h.Logger.Errorw("Delete: service error", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":            "deleted",
		"material_id":        res.ID,
		"deleted_from_cloud": res.CloudAttempted,
	})
}

// batchDeleteRequest — тело батч-удаления.
type batchDeleteRequest struct {
	MaterialIDs []string `json:"material_ids"`
}

// BatchDelete удаляет набор записей; отсутствующие id игнорируются.
func (h *MaterialHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("BatchDelete: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	res, err := h.Service.BatchDelete(r.Context(), req.MaterialIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoIDs):
			writeError(w, http.StatusBadRequest, "no material ids given")
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "materials not found")
		default:
			h.Logger.Errorw("BatchDelete: service error", "error", err)
			writeError(w, http.StatusInternalServerError, "batch delete failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":             fmt.Sprintf("deleted %d materials", res.Deleted),
		"deleted_count":       res.Deleted,
		"cloud_deleted_count": res.CloudDeleted,
	})
}

// ClearAll очищает весь каталог. Пустой каталог — успех с нулём.
func (h *MaterialHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.ClearAll(r.Context())
	if err != nil {
		h.Logger.Errorw("ClearAll: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "clear failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":             fmt.Sprintf("cleared %d materials", res.TotalDeleted),
		"total_deleted":       res.TotalDeleted,
		"cloud_deleted_count": res.CloudDeleted,
	})
}

// Timeline отдаёт каталог, сгруппированный по дате загрузки.
func (h *MaterialHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	timeline, err := h.Service.Timeline(r.Context())
	if err != nil {
		h.Logger.Errorw("Timeline: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "timeline failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"timeline": timeline})
}

// Reanalyze повторно генерирует ключевые слова для существующей записи.
func (h *MaterialHandler) Reanalyze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dto, err := h.Service.Reanalyze(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "material not found")
			return
		}
		h.Logger.Errorw("Reanalyze: service error", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "reanalyze failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "reanalyzed",
		"material": dto,
	})
}

// Health — состояние БД и доступность коллабораторов.
func (h *MaterialHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	if err := h.Service.Ping(r.Context()); err != nil {
		dbStatus = "error: " + err.Error()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"database":          dbStatus,
		"storage_available": h.Config.StorageConfigured(),
		"ai_available":      h.Config.AIConfigured(),
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
}

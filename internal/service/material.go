package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"AgroKeeper/internal/ai"
	"AgroKeeper/internal/model"
	"AgroKeeper/internal/repo"
	"AgroKeeper/internal/storage"
)

// ErrNotFound — запрошенная запись каталога отсутствует.
var ErrNotFound = repo.ErrNotFound

// ErrStorageUnavailable — объектное хранилище не настроено, загрузка невозможна.
var ErrStorageUnavailable = errors.New("cloud storage unavailable")

// ErrNoIDs — пустой список id в батч-запросе.
var ErrNoIDs = errors.New("no material ids given")

// Расширения, классифицируемые как видео; всё остальное — изображение.
var videoExts = map[string]bool{".mp4": true, ".mov": true, ".avi": true}

// MaterialService — пайплайны загрузки и жизненного цикла каталога.
// storage и ai — опциональные коллабораторы (nil = не настроен): ветвление по
// их доступности — локальное решение сервиса, без глобальных флагов.
// БД авторитетна; облако чистится по принципу best-effort.
type MaterialService struct {
	repo    repo.MaterialRepository
	storage storage.Uploader
	ai      ai.KeywordGenerator
	logger  *zap.SugaredLogger
}

// NewMaterialService создаёт сервис каталога. storage и generator могут быть nil.
func NewMaterialService(r repo.MaterialRepository, st storage.Uploader, gen ai.KeywordGenerator, logger *zap.SugaredLogger) *MaterialService {
	return &MaterialService{repo: r, storage: st, ai: gen, logger: logger}
}

// UploadedFile — один файл из multipart-запроса.
type UploadedFile struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// UploadResult — итог загрузки: сколько записей сохранено и какие.
type UploadResult struct {
	Count     int
	Materials []model.MaterialDTO
}

// Upload — пайплайн загрузки: для каждого файла — классификация по расширению,
// загрузка в облако, ключевые слова (модель или запасной набор), затем одна
// транзакция на все новые записи. Неудачная загрузка отдельного файла
// пропускает файл, а не валит весь запрос. Ноль пригодных файлов — не ошибка.
func (s *MaterialService) Upload(ctx context.Context, files []UploadedFile) (*UploadResult, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	var pending []model.Material
	for _, f := range files {
		if f.Filename == "" || f.Content == nil {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Filename))

		up, err := s.storage.Upload(ctx, f.Content, f.Size, ext)
		if err != nil {
			// файл пропускаем, остальные продолжаем
			s.logger.Warnw("upload skipped", "filename", f.Filename, "error", err)
			continue
		}

		fileType := "image"
		if videoExts[ext] {
			fileType = "video"
		}

		size := f.Size
		if size < 0 {
			size = 0
		}

		pending = append(pending, model.Material{
			ID:         uuid.NewString(),
			Filename:   f.Filename,
			FileType:   fileType,
			FilePath:   up.FileURL,
			FileSize:   size,
			UploadTime: time.Now().UTC(),
			AIKeywords: s.keywords(ctx, fileType, up.FileURL),
		})
	}

	// Откат транзакции не трогает уже загруженные объекты: осиротевший blob —
	// задокументированная утечка, запись о нём не появится.
	if err := s.repo.CreateBatch(ctx, pending); err != nil {
		return nil, err
	}

	res := &UploadResult{Count: len(pending), Materials: make([]model.MaterialDTO, 0, len(pending))}
	for i := range pending {
		res.Materials = append(res.Materials, pending[i].ToDTO())
	}
	return res, nil
}

// keywords выбирает источник ключевых слов: модель, а при её отсутствии или
// непригодном ответе — фиксированный запасной набор для типа файла.
func (s *MaterialService) keywords(ctx context.Context, fileType, fileURL string) string {
	if s.ai != nil {
		var kw string
		var ok bool
		if fileType == "video" {
			kw, ok = s.ai.KeywordsFromVideo(ctx, fileURL)
		} else {
			kw, ok = s.ai.KeywordsFromImage(ctx, fileURL)
		}
		if ok {
			return kw
		}
	}
	return ai.FallbackKeywords(fileType)
}

// Get возвращает запись каталога.
func (s *MaterialService) Get(ctx context.Context, id string) (*model.MaterialDTO, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := m.ToDTO()
	return &dto, nil
}

// ListResult — страница каталога.
type ListResult struct {
	Materials   []model.MaterialDTO
	Total       int64
	Pages       int64
	CurrentPage int
}

// List возвращает страницу каталога, новые записи первыми.
func (s *MaterialService) List(ctx context.Context, page, pageSize int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	items, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	res := &ListResult{
		Materials:   make([]model.MaterialDTO, 0, len(items)),
		Total:       total,
		Pages:       (total + int64(pageSize) - 1) / int64(pageSize),
		CurrentPage: page,
	}
	for i := range items {
		res.Materials = append(res.Materials, items[i].ToDTO())
	}
	return res, nil
}

// Timeline группирует весь каталог по дате загрузки (YYYY-MM-DD);
// внутри дня порядок тот же — новые первыми.
func (s *MaterialService) Timeline(ctx context.Context) (map[string][]model.MaterialDTO, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	timeline := make(map[string][]model.MaterialDTO)
	for i := range items {
		day := items[i].UploadTime.UTC().Format("2006-01-02")
		timeline[day] = append(timeline[day], items[i].ToDTO())
	}
	return timeline, nil
}

// DeleteResult — итог удаления одной записи.
type DeleteResult struct {
	ID string
	// CloudAttempted — было ли доступно облако для чистки (не факт удаления).
	CloudAttempted bool
}

// Delete удаляет запись: сначала best-effort чистка объекта (неудача
// логируется и не блокирует), затем удаление записи — его ошибка фатальна.
func (s *MaterialService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.deleteBlob(ctx, m.FilePath)

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	return &DeleteResult{ID: id, CloudAttempted: s.storage != nil}, nil
}

// deleteBlob — best-effort удаление объекта по локатору записи.
// Возвращает true только при подтверждённом удалении.
func (s *MaterialService) deleteBlob(ctx context.Context, fileURL string) bool {
	if s.storage == nil {
		return false
	}
	key := storage.KeyFromURL(fileURL)
	if key == "" {
		s.logger.Warnw("cannot derive object key", "file_path", fileURL)
		return false
	}
	return s.storage.Delete(ctx, key)
}

// BatchDeleteResult — итог батч-удаления.
type BatchDeleteResult struct {
	Deleted int64
	// CloudDeleted — сколько объектов подтверждённо удалено; nil когда
	// хранилище не настроено.
	CloudDeleted *int64
}

// BatchDelete удаляет записи по набору id. Отсутствующие id молча
// игнорируются; если не найдено ни одной записи — ErrNotFound. Неудачи чистки
// облака считаются, но не мешают удалению записей.
func (s *MaterialService) BatchDelete(ctx context.Context, ids []string) (*BatchDeleteResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}

	items, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}

	var cloudDeleted int64
	found := make([]string, 0, len(items))
	for i := range items {
		if s.deleteBlob(ctx, items[i].FilePath) {
			cloudDeleted++
		}
		found = append(found, items[i].ID)
	}

	deleted, err := s.repo.DeleteByIDs(ctx, found)
	if err != nil {
		return nil, err
	}

	res := &BatchDeleteResult{Deleted: deleted}
	if s.storage != nil {
		res.CloudDeleted = &cloudDeleted
	}
	return res, nil
}

// ClearResult — итог полной очистки каталога.
type ClearResult struct {
	TotalDeleted int64
	CloudDeleted *int64
}

// ClearAll удаляет весь каталог с той же best-effort чисткой облака.
// Пустой каталог — не ошибка, просто ноль.
func (s *MaterialService) ClearAll(ctx context.Context) (*ClearResult, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &ClearResult{}, nil
	}

	var cloudDeleted int64
	for i := range items {
		if s.deleteBlob(ctx, items[i].FilePath) {
			cloudDeleted++
		}
	}

	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}

	res := &ClearResult{TotalDeleted: deleted}
	if s.storage != nil {
		res.CloudDeleted = &cloudDeleted
	}
	return res, nil
}

// Reanalyze повторно запрашивает у модели ключевые слова по существующему
// локатору (без перезагрузки файла) и перезаписывает только это поле.
// Недоступность модели молча приводит к запасному набору.
func (s *MaterialService) Reanalyze(ctx context.Context, id string) (*model.MaterialDTO, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	keywords := s.keywords(ctx, m.FileType, m.FilePath)
	if err := s.repo.UpdateKeywords(ctx, id, keywords); err != nil {
		return nil, err
	}

	m.AIKeywords = keywords
	dto := m.ToDTO()
	return &dto, nil
}

// Ping проверяет доступность БД (для /api/health).
func (s *MaterialService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

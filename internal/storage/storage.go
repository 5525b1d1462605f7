package storage

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"AgroKeeper/internal/config"
)

// ObjectPrefix — логический префикс всех объектов каталога в bucket.
const ObjectPrefix = "materials/"

// UploadResult — результат успешной загрузки объекта.
type UploadResult struct {
	Key     string // ключ объекта в bucket
	FileURL string // публичный адрес объекта
}

// Uploader — контракт объектного хранилища для пайплайнов.
// Delete возвращает false вместо ошибки: неудачная чистка облака не должна
// блокировать удаление записи.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, size int64, ext string) (*UploadResult, error)
	Delete(ctx context.Context, key string) bool
}

// CloudStorage — Uploader поверх S3/COS-совместимого API (minio-go).
type CloudStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *zap.SugaredLogger
}

var _ Uploader = (*CloudStorage)(nil)

// NewCloudStorage создаёт клиент хранилища из конфигурации.
func NewCloudStorage(cfg *config.Config, logger *zap.SugaredLogger) (*CloudStorage, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
		Region: cfg.StorageRegion,
	})
	if err != nil {
		return nil, err
	}
	return &CloudStorage{
		client:    client,
		bucket:    cfg.StorageBucket,
		publicURL: strings.TrimRight(cfg.StoragePublicURL, "/"),
		logger:    logger,
	}, nil
}

// Upload кладёт поток в bucket под свежим ключом materials/<uuid><ext>.
// Ключ никогда не строится из пользовательского имени файла.
func (s *CloudStorage) Upload(ctx context.Context, r io.Reader, size int64, ext string) (*UploadResult, error) {
	key := ObjectPrefix + strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ToLower(ext)

	if size <= 0 {
		size = -1 // неизвестный размер — потоковая загрузка
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{}); err != nil {
		s.logger.Errorw("object upload failed", "key", key, "error", err)
		return nil, err
	}

	return &UploadResult{
		Key:     key,
		FileURL: s.publicURL + "/" + key,
	}, nil
}

// Delete удаляет объект по ключу. Ошибка логируется и превращается в false.
func (s *CloudStorage) Delete(ctx context.Context, key string) bool {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Warnw("object delete failed", "key", key, "error", err)
		return false
	}
	return true
}

// KeyFromURL восстанавливает ключ объекта из публичного адреса:
// последний сегмент пути под фиксированным префиксом.
func KeyFromURL(fileURL string) string {
	idx := strings.LastIndex(fileURL, "/")
	if idx < 0 || idx == len(fileURL)-1 {
		return ""
	}
	return ObjectPrefix + fileURL[idx+1:]
}

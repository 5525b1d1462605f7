package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"AgroKeeper/internal/model"
)

// ErrNotFound возвращается, когда запись каталога отсутствует.
var ErrNotFound = errors.New("material not found")

// MaterialRepository определяет контракт доступа к каталогу для слоя сервиса.
type MaterialRepository interface {
	// CreateBatch сохраняет набор новых записей одной транзакцией:
	// при ошибке не сохраняется ни одна.
	CreateBatch(ctx context.Context, materials []model.Material) error

	// GetByID возвращает запись или ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.Material, error)

	// GetByIDs возвращает существующие записи из набора id; отсутствующие
	// id молча пропускаются.
	GetByIDs(ctx context.Context, ids []string) ([]model.Material, error)

	// List возвращает страницу каталога и общее число записей.
	// Порядок строгий: новые первыми, при равном времени — по id.
	List(ctx context.Context, page, pageSize int) ([]model.Material, int64, error)

	// ListAll возвращает весь каталог в том же порядке, что и List.
	ListAll(ctx context.Context) ([]model.Material, error)

	// UpdateKeywords перезаписывает только поле ключевых слов.
	UpdateKeywords(ctx context.Context, id string, keywords string) error

	// DeleteByID удаляет запись; ErrNotFound если её нет.
	DeleteByID(ctx context.Context, id string) error

	// DeleteByIDs удаляет записи по набору id, возвращает число удалённых.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)

	// DeleteAll очищает каталог, возвращает число удалённых.
	DeleteAll(ctx context.Context) (int64, error)

	// Ping проверяет соединение с БД.
	Ping(ctx context.Context) error
}

// Порядок каталога: новые первыми, id рвёт ничьи для стабильной пагинации.
const catalogOrder = "upload_time DESC, id DESC"

type materialRepo struct {
	db *gorm.DB
}

// NewMaterialRepository создаёт реализацию репозитория каталога.
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepo{db: db}
}

func (r *materialRepo) CreateBatch(ctx context.Context, materials []model.Material) error {
	if len(materials) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&materials).Error
	})
}

func (r *materialRepo) GetByID(ctx context.Context, id string) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Material, error) {
	var items []model.Material
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order(catalogOrder).Find(&items).Error
	return items, err
}

func (r *materialRepo) List(ctx context.Context, page, pageSize int) ([]model.Material, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Material{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Material
	err := r.db.WithContext(ctx).
		Order(catalogOrder).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *materialRepo) ListAll(ctx context.Context) ([]model.Material, error) {
	var items []model.Material
	err := r.db.WithContext(ctx).Order(catalogOrder).Find(&items).Error
	return items, err
}

func (r *materialRepo) UpdateKeywords(ctx context.Context, id string, keywords string) error {
	tx := r.db.WithContext(ctx).Model(&model.Material{}).
		Where("id = ?", id).
		Update("ai_keywords", keywords)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *materialRepo) DeleteByID(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Delete(&model.Material{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *materialRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Material{})
	return tx.RowsAffected, tx.Error
}

func (r *materialRepo) DeleteAll(ctx context.Context) (int64, error) {
	tx := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Material{})
	return tx.RowsAffected, tx.Error
}

func (r *materialRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"AgroKeeper/internal/model"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для тестов репозитория
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := db.AutoMigrate(&model.Material{}); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

func newMaterial(id string, uploadedAt time.Time) model.Material {
	return model.Material{
		ID:         id,
		Filename:   "photo-" + id + ".jpg",
		FileType:   "image",
		FilePath:   "https://bucket.example.com/materials/" + id + ".jpg",
		FileSize:   1024,
		UploadTime: uploadedAt,
		AIKeywords: "优质农产品，农田种植",
	}
}

func TestMaterialRepo_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	r := NewMaterialRepository(db)
	ctx := context.Background()

	m := newMaterial("id-1", time.Now().UTC())
	assert.NoError(t, r.CreateBatch(ctx, []model.Material{m}))

	got, err := r.GetByID(ctx, "id-1")
	assert.NoError(t, err)
	assert.Equal(t, m.Filename, got.Filename)
	assert.Equal(t, m.FilePath, got.FilePath)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaterialRepo_ListOrderNewestFirst(t *testing.T) {
	db := newTestDB(t)
	r := NewMaterialRepository(db)
	ctx := context.Background()

	t1 := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)
	assert.NoError(t, r.CreateBatch(ctx, []model.Material{
		newMaterial("id-1", t1),
		newMaterial("id-2", t2),
		newMaterial("id-3", t3),
	}))

	items, total, err := r.List(ctx, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	ids := []string{items[0].ID, items[1].ID, items[2].ID}
	assert.Equal(t, []string{"id-3", "id-2", "id-1"}, ids)
}

func TestMaterialRepo_ListTieBrokenByID(t *testing.T) {
	db := newTestDB(t)
	r := NewMaterialRepository(db)
	ctx := context.Background()

	same := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, r.CreateBatch(ctx, []model.Material{
		newMaterial("id-a", same),
		newMaterial("id-b", same),
	}))

	// при равном времени порядок стабилен от страницы к странице
	items, _, err := r.List(ctx, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, "id-b", items[0].ID)
	assert.Equal(t, "id-a", items[1].ID)
}

func TestMaterialRepo_ListPagination(t *testing.T) {
	db := newTestDB(t)
	r := NewMaterialRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	batch := make([]model.Material, 0, 5)
	for i := 0; i < 5; i++ {
		batch = append(batch, newMaterial(fmt.Sprintf("id-%d", i), base.Add(time.Duration(i)*time.Minute)))
	}
	assert.NoError(t, r.CreateBatch(ctx, batch))

	items, total, err := r.List(ctx, 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, items, 2)
	assert.Equal(t, "id-2", items[0].ID)
	assert.Equal(t, "id-1", items[1].ID)
}

func TestMaterialRepo_GetByIDs_IgnoresMissing(t *testing.T) {
	db := newTestDB(t)
	r := NewMaterialRepository(db)
	ctx := context.Background()

	assert.NoError(t, r.CreateBatch(ctx, []model.Material{
		newMaterial("id-1", time.Now().UTC()),
		newMaterial("id-2", time.Now().UTC()),
	}))

	items, err := r.GetByIDs(ctx, []string{"id-1", "id-2", "ghost"})
	assert.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestMaterialRepo_DeleteByIDs_CountsOnlyExisting(t *testing.T) {
	db := newTestDB(t)
	r := NewMaterialRepository(db)
	ctx := context.Background()

	assert.NoError(t, r.CreateBatch(ctx, []model.Material{
		newMaterial("id-1", time.Now().UTC()),
		newMaterial("id-2", time.Now().UTC()),
	}))

	deleted, err := r.DeleteByIDs(ctx, []string{"id-1", "id-2", "ghost"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = r.GetByID(ctx, "id-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaterialRepo_DeleteByID(t *testing.T) {
	db := newTestDB(t)
	r := NewMaterialRepository(db)
	ctx := context.Background()

	assert.NoError(t, r.CreateBatch(ctx, []model.Material{newMaterial("id-1", time.Now().UTC())}))

	assert.NoError(t, r.DeleteByID(ctx, "id-1"))
	assert.ErrorIs(t, r.DeleteByID(ctx, "id-1"), ErrNotFound)
}

func TestMaterialRepo_DeleteAll(t *testing.T) {
	db := newTestDB(t)
	r := NewMaterialRepository(db)
	ctx := context.Background()

	// пустой каталог — ноль, без ошибки
	count, err := r.DeleteAll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	assert.NoError(t, r.CreateBatch(ctx, []model.Material{
		newMaterial("id-1", time.Now().UTC()),
		newMaterial("id-2", time.Now().UTC()),
		newMaterial("id-3", time.Now().UTC()),
	}))

	count, err = r.DeleteAll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)

	items, err := r.ListAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestMaterialRepo_UpdateKeywords(t *testing.T) {
	db := newTestDB(t)
	r := NewMaterialRepository(db)
	ctx := context.Background()

	m := newMaterial("id-1", time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	assert.NoError(t, r.CreateBatch(ctx, []model.Material{m}))

	assert.NoError(t, r.UpdateKeywords(ctx, "id-1", "新鲜采摘，生态农业"))

	got, err := r.GetByID(ctx, "id-1")
	assert.NoError(t, err)
	assert.Equal(t, "新鲜采摘，生态农业", got.AIKeywords)
	// остальные поля не тронуты
	assert.Equal(t, m.Filename, got.Filename)
	assert.Equal(t, m.FileSize, got.FileSize)
	assert.True(t, m.UploadTime.Equal(got.UploadTime))

	assert.ErrorIs(t, r.UpdateKeywords(ctx, "ghost", "x"), ErrNotFound)
}

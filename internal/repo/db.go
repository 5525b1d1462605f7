package repo

import (
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"AgroKeeper/internal/model"
)

// InitDB открывает БД и прогоняет миграции каталога.
// С непустым DSN — Postgres; без DSN — локальный SQLite файл
// (драйвер modernc, без cgo).
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	if dsn != "" {
		dial = postgres.Open(dsn)
	} else {
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: "agrokeeper.db"}
	}

	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.Material{}); err != nil {
		return nil, err
	}
	return db, nil
}

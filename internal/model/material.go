package model

import "time"

// Material — запись каталога об одном загруженном файле (фото или видео).
type Material struct {
	ID       string `gorm:"primaryKey;type:uuid"`
	Filename string `gorm:"size:255;not null"`
	FileType string `gorm:"size:10;not null"` // "image" | "video"
	FilePath string `gorm:"size:500;not null"`
	FileSize int64  `gorm:"not null;default:0"`

	// Время загрузки — единственный ключ сортировки каталога.
	UploadTime time.Time `gorm:"not null;index"`

	// Ключевые слова от модели (или запасной набор), разделитель — "，".
	AIKeywords string `gorm:"type:text"`
}

// MaterialDTO — форма записи для JSON-ответов API.
type MaterialDTO struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	FilePath   string `json:"file_path"`
	FileSize   int64  `json:"file_size"`
	UploadTime string `json:"upload_time"`
	AIKeywords string `json:"ai_keywords"`
}

// ToDTO переводит модель в DTO ответа.
func (m *Material) ToDTO() MaterialDTO {
	return MaterialDTO{
		ID:         m.ID,
		Filename:   m.Filename,
		FileType:   m.FileType,
		FilePath:   m.FilePath,
		FileSize:   m.FileSize,
		UploadTime: m.UploadTime.UTC().Format(time.RFC3339),
		AIKeywords: m.AIKeywords,
	}
}

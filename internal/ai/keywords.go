package ai

import "strings"

// Delimiter — разделитель ключевых слов (китайская запятая, как отдаёт модель).
const Delimiter = "，"

// maxKeywords — верхняя граница числа ключевых слов в записи.
const maxKeywords = 20

// Запасные наборы: фиксированные, без обращения к модели.
var (
	fallbackImage = []string{
		"优质农产品", "农田种植", "自然生长", "农作物",
		"颜色鲜艳", "健康生长", "农业产品", "品质优良",
		"新鲜采摘", "生态农业", "绿色种植", "丰收季节",
	}
	fallbackVideo = []string{
		"农业视频", "生长记录", "农田管理", "种植过程",
		"农事操作", "品质管控", "自然生长", "生态种植",
		"溯源记录", "农业技术", "丰收喜悦", "农耕文化",
	}
)

// FallbackKeywords возвращает запасной набор ключевых слов для типа файла.
// Гарантирует, что у записи всегда есть непустая строка ключевых слов,
// независимо от доступности модели.
func FallbackKeywords(fileType string) string {
	if fileType == "video" {
		return strings.Join(fallbackVideo, Delimiter)
	}
	return strings.Join(fallbackImage, Delimiter)
}

// CleanKeywords чистит сырой ответ модели до списка слов через разделитель.
// Модель может вернуть пояснительный текст в несколько строк: берём первую
// строку, в которой есть разделитель и больше 10 рун (собственно список),
// иначе — весь ответ целиком. Дальше: split, trim, отбрасываем слова из
// одной руны, оставляем первые 20.
func CleanKeywords(raw string) string {
	candidate := raw
	for _, line := range strings.Split(raw, "\n") {
		if strings.Contains(line, Delimiter) && len([]rune(line)) > 10 {
			candidate = line
			break
		}
	}

	var keywords []string
	for _, kw := range strings.Split(candidate, Delimiter) {
		kw = strings.TrimSpace(kw)
		if len([]rune(kw)) > 1 {
			keywords = append(keywords, kw)
		}
		if len(keywords) == maxKeywords {
			break
		}
	}
	return strings.Join(keywords, Delimiter)
}

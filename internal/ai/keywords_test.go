package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanKeywords_PicksKeywordLine(t *testing.T) {
	// Модель вернула прозу и отдельной строкой — собственно список
	raw := "以下是生成的关键词：\n水稻，农田种植，自然生长，颜色鲜艳，健康生长\n希望对您有帮助。"

	got := CleanKeywords(raw)

	assert.Equal(t, "水稻，农田种植，自然生长，颜色鲜艳，健康生长", got)
}

func TestCleanKeywords_WholeTextWhenNoQualifyingLine(t *testing.T) {
	// ни одна строка не проходит порог — кандидатом становится весь ответ
	raw := "水稻，小麦"

	got := CleanKeywords(raw)

	assert.Equal(t, "水稻，小麦", got)
}

func TestCleanKeywords_DropsShortTermsAndTrims(t *testing.T) {
	raw := "水稻， 农田种植 ，a，，生长记录"

	got := CleanKeywords(raw)

	assert.Equal(t, "水稻，农田种植，生长记录", got)
}

func TestCleanKeywords_CapsAtTwenty(t *testing.T) {
	terms := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		terms = append(terms, strings.Repeat("词", 2+i%3))
	}
	raw := strings.Join(terms, Delimiter)

	got := CleanKeywords(raw)

	assert.Len(t, strings.Split(got, Delimiter), 20)
}

func TestCleanKeywords_Degenerate(t *testing.T) {
	assert.Equal(t, "", CleanKeywords(""))
	assert.Equal(t, "", CleanKeywords("，，，"))
	assert.Equal(t, "", CleanKeywords("a"))
}

func TestFallbackKeywords_WellFormed(t *testing.T) {
	for _, fileType := range []string{"image", "video"} {
		kw := FallbackKeywords(fileType)
		assert.NotEmpty(t, kw, fileType)

		terms := strings.Split(kw, Delimiter)
		assert.LessOrEqual(t, len(terms), 20, fileType)
		for _, term := range terms {
			assert.Greater(t, len([]rune(term)), 1, fileType)
		}
	}
}

func TestFallbackKeywords_DistinctPerType(t *testing.T) {
	assert.NotEqual(t, FallbackKeywords("image"), FallbackKeywords("video"))
	// неизвестный тип трактуем как изображение
	assert.Equal(t, FallbackKeywords("image"), FallbackKeywords(""))
}

func TestFallbackKeywords_Deterministic(t *testing.T) {
	assert.Equal(t, FallbackKeywords("image"), FallbackKeywords("image"))
	assert.Equal(t, FallbackKeywords("video"), FallbackKeywords("video"))
}

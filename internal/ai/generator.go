package ai

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"AgroKeeper/internal/config"
)

// imagePrompt — инструкция модели для фото: список слов через "，", без прозы.
const imagePrompt = `请详细分析这张农业图片，生成适合用于农产品溯源故事文案的关键词。

请重点关注：
1. 识别图片中的农作物种类（如：水稻、小麦、玉米、水果、蔬菜等）
2. 描述农作物的生长状况、形状特征、颜色、大小
3. 分析生长场景和环境特征（农田、果园、温室等）
4. 评估农作物的健康状况和品质特点
5. 描述相关的农业活动或种植过程

请生成15-20个准确描述图片内容的关键词，用中文逗号分隔，直接返回关键词字符串。`

// videoPrompt — для видео содержимое не скачивается, модель описывает
// типовую агросъёмку по инструкции.
const videoPrompt = `请为农业视频生成适合溯源故事的关键词。

视频可能包含各种农作物的种植、生长、管理、采摘等农业活动。

请生成15-20个描述性关键词，涵盖：
- 农作物种类和特征
- 农业操作和活动
- 生长过程和阶段
- 环境场景特征
- 品质管理要点

用中文逗号分隔，直接返回关键词字符串。`

// KeywordGenerator — контракт оракула ключевых слов для пайплайнов.
// ok=false означает «ответ непригоден, возьми запасной набор»; ошибок наружу нет.
type KeywordGenerator interface {
	KeywordsFromImage(ctx context.Context, imageURL string) (keywords string, ok bool)
	KeywordsFromVideo(ctx context.Context, videoURL string) (keywords string, ok bool)
}

// Generator — KeywordGenerator поверх OpenAI-совместимого chat API (langchaingo).
type Generator struct {
	client llms.Model
	logger *zap.SugaredLogger
}

var _ KeywordGenerator = (*Generator)(nil)

// NewGenerator создаёт клиент модели из конфигурации.
func NewGenerator(cfg *config.Config, logger *zap.SugaredLogger) (*Generator, error) {
	client, err := openai.New(
		openai.WithBaseURL(cfg.AIBaseURL),
		openai.WithToken(cfg.AIAPIKey),
		openai.WithModel(cfg.AIModel),
	)
	if err != nil {
		return nil, err
	}
	return &Generator{client: client, logger: logger}, nil
}

// KeywordsFromImage запрашивает у модели ключевые слова по публичному URL фото.
func (g *Generator) KeywordsFromImage(ctx context.Context, imageURL string) (string, bool) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.ImageURLPart(imageURL),
				llms.TextPart(imagePrompt),
			},
		},
	}
	return g.generate(ctx, content)
}

// KeywordsFromVideo запрашивает ключевые слова для видео (без передачи содержимого).
func (g *Generator) KeywordsFromVideo(ctx context.Context, videoURL string) (string, bool) {
	_ = videoURL
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(videoPrompt)},
		},
	}
	return g.generate(ctx, content)
}

func (g *Generator) generate(ctx context.Context, content []llms.MessageContent) (string, bool) {
	resp, err := g.client.GenerateContent(ctx, content)
	if err != nil {
		g.logger.Warnw("keyword generation failed", "error", err)
		return "", false
	}
	if len(resp.Choices) == 0 {
		g.logger.Warnw("keyword generation returned no choices")
		return "", false
	}

	keywords := CleanKeywords(resp.Choices[0].Content)
	if keywords == "" {
		return "", false
	}
	return keywords, true
}

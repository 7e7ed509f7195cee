package engine

import (
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/classifier"
	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/fachebot/bioai-trend-bot/internal/model"
	"github.com/fachebot/bioai-trend-bot/internal/normalizer"
	"github.com/fachebot/bioai-trend-bot/internal/report"
	"github.com/fachebot/bioai-trend-bot/internal/sentiment"
	"github.com/fachebot/bioai-trend-bot/internal/trend"
)

// Engine 组合分类、归一化、评分、情感走势与报告生成，构造后只读
type Engine struct {
	Classifier *classifier.Classifier
	Normalizer *normalizer.Normalizer
	Scorer     *trend.Scorer
	Analyzer   *sentiment.ShiftAnalyzer
	Tagger     *sentiment.Tagger
	Composer   *report.Composer
}

func New(cfg *config.Engine) *Engine {
	n := normalizer.New(cfg.NormalizationGroups)
	return &Engine{
		Classifier: classifier.New(&cfg.Vocabulary),
		Normalizer: n,
		Scorer:     trend.New(&cfg.Scoring, n),
		Analyzer:   sentiment.NewShiftAnalyzer(n),
		Tagger:     sentiment.NewTagger(&cfg.Sentiment),
		Composer:   report.NewComposer(),
	}
}

// Generate 对一批已分类内容生成趋势报告，now 用于时效衰减与报告时间
func (e *Engine) Generate(items []model.ContentItem, now time.Time) *model.TrendReport {
	trends := e.Scorer.SelectTrending(items, now)
	shifts := e.Analyzer.Analyze(items)
	return e.Composer.Compose(trends, shifts, report.CountItems(items), now)
}

package ingest

import (
	"github.com/fachebot/bioai-trend-bot/internal/classifier"
	"github.com/fachebot/bioai-trend-bot/internal/logger"
	"github.com/fachebot/bioai-trend-bot/internal/model"
	"github.com/fachebot/bioai-trend-bot/internal/sentiment"
)

// Stats 一次导入的统计
type Stats struct {
	Total    int
	Relevant int
	Dropped  int
	Tagged   int // 推断了情感的社区内容
}

// sentimentTagger 推断社区内容情感（便于测试注入 mock）
type sentimentTagger interface {
	Tag(text string, score int, profile string) model.Sentiment
}

// Ingestor 清洗原始记录并过滤出 Bio+AI 交叉内容
type Ingestor struct {
	classifier *classifier.Classifier
	tagger     sentimentTagger
}

// NewIngestor tagger 为 nil 时不推断情感
func NewIngestor(c *classifier.Classifier, tagger *sentiment.Tagger) *Ingestor {
	in := &Ingestor{classifier: c}
	if tagger != nil {
		in.tagger = tagger
	}
	return in
}

// Ingest 未携带关键词的记录重新分类，不相关的丢弃；已携带关键词的视为上游已分类
func (in *Ingestor) Ingest(records []model.RawRecord) ([]model.ContentItem, Stats) {
	stats := Stats{Total: len(records)}
	items := make([]model.ContentItem, 0, len(records))

	for i := range records {
		item := records[i].ToContentItem()
		item.Title = CleanText(item.Title)
		item.Body = CleanText(item.Body)

		if len(item.MatchedKeywords) == 0 {
			match := in.classifier.Classify(item.Text())
			if !match.IsRelevant() {
				logger.Debugf("[Ingest] 丢弃非 Bio+AI 内容: %s", item.Title)
				stats.Dropped++
				continue
			}
			item.MatchedKeywords = match.Keywords()
		}

		if in.tagger != nil && item.IsCommunity() && item.Sentiment == "" {
			item.Sentiment = in.tagger.Tag(item.Text(), item.Score, sentiment.ProfileFor(item.SourceName))
			stats.Tagged++
		}

		items = append(items, item)
	}

	stats.Relevant = len(items)
	logger.Infof("[Ingest] 导入完成: 共 %d 条，相关 %d 条，丢弃 %d 条", stats.Total, stats.Relevant, stats.Dropped)
	return items, stats
}

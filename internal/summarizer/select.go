package summarizer

import (
	"math"
	"sort"
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/model"
)

var premiumSources = map[string]bool{
	"Nature Computational Biology": true,
	"Science Magazine":             true,
	"Cell Press":                   true,
	"MIT AI News":                  true,
	"PLOS Computational Biology":   true,
}

var highValueKeywords = map[string]bool{
	"protein folding": true,
	"drug discovery":  true,
	"alphafold":       true,
	"crispr":          true,
	"genomics":        true,
	"breakthrough":    true,
	"research":        true,
	"clinical":        true,
}

type scoredItem struct {
	score float64
	item  model.ContentItem
}

func topScored(scored []scoredItem, n int) []model.ContentItem {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if n >= 0 && len(scored) > n {
		scored = scored[:n]
	}
	items := make([]model.ContentItem, 0, len(scored))
	for _, s := range scored {
		items = append(items, s.item)
	}
	return items
}

// storyScore 时效最多 7 分，时间无法解析计 1 分；权威来源加 3 分；高价值关键词每个 2 分
func storyScore(item *model.ContentItem, now time.Time) float64 {
	score := 0.0
	if item.Timestamp != "" {
		if published, ok := item.PublishedAt(); ok {
			days := math.Floor(now.Sub(published).Hours() / 24)
			score += math.Max(7-days, 0)
		} else {
			score += 1
		}
	}

	if premiumSources[item.SourceName] {
		score += 3
	}

	for _, kw := range item.MatchedKeywords {
		if highValueKeywords[kw] {
			score += 2
		}
	}
	return score
}

// SelectTopStories 从权威来源中选出最重要的 n 条，同分保持输入顺序
func SelectTopStories(items []model.ContentItem, n int, now time.Time) []model.ContentItem {
	var scored []scoredItem
	for i := range items {
		if !items[i].IsRespected() {
			continue
		}
		scored = append(scored, scoredItem{score: storyScore(&items[i], now), item: items[i]})
	}
	return topScored(scored, n)
}

// highlightScore 得分加两倍评论数，按情感与关键词数量加成
func highlightScore(item *model.ContentItem) float64 {
	score := float64(item.Score + item.NumComments*2)

	switch item.Sentiment {
	case model.SentimentVeryPositive:
		score *= 1.5
	case model.SentimentPositive:
		score *= 1.2
	}

	if len(item.MatchedKeywords) >= 3 {
		score *= 1.3
	}
	return score
}

// SelectCommunityHighlights 选出互动最多的 n 条社区帖子，同分保持输入顺序
func SelectCommunityHighlights(items []model.ContentItem, n int) []model.ContentItem {
	var scored []scoredItem
	for i := range items {
		if !items[i].IsCommunity() {
			continue
		}
		scored = append(scored, scoredItem{score: highlightScore(&items[i]), item: items[i]})
	}
	return topScored(scored, n)
}

package trend

import (
	"math"
	"sort"
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/fachebot/bioai-trend-bot/internal/model"
	"github.com/fachebot/bioai-trend-bot/internal/normalizer"
)

// Scorer 按来源、时效与互动加权计算规范话题得分
type Scorer struct {
	cfg        *config.Scoring
	normalizer *normalizer.Normalizer
}

func New(cfg *config.Scoring, n *normalizer.Normalizer) *Scorer {
	return &Scorer{cfg: cfg, normalizer: n}
}

// batch 一次评分的中间结果，topics[i] 为第 i 条内容的规范话题
type batch struct {
	items  []model.ContentItem
	topics [][]string
	order  []string // 话题首次出现的顺序
	totals map[string]float64
	index  map[string][]int // 话题 -> 贡献内容下标
}

func (s *Scorer) accumulate(items []model.ContentItem, now time.Time) *batch {
	b := &batch{
		items:  items,
		topics: make([][]string, len(items)),
		totals: make(map[string]float64),
		index:  make(map[string][]int),
	}
	for i := range items {
		item := &items[i]
		topics := s.normalizer.Normalize(item.MatchedKeywords)
		b.topics[i] = topics
		if len(topics) == 0 {
			continue
		}

		weight := s.ItemWeight(item, now)
		for _, topic := range topics {
			if _, ok := b.totals[topic]; !ok {
				b.order = append(b.order, topic)
			}
			b.totals[topic] += weight
			b.index[topic] = append(b.index[topic], i)
		}
	}
	return b
}

// Score 返回每个规范话题的累计得分（未取整）
func (s *Scorer) Score(items []model.ContentItem, now time.Time) map[string]float64 {
	return s.accumulate(items, now).totals
}

// SelectTrending 返回得分不低于阈值的前 N 个话题，得分相同时保持话题首次出现的顺序
func (s *Scorer) SelectTrending(items []model.ContentItem, now time.Time) []model.TrendRecord {
	b := s.accumulate(items, now)

	candidates := make([]string, 0, len(b.order))
	for _, topic := range b.order {
		if b.totals[topic] >= s.cfg.MinScore {
			candidates = append(candidates, topic)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return b.totals[candidates[i]] > b.totals[candidates[j]]
	})
	if s.cfg.TopN > 0 && len(candidates) > s.cfg.TopN {
		candidates = candidates[:s.cfg.TopN]
	}

	trends := make([]model.TrendRecord, 0, len(candidates))
	for _, topic := range candidates {
		trends = append(trends, b.buildRecord(topic))
	}
	return trends
}

// buildRecord 重新汇总话题的全部贡献内容
func (b *batch) buildRecord(topic string) model.TrendRecord {
	breakdown := make(map[model.Sentiment]int, len(model.SentimentCategories))
	for _, c := range model.SentimentCategories {
		breakdown[c] = 0
	}

	record := model.TrendRecord{
		Topic:              topic,
		Score:              roundScore(b.totals[topic]),
		SentimentBreakdown: breakdown,
		RespectedSources:   make([]model.ArticleRef, 0),
		CommunityPosts:     make([]model.ArticleRef, 0),
	}

	sources := make(map[string]bool)
	for _, i := range b.index[topic] {
		item := &b.items[i]
		record.Mentions++
		sources[item.SourceName] = true

		ref := model.ArticleRef{
			Title:     item.Title,
			Source:    item.SourceName,
			Type:      item.SourceType,
			URL:       item.URL,
			Sentiment: item.SentimentLabel(),
		}
		switch item.SourceType {
		case model.SourceRespected:
			record.RespectedSources = append(record.RespectedSources, ref)
		case model.SourceCommunity:
			record.CommunityPosts = append(record.CommunityPosts, ref)
			breakdown[model.NormalizeSentiment(item.Sentiment)]++
		}
	}

	record.DominantSentiment = dominantSentiment(breakdown)
	record.CrossPlatform = len(sources) > 1
	return record
}

// dominantSentiment 计数最多的情感，平局按 SentimentCategories 顺序取先者
func dominantSentiment(breakdown map[model.Sentiment]int) model.Sentiment {
	best := model.SentimentCategories[0]
	for _, c := range model.SentimentCategories[1:] {
		if breakdown[c] > breakdown[best] {
			best = c
		}
	}
	return best
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/model"
)

const (
	overviewTopics = 3
	topKeywords    = 5
)

// sentimentPhrases 主导情感在概述中的措辞
var sentimentPhrases = map[model.Sentiment]string{
	model.SentimentVeryPositive: "very positive",
	model.SentimentPositive:     "positive",
	model.SentimentNeutral:      "mixed",
	model.SentimentNegative:     "cautious",
}

// Counts 本批内容的数量统计
type Counts struct {
	Total     int
	Respected int
	Community int
}

// CountItems 按来源类型统计
func CountItems(items []model.ContentItem) Counts {
	c := Counts{Total: len(items)}
	for i := range items {
		switch items[i].SourceType {
		case model.SourceRespected:
			c.Respected++
		case model.SourceCommunity:
			c.Community++
		}
	}
	return c
}

type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose 合并趋势与情感走势，生成最终报告
func (c *Composer) Compose(
	trends []model.TrendRecord,
	shifts map[string]model.SentimentTrajectory,
	counts Counts,
	generatedAt time.Time,
) *model.TrendReport {
	if trends == nil {
		trends = make([]model.TrendRecord, 0)
	}
	if shifts == nil {
		shifts = make(map[string]model.SentimentTrajectory)
	}

	crossPlatform := make([]model.TrendRecord, 0)
	for _, t := range trends {
		if t.CrossPlatform {
			crossPlatform = append(crossPlatform, t)
		}
	}

	keywords := make([]string, 0, topKeywords)
	for i := 0; i < len(trends) && i < topKeywords; i++ {
		keywords = append(keywords, trends[i].Topic)
	}

	return &model.TrendReport{
		GeneratedAt: generatedAt,
		DataSummary: model.DataSummary{
			TotalArticles:       counts.Total,
			RespectedSources:    counts.Respected,
			CommunityPosts:      counts.Community,
			TrendingTopicsFound: len(trends),
		},
		TrendingTopics:       trends,
		SentimentAnalysis:    shifts,
		CrossPlatformStories: crossPlatform,
		TopKeywords:          keywords,
		OverviewSummary:      Overview(trends, counts),
	}
}

// Overview 根据统计数据拼出概述段落
func Overview(trends []model.TrendRecord, counts Counts) string {
	if counts.Total == 0 {
		return "No BioAI articles were captured this period."
	}

	if len(trends) == 0 {
		return fmt.Sprintf(
			"We reviewed %d BioAI stories this week (%d research sources, %d community posts), "+
				"but no themes crossed the trending threshold.",
			counts.Total, counts.Respected, counts.Community,
		)
	}

	themes := make([]string, 0, overviewTopics)
	for i := 0; i < len(trends) && i < overviewTopics; i++ {
		if trends[i].Topic != "" {
			themes = append(themes, trends[i].Topic)
		}
	}

	mentions := 0
	crossPlatform := 0
	for _, t := range trends {
		mentions += t.Mentions
		if t.CrossPlatform {
			crossPlatform++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"This week we reviewed %d BioAI stories (%d from research outlets and %d community updates), ",
		counts.Total, counts.Respected, counts.Community,
	))
	if len(themes) > 0 {
		sb.WriteString(fmt.Sprintf("with momentum centered on %s. ", JoinList(themes)))
	} else {
		sb.WriteString("highlighting a diverse mix of topics. ")
	}
	sb.WriteString(fmt.Sprintf(
		"Trending threads accounted for %d mentions overall, and %d of them spanned both trusted sources and community chatter.",
		mentions, crossPlatform,
	))

	if s, ok := mostCommonSentiment(trends); ok {
		phrase, known := sentimentPhrases[s]
		if !known {
			phrase = string(s)
		}
		sb.WriteString(fmt.Sprintf(" Community discussion skewed %s.", phrase))
	}

	return sb.String()
}

// mostCommonSentiment 趋势中出现最多的主导情感，平局取先出现者
func mostCommonSentiment(trends []model.TrendRecord) (model.Sentiment, bool) {
	counts := make(map[model.Sentiment]int)
	var order []model.Sentiment
	for _, t := range trends {
		if t.DominantSentiment == "" {
			continue
		}
		if _, ok := counts[t.DominantSentiment]; !ok {
			order = append(order, t.DominantSentiment)
		}
		counts[t.DominantSentiment]++
	}
	if len(order) == 0 {
		return "", false
	}

	best := order[0]
	for _, s := range order[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best, true
}

// JoinList 一项原样返回，两项用 and 连接，三项及以上用逗号并在末项前加 and
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

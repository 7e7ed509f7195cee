package trend

import (
	"fmt"
	"testing"
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/fachebot/bioai-trend-bot/internal/model"
	"github.com/fachebot/bioai-trend-bot/internal/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)

func newDefaultScorer() *Scorer {
	engine := config.DefaultEngine()
	return New(&engine.Scoring, normalizer.New(engine.NormalizationGroups))
}

func newScorerWith(mutate func(s *config.Scoring)) *Scorer {
	engine := config.DefaultEngine()
	mutate(&engine.Scoring)
	return New(&engine.Scoring, normalizer.New(engine.NormalizationGroups))
}

func ago(d time.Duration) string {
	return testNow.Add(-d).Format(time.RFC3339)
}

func TestSelectTrending_RespectedPair(t *testing.T) {
	s := newDefaultScorer()

	items := []model.ContentItem{
		{Title: "Genome atlas", SourceType: model.SourceRespected, SourceName: "Nature", MatchedKeywords: []string{"genome"}},
	}
	// 单条 2.1 低于阈值
	assert.InDelta(t, 2.1, s.Score(items, testNow)["genomics"], 1e-9)
	assert.Empty(t, s.SelectTrending(items, testNow))

	items = append(items, model.ContentItem{
		Title: "Sequencing at scale", SourceType: model.SourceRespected, SourceName: "MIT AI News", MatchedKeywords: []string{"genomics"},
	})
	assert.InDelta(t, 4.305, s.Score(items, testNow)["genomics"], 1e-9)

	trends := s.SelectTrending(items, testNow)
	require.Len(t, trends, 1)
	assert.Equal(t, "genomics", trends[0].Topic)
	assert.Equal(t, 2, trends[0].Mentions)
	assert.InDelta(t, 4.305, trends[0].Score, 0.006)
	assert.Len(t, trends[0].RespectedSources, 2)
	assert.Empty(t, trends[0].CommunityPosts)
	assert.True(t, trends[0].CrossPlatform)
}

func TestItemWeight_CommunityExample(t *testing.T) {
	s := newDefaultScorer()

	item := model.ContentItem{
		SourceType:      model.SourceCommunity,
		SourceName:      "r/MachineLearning",
		Timestamp:       ago(36 * time.Hour),
		Score:           40,
		NumComments:     10,
		Sentiment:       model.SentimentPositive,
		MatchedKeywords: []string{"ai safety"},
	}
	assert.InDelta(t, 1.8975, s.ItemWeight(&item, testNow), 1e-9)
	assert.InDelta(t, 1.8975, s.Score([]model.ContentItem{item}, testNow)["ai safety"], 1e-9)
}

func TestSelectTrending_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name      string
		base      float64
		wantTrend bool
	}{
		{"恰好等于阈值", 2.5, true},
		{"略低于阈值", 2.49999, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScorerWith(func(c *config.Scoring) {
				c.BaseWeights["respected"] = tt.base
			})
			items := []model.ContentItem{
				{SourceType: model.SourceRespected, SourceName: "Nature", MatchedKeywords: []string{"crispr"}},
			}
			assert.Equal(t, tt.wantTrend, len(s.SelectTrending(items, testNow)) == 1)
		})
	}
}

func TestRecencyFactor(t *testing.T) {
	s := newDefaultScorer()

	tests := []struct {
		name      string
		timestamp string
		want      float64
	}{
		{"12 小时", ago(12 * time.Hour), 1.3},
		{"2 天", ago(48 * time.Hour), 1.15},
		{"5 天", ago(5 * 24 * time.Hour), 1.0},
		{"10 天", ago(10 * 24 * time.Hour), 0.85},
		{"20 天", ago(20 * 24 * time.Hour), 0.7},
		{"恰好 7 天", ago(7 * 24 * time.Hour), 0.85},
		{"未来时间", testNow.Add(time.Hour).Format(time.RFC3339), 1.3},
		{"缺失", "", 1.0},
		{"无法解析", "yesterday-ish", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.RecencyFactor(tt.timestamp, testNow), 1e-9)
		})
	}
}

func TestEngagementFactor_MonotonicAndCapped(t *testing.T) {
	s := newDefaultScorer()

	prev := s.EngagementFactor(0, 0)
	assert.InDelta(t, 1.0, prev, 1e-9)
	for total := 10; total <= 200; total += 10 {
		got := s.EngagementFactor(total, 0)
		assert.Greater(t, got, prev, "total=%d", total)
		prev = got
	}
	assert.InDelta(t, 3.0, s.EngagementFactor(150, 50), 1e-9)
	assert.InDelta(t, 3.0, s.EngagementFactor(5000, 900), 1e-9)
}

func TestItemWeight_SourceTypes(t *testing.T) {
	s := newDefaultScorer()

	tests := []struct {
		name string
		item model.ContentItem
		want float64
	}{
		{"权威来源不计互动", model.ContentItem{SourceType: model.SourceRespected, Score: 500}, 2.1},
		{"权威来源带覆盖系数", model.ContentItem{SourceType: model.SourceRespected, SourceName: "Anthropic Research"}, 2.1 * 1.25},
		{"社区来源带覆盖系数", model.ContentItem{SourceType: model.SourceCommunity, SourceName: "Techmeme"}, 1.1 * 0.9},
		{"缺失类型按社区处理", model.ContentItem{Score: 100}, 1.1 * 2},
		{"未知类型权重 1.0", model.ContentItem{SourceType: "blog", Score: 100}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.ItemWeight(&tt.item, testNow), 1e-9)
		})
	}
}

func TestSelectTrending_OrderAndTieBreak(t *testing.T) {
	s := newScorerWith(func(c *config.Scoring) { c.MinScore = 1.0 })

	items := []model.ContentItem{
		{SourceType: model.SourceRespected, SourceName: "A", MatchedKeywords: []string{"genome"}},
		{SourceType: model.SourceRespected, SourceName: "B", MatchedKeywords: []string{"crispr"}},
		{SourceType: model.SourceRespected, SourceName: "C", MatchedKeywords: []string{"alphafold", "crispr"}},
	}

	trends := s.SelectTrending(items, testNow)
	require.Len(t, trends, 3)
	assert.Equal(t, "crispr", trends[0].Topic)
	// genomics 与 protein folding 得分相同，按首次出现顺序
	assert.Equal(t, "genomics", trends[1].Topic)
	assert.Equal(t, "protein folding", trends[2].Topic)

	// 相同输入输出一致
	assert.Equal(t, trends, s.SelectTrending(items, testNow))
}

func TestSelectTrending_TopN(t *testing.T) {
	s := newDefaultScorer()

	var items []model.ContentItem
	for i := 0; i < 12; i++ {
		items = append(items, model.ContentItem{
			SourceType:      model.SourceRespected,
			SourceName:      "Nature",
			MatchedKeywords: []string{fmt.Sprintf("topic-%02d", i)},
		}, model.ContentItem{
			SourceType:      model.SourceRespected,
			SourceName:      "Science",
			MatchedKeywords: []string{fmt.Sprintf("topic-%02d", i)},
		})
	}

	trends := s.SelectTrending(items, testNow)
	require.Len(t, trends, 10)
	assert.Equal(t, "topic-00", trends[0].Topic)
	assert.Equal(t, "topic-09", trends[9].Topic)
}

func TestSelectTrending_SentimentBreakdown(t *testing.T) {
	s := newDefaultScorer()

	items := []model.ContentItem{
		{Title: "paper", SourceType: model.SourceRespected, SourceName: "Nature", Sentiment: model.SentimentNegative, MatchedKeywords: []string{"crispr"}},
		{Title: "p1", SourceType: model.SourceCommunity, SourceName: "r/biology", Sentiment: model.SentimentPositive, MatchedKeywords: []string{"crispr"}},
		{Title: "p2", SourceType: model.SourceCommunity, SourceName: "r/biology", Sentiment: model.SentimentPositive, MatchedKeywords: []string{"gene editing"}},
		{Title: "p3", SourceType: model.SourceCommunity, SourceName: "Hacker News", Sentiment: "meh", MatchedKeywords: []string{"crispr"}},
		{Title: "p4", SourceType: model.SourceCommunity, SourceName: "Hacker News", MatchedKeywords: []string{"genome editing"}},
		{Title: "p5", SourceType: model.SourceCommunity, SourceName: "Hacker News", Sentiment: model.SentimentNegative, MatchedKeywords: []string{"crispr"}},
	}

	trends := s.SelectTrending(items, testNow)
	require.Len(t, trends, 1)
	tr := trends[0]

	assert.Equal(t, "crispr", tr.Topic)
	assert.Equal(t, 6, tr.Mentions)
	assert.Equal(t, map[model.Sentiment]int{
		model.SentimentVeryPositive: 0,
		model.SentimentPositive:     2,
		model.SentimentNegative:     1,
		model.SentimentNeutral:      2,
	}, tr.SentimentBreakdown)
	// positive 与 neutral 同为 2，按固定顺序 positive 优先
	assert.Equal(t, model.SentimentPositive, tr.DominantSentiment)
	assert.Len(t, tr.RespectedSources, 1)
	assert.Len(t, tr.CommunityPosts, 5)
	assert.Equal(t, model.Sentiment("meh"), tr.CommunityPosts[2].Sentiment)
	assert.Equal(t, model.SentimentNeutral, tr.CommunityPosts[3].Sentiment)
	assert.True(t, tr.CrossPlatform)
}

func TestDominantSentiment(t *testing.T) {
	tests := []struct {
		name      string
		breakdown map[model.Sentiment]int
		want      model.Sentiment
	}{
		{"全为零取 very_positive", map[model.Sentiment]int{}, model.SentimentVeryPositive},
		{"very_positive 与 positive 平局", map[model.Sentiment]int{model.SentimentVeryPositive: 1, model.SentimentPositive: 1}, model.SentimentVeryPositive},
		{"negative 与 neutral 平局", map[model.Sentiment]int{model.SentimentNegative: 3, model.SentimentNeutral: 3}, model.SentimentNegative},
		{"neutral 最多", map[model.Sentiment]int{model.SentimentNeutral: 4, model.SentimentPositive: 1}, model.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dominantSentiment(tt.breakdown))
		})
	}
}

func TestSelectTrending_SingleSourceNotCrossPlatform(t *testing.T) {
	s := newDefaultScorer()

	items := []model.ContentItem{
		{SourceType: model.SourceRespected, SourceName: "Nature", MatchedKeywords: []string{"microbiome"}},
		{SourceType: model.SourceRespected, SourceName: "Nature", MatchedKeywords: []string{"gut microbiome"}},
	}
	trends := s.SelectTrending(items, testNow)
	require.Len(t, trends, 1)
	assert.False(t, trends[0].CrossPlatform)
}

func TestSelectTrending_Empty(t *testing.T) {
	s := newDefaultScorer()

	assert.Empty(t, s.Score(nil, testNow))
	trends := s.SelectTrending(nil, testNow)
	assert.NotNil(t, trends)
	assert.Empty(t, trends)
}

package model

import "time"

// ArticleRef 趋势中引用的单条内容
type ArticleRef struct {
	Title     string     `json:"title"`
	Source    string     `json:"source"`
	Type      SourceType `json:"type"`
	URL       string     `json:"url"`
	Sentiment Sentiment  `json:"sentiment"`
}

// TrendRecord 单个规范话题的趋势数据
type TrendRecord struct {
	Topic              string            `json:"keyword"`
	Score              float64           `json:"score"`
	Mentions           int               `json:"mentions"`
	DominantSentiment  Sentiment         `json:"community_sentiment"`
	SentimentBreakdown map[Sentiment]int `json:"sentiment_breakdown"`
	RespectedSources   []ArticleRef      `json:"respected_sources"`
	CommunityPosts     []ArticleRef      `json:"community_posts"`
	CrossPlatform      bool              `json:"cross_platform"`
}

type SentimentTrend string

const (
	TrendImproving SentimentTrend = "improving"
	TrendDeclining SentimentTrend = "declining"
	TrendStable    SentimentTrend = "stable"
)

// SentimentTrajectory 话题的按日情感走势，DailyData 以 YYYY-MM-DD 为键
type SentimentTrajectory struct {
	Trend           SentimentTrend     `json:"trend"`
	RecentSentiment float64            `json:"recent_sentiment"`
	Change          float64            `json:"change"`
	DailyData       map[string]float64 `json:"daily_data"`
}

type DataSummary struct {
	TotalArticles       int `json:"total_articles"`
	RespectedSources    int `json:"respected_sources"`
	CommunityPosts      int `json:"community_posts"`
	TrendingTopicsFound int `json:"trending_topics_found"`
}

// TrendReport 一次生成的完整趋势报告，交给渲染与投递环节
type TrendReport struct {
	GeneratedAt          time.Time                      `json:"generated_at"`
	DataSummary          DataSummary                    `json:"data_summary"`
	TrendingTopics       []TrendRecord                  `json:"trending_topics"`
	SentimentAnalysis    map[string]SentimentTrajectory `json:"sentiment_analysis"`
	CrossPlatformStories []TrendRecord                  `json:"cross_platform_stories"`
	TopKeywords          []string                       `json:"top_keywords"`
	OverviewSummary      string                         `json:"overview_summary"`
}

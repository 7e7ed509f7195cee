package model

import (
	"strings"
	"time"
)

type SourceType string

const (
	SourceRespected SourceType = "respected"
	SourceCommunity SourceType = "community"
)

type Sentiment string

const (
	SentimentVeryPositive Sentiment = "very_positive"
	SentimentPositive     Sentiment = "positive"
	SentimentNeutral      Sentiment = "neutral"
	SentimentNegative     Sentiment = "negative"
)

// SentimentCategories 固定的四类情感，顺序即主导情感平局时的优先级
var SentimentCategories = []Sentiment{
	SentimentVeryPositive,
	SentimentPositive,
	SentimentNegative,
	SentimentNeutral,
}

// NormalizeSentiment 未知或缺失的标签视为 neutral
func NormalizeSentiment(s Sentiment) Sentiment {
	switch s {
	case SentimentVeryPositive, SentimentPositive, SentimentNeutral, SentimentNegative:
		return s
	default:
		return SentimentNeutral
	}
}

// ContentItem 一条已分类的内容，生成报告期间只读
type ContentItem struct {
	Title           string
	Body            string
	SourceType      SourceType
	SourceName      string
	URL             string
	Timestamp       string // ISO-8601，可为空
	CreatedUTC      string // 社区帖子的 created_utc 原值，可为空
	Score           int
	NumComments     int
	Sentiment       Sentiment
	MatchedKeywords []string
}

func (c *ContentItem) IsCommunity() bool {
	return c.SourceType == SourceCommunity
}

func (c *ContentItem) IsRespected() bool {
	return c.SourceType == SourceRespected
}

// PublishedAt 解析发布时间，无法解析时 ok 为 false
func (c *ContentItem) PublishedAt() (time.Time, bool) {
	return ParseTimestamp(c.Timestamp)
}

// PostedAt 情感走势按日分桶使用，优先 created_utc
func (c *ContentItem) PostedAt() (time.Time, bool) {
	if c.CreatedUTC != "" {
		return ParseTimestamp(c.CreatedUTC)
	}
	return ParseTimestamp(c.Timestamp)
}

// Text 返回用于分类的文本：标题与正文
func (c *ContentItem) Text() string {
	return strings.TrimSpace(c.Title + " " + c.Body)
}

// SentimentLabel 缺失时返回 neutral，其他值原样返回
func (c *ContentItem) SentimentLabel() Sentiment {
	if c.Sentiment == "" {
		return SentimentNeutral
	}
	return c.Sentiment
}

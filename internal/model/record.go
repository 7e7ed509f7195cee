package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RawRecord 上游采集器输出的原始记录，RSS 与社区来源字段名不同
type RawRecord struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Selftext    string   `json:"selftext"`
	Source      string   `json:"source"`
	Subreddit   string   `json:"subreddit"`
	Link        string   `json:"link"`
	URL         string   `json:"url"`
	Published   string   `json:"published"`
	CreatedUTC  string   `json:"created_utc"`
	Score       float64  `json:"score"`
	NumComments float64  `json:"num_comments"`
	Sentiment   string   `json:"sentiment"`
	Keywords    []string `json:"keywords"`
	Type        string   `json:"type"`
}

// DecodeRecords 解析 JSON 数组，非对象元素视为调用方错误；
// 对象内字段类型不符时取零值，不影响其他字段与记录
func DecodeRecords(data []byte) ([]RawRecord, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("解析记录数组失败: %w", err)
	}

	records := make([]RawRecord, 0, len(elems))
	for i, elem := range elems {
		trimmed := bytes.TrimSpace(elem)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("第 %d 条记录不是对象", i)
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, fmt.Errorf("解析第 %d 条记录失败: %w", i, err)
		}
		records = append(records, decodeRecord(fields))
	}
	return records, nil
}

func decodeRecord(fields map[string]json.RawMessage) RawRecord {
	return RawRecord{
		Title:       stringField(fields, "title"),
		Summary:     stringField(fields, "summary"),
		Selftext:    stringField(fields, "selftext"),
		Source:      stringField(fields, "source"),
		Subreddit:   stringField(fields, "subreddit"),
		Link:        stringField(fields, "link"),
		URL:         stringField(fields, "url"),
		Published:   timeField(fields, "published"),
		CreatedUTC:  timeField(fields, "created_utc"),
		Score:       numberField(fields, "score"),
		NumComments: numberField(fields, "num_comments"),
		Sentiment:   stringField(fields, "sentiment"),
		Keywords:    stringsField(fields, "keywords"),
		Type:        stringField(fields, "type"),
	}
}

// stringField 非字符串值返回空串
func stringField(fields map[string]json.RawMessage, key string) string {
	var s string
	if raw, ok := fields[key]; ok {
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
	}
	return s
}

// numberField 接受数字或数字字符串，其余返回 0
func numberField(fields map[string]json.RawMessage, key string) float64 {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// timeField 接受 ISO-8601 字符串或 Unix 秒数，秒数格式化为 RFC3339
func timeField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var epoch float64
	if err := json.Unmarshal(raw, &epoch); err != nil {
		return ""
	}
	sec, frac := math.Modf(epoch)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC().Format(time.RFC3339)
}

// stringsField 只保留数组中的字符串元素
func stringsField(fields map[string]json.RawMessage, key string) []string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	var result []string
	for _, v := range values {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// Body 返回摘要或社区帖子正文
func (r *RawRecord) Body() string {
	if r.Summary != "" {
		return r.Summary
	}
	return r.Selftext
}

// SourceName 返回来源名称，社区帖子回退到 subreddit
func (r *RawRecord) SourceName() string {
	if r.Source != "" {
		return r.Source
	}
	return r.Subreddit
}

// Timestamp 优先使用 published，用于时效加权
func (r *RawRecord) Timestamp() string {
	if r.Published != "" {
		return r.Published
	}
	return r.CreatedUTC
}

// ArticleURL 返回原文链接，社区帖子回退到 url
func (r *RawRecord) ArticleURL() string {
	if r.Link != "" {
		return r.Link
	}
	return r.URL
}

// SourceType 缺失时按社区内容处理
func (r *RawRecord) SourceType() SourceType {
	if r.Type == "" {
		return SourceCommunity
	}
	return SourceType(r.Type)
}

// ToContentItem 转换为引擎输入，keywords 为空时保留 nil
func (r *RawRecord) ToContentItem() ContentItem {
	var keywords []string
	if len(r.Keywords) > 0 {
		keywords = append(keywords, r.Keywords...)
	}
	return ContentItem{
		Title:           r.Title,
		Body:            r.Body(),
		SourceType:      r.SourceType(),
		SourceName:      r.SourceName(),
		URL:             r.ArticleURL(),
		Timestamp:       r.Timestamp(),
		CreatedUTC:      r.CreatedUTC,
		Score:           int(math.Round(r.Score)),
		NumComments:     int(math.Round(r.NumComments)),
		Sentiment:       Sentiment(r.Sentiment),
		MatchedKeywords: keywords,
	}
}

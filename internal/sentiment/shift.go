package sentiment

import (
	"sort"

	"github.com/fachebot/bioai-trend-bot/internal/model"
	"github.com/fachebot/bioai-trend-bot/internal/normalizer"
)

// shiftThreshold 近期与早期均值差超过该值才判定为变化
const shiftThreshold = 0.2

const dateLayout = "2006-01-02"

// ShiftAnalyzer 按日统计社区内容情感并判断走势
type ShiftAnalyzer struct {
	normalizer *normalizer.Normalizer
}

func NewShiftAnalyzer(n *normalizer.Normalizer) *ShiftAnalyzer {
	return &ShiftAnalyzer{normalizer: n}
}

// Analyze 只统计带有效时间的社区内容，至少覆盖两个日期的话题才输出
func (a *ShiftAnalyzer) Analyze(items []model.ContentItem) map[string]model.SentimentTrajectory {
	daily := make(map[string]map[string][]float64)
	for i := range items {
		item := &items[i]
		if !item.IsCommunity() {
			continue
		}
		posted, ok := item.PostedAt()
		if !ok {
			continue
		}

		date := posted.Format(dateLayout)
		value := SignedScore(item.SentimentLabel())
		for _, topic := range a.normalizer.Normalize(item.MatchedKeywords) {
			byDate, ok := daily[topic]
			if !ok {
				byDate = make(map[string][]float64)
				daily[topic] = byDate
			}
			byDate[date] = append(byDate[date], value)
		}
	}

	result := make(map[string]model.SentimentTrajectory)
	for topic, byDate := range daily {
		if len(byDate) < 2 {
			continue
		}
		result[topic] = trajectory(byDate)
	}
	return result
}

func trajectory(byDate map[string][]float64) model.SentimentTrajectory {
	dates := make([]string, 0, len(byDate))
	scores := make(map[string]float64, len(byDate))
	for date, values := range byDate {
		dates = append(dates, date)
		scores[date] = mean(values)
	}
	sort.Strings(dates)

	n := len(dates)
	recent := (scores[dates[n-2]] + scores[dates[n-1]]) / 2
	early := (scores[dates[0]] + scores[dates[1]]) / 2

	trend := model.TrendStable
	switch {
	case recent > early+shiftThreshold:
		trend = model.TrendImproving
	case recent < early-shiftThreshold:
		trend = model.TrendDeclining
	}

	return model.SentimentTrajectory{
		Trend:           trend,
		RecentSentiment: recent,
		Change:          recent - early,
		DailyData:       scores,
	}
}

// SignedScore positive 为 +1，negative 为 -1，其余（含 very_positive）为 0
func SignedScore(s model.Sentiment) float64 {
	switch s {
	case model.SentimentPositive:
		return 1
	case model.SentimentNegative:
		return -1
	default:
		return 0
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

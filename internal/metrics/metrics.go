package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bioai_trend_runs_total",
			Help: "Total number of report runs",
		},
		[]string{"status"},
	)

	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bioai_trend_run_duration_seconds",
			Help:    "Report run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	RecordsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bioai_trend_records_ingested_total",
			Help: "Total records read from collector output",
		},
		[]string{"result"},
	)

	TrendingTopics = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bioai_trend_trending_topics",
			Help: "Number of trending topics in the latest report",
		},
	)

	TopicSummaries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bioai_trend_topic_summaries_total",
			Help: "Total topic summaries by generation mode",
		},
		[]string{"mode"},
	)
)

// Init 向 reg 注册全部指标，同一 reg 只能调用一次
func Init(reg prometheus.Registerer) {
	reg.MustRegister(
		RunsTotal,
		RunDuration,
		RecordsIngested,
		TrendingTopics,
		TopicSummaries,
	)
}

// Handler 暴露 reg 中的指标
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

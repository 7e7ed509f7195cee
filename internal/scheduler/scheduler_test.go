package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/fachebot/bioai-trend-bot/internal/engine"
	"github.com/fachebot/bioai-trend-bot/internal/ingest"
	"github.com/fachebot/bioai-trend-bot/internal/model"
	"github.com/fachebot/bioai-trend-bot/internal/summarizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockNotifier 用于测试的 reportNotifier mock
type mockNotifier struct {
	contents []string
	err      error
}

func (m *mockNotifier) Notify(ctx context.Context, content string) error {
	m.contents = append(m.contents, content)
	return m.err
}

// flakyLoader 前 failures 次返回错误
type flakyLoader struct {
	failures int
	calls    int
	records  []model.RawRecord
}

func (l *flakyLoader) load(paths []string) ([]model.RawRecord, error) {
	l.calls++
	if l.calls <= l.failures {
		return nil, errors.New("file busy")
	}
	return l.records, nil
}

var testNow = time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)

func testRecords() []model.RawRecord {
	return []model.RawRecord{
		{Title: "AlphaFold predicts protein structure", Source: "Nature", Type: "respected", Published: "2025-02-09T10:00:00Z"},
		{Title: "Deep learning for protein folding", Source: "Science Magazine", Type: "respected", Published: "2025-02-08T10:00:00Z"},
		{Title: "Amazing alphafold results in the lab", Subreddit: "r/bioinformatics", Type: "community", Score: 150, CreatedUTC: "2025-02-09T12:00:00Z"},
		{Title: "Cooking tips", Source: "Blog", Type: "respected"},
	}
}

func newTestScheduler(t *testing.T, loader *flakyLoader, notifier reportNotifier) *Scheduler {
	t.Helper()
	engCfg := config.DefaultEngine()
	eng := engine.New(&engCfg)
	cfg := &config.Report{
		InputFiles: []string{"rss.json", "reddit.json"},
		OutputDir:  t.TempDir(),
		RetryTimes: 3,
		TopStories: 5,
		Highlights: 5,
	}

	s := &Scheduler{
		loadRecords:   loader.load,
		ingestor:      ingest.NewIngestor(eng.Classifier, eng.Tagger),
		engine:        eng,
		summarizer:    summarizer.NewSummarizer(nil, eng.Normalizer, cfg),
		config:        cfg,
		retryInterval: time.Millisecond,
		newRunID:      func() string { return "run1" },
	}
	if notifier != nil {
		s.notifier = notifier
	}
	return s
}

func TestRunOnce_Success(t *testing.T) {
	notifier := &mockNotifier{}
	s := newTestScheduler(t, &flakyLoader{records: testRecords()}, notifier)

	result, err := s.RunOnce(context.Background(), testNow)
	require.NoError(t, err)

	assert.Equal(t, "run1", result.RunID)
	assert.Equal(t, filepath.Join(s.config.OutputDir, "trend_report_2025-02-10_run1.json"), result.ReportPath)
	assert.Equal(t, filepath.Join(s.config.OutputDir, "trend_digest_2025-02-10_run1.json"), result.DigestPath)
	assert.True(t, result.Notified)

	assert.Equal(t, 3, result.Report.DataSummary.TotalArticles)
	require.NotEmpty(t, result.Report.TrendingTopics)
	assert.Equal(t, "protein folding", result.Report.TrendingTopics[0].Topic)

	data, err := os.ReadFile(result.ReportPath)
	require.NoError(t, err)
	var saved map[string]any
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Contains(t, saved, "trending_topics")
	assert.Contains(t, saved, "overview_summary")

	_, err = os.Stat(result.DigestPath)
	assert.NoError(t, err)

	require.Len(t, notifier.contents, 1)
	assert.Contains(t, notifier.contents[0], "📅 2025-02-03 至 2025-02-10 (UTC)")
	assert.Contains(t, notifier.contents[0], "<b>protein folding</b>")
}

func TestRunOnce_RetriesLoad(t *testing.T) {
	loader := &flakyLoader{failures: 2, records: testRecords()}
	s := newTestScheduler(t, loader, nil)

	result, err := s.RunOnce(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, loader.calls)
	assert.False(t, result.Notified)
}

func TestRunOnce_LoadFails(t *testing.T) {
	loader := &flakyLoader{failures: 10}
	s := newTestScheduler(t, loader, &mockNotifier{})

	_, err := s.RunOnce(context.Background(), testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "已重试 3 次")
	assert.Equal(t, 3, loader.calls)

	entries, err := os.ReadDir(s.config.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunOnce_NotifyFailureDoesNotFailRun(t *testing.T) {
	notifier := &mockNotifier{err: errors.New("flood wait")}
	s := newTestScheduler(t, &flakyLoader{records: testRecords()}, notifier)

	result, err := s.RunOnce(context.Background(), testNow)
	require.NoError(t, err)
	assert.False(t, result.Notified)
	assert.Len(t, notifier.contents, notifyRetryTimes)
}

func TestRunOnce_EmptyInput(t *testing.T) {
	s := newTestScheduler(t, &flakyLoader{}, nil)

	result, err := s.RunOnce(context.Background(), testNow)
	require.NoError(t, err)
	assert.Empty(t, result.Report.TrendingTopics)
	assert.Equal(t, 0, result.Report.DataSummary.TotalArticles)
	assert.Empty(t, result.Digest.Topics)
}

func TestRunOnce_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := &flakyLoader{records: testRecords()}
	s := newTestScheduler(t, loader, &mockNotifier{})

	_, err := s.RunOnce(ctx, testNow)
	require.Error(t, err)
	assert.Equal(t, 0, loader.calls)
}

func TestStart_InvalidCron(t *testing.T) {
	engCfg := config.DefaultEngine()
	eng := engine.New(&engCfg)
	cfg := &config.Report{Cron: "not a cron"}
	s := NewScheduler(ingest.NewIngestor(eng.Classifier, nil), eng, nil, nil, cfg)

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "注册周报任务失败")
	s.Stop()
}

func TestNewRunID(t *testing.T) {
	a, b := newRunID(), newRunID()
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
}

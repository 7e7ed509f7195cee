package classifier

import (
	"sync"
	"testing"

	"github.com/fachebot/bioai-trend-bot/internal/config"
	"github.com/stretchr/testify/assert"
)

func newDefaultClassifier() *Classifier {
	vocab := config.DefaultEngine().Vocabulary
	return New(&vocab)
}

func TestClassify(t *testing.T) {
	c := newDefaultClassifier()

	tests := []struct {
		name         string
		text         string
		wantRelevant bool
		wantAI       []string
		wantBio      []string
		wantHybrid   []string
	}{
		{
			name:         "仅混合词即相关",
			text:         "New advances in bioinformatics pipelines",
			wantRelevant: true,
			wantAI:       []string{"bioinformatics"},
			wantBio:      []string{"bioinformatics"},
			wantHybrid:   []string{"bioinformatics"},
		},
		{
			name:         "AI 与生物同时出现",
			text:         "Deep Learning model predicts Protein interactions",
			wantRelevant: true,
			wantAI:       []string{"deep learning"},
			wantBio:      []string{"protein"},
		},
		{
			name:         "只有 AI",
			text:         "A new LLM beats benchmarks",
			wantRelevant: false,
			wantAI:       []string{"llm"},
		},
		{
			name:         "只有生物",
			text:         "Genome of the axolotl sequenced",
			wantRelevant: false,
			wantBio:      []string{"genome"},
		},
		{
			name:         "子串不匹配",
			text:         "dnatech and vendanalysis say aim is laboratories",
			wantRelevant: false,
		},
		{
			name:         "连字符视为边界",
			text:         "bio-ai startups",
			wantRelevant: true,
			wantAI:       []string{"ai", "bio-ai"},
			wantBio:      []string{"bio-ai"},
			wantHybrid:   []string{"bio-ai"},
		},
		{
			name:         "标点与行首行尾",
			text:         "DNA, (ai)",
			wantRelevant: true,
			wantAI:       []string{"ai"},
			wantBio:      []string{"dna"},
		},
		{
			name:         "下划线属于词内字符",
			text:         "dna_ai",
			wantRelevant: false,
		},
		{
			name: "空文本",
			text: "",
		},
		{
			name: "空白文本",
			text: "   \n\t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.wantRelevant, got.IsRelevant())
			assert.Equal(t, tt.wantAI, got.AITerms)
			assert.Equal(t, tt.wantBio, got.BiologyTerms)
			assert.Equal(t, tt.wantHybrid, got.HybridTerms)
			assert.Equal(t, tt.wantRelevant, c.IsRelevant(tt.text))
		})
	}
}

func TestClassify_MultiWordPhrase(t *testing.T) {
	c := newDefaultClassifier()

	got := c.Classify("Machine learning accelerates drug discovery in the clinic")
	assert.True(t, got.IsRelevant())
	assert.Contains(t, got.AITerms, "machine learning")
	assert.Contains(t, got.BiologyTerms, "drug discovery")
	assert.Contains(t, got.BiologyTerms, "clinic")

	// 短语必须连续出现
	got = c.Classify("machine and learning")
	assert.NotContains(t, got.AITerms, "machine learning")
}

func TestTopicMatch_Keywords(t *testing.T) {
	c := newDefaultClassifier()

	got := c.Classify("AlphaFold and AI reshape protein science")
	assert.Equal(t, []string{"ai", "alphafold", "protein"}, got.Keywords())
	assert.Empty(t, TopicMatch{}.Keywords())
}

func TestNew_CustomVocabulary(t *testing.T) {
	c := New(&config.Vocabulary{
		AITerms:      []string{"  Agents ", "agents"},
		BiologyTerms: []string{"Enzyme"},
	})

	got := c.Classify("AGENTS design an enzyme")
	assert.True(t, got.IsRelevant())
	assert.Equal(t, []string{"agents"}, got.AITerms)
	assert.Equal(t, []string{"enzyme"}, got.BiologyTerms)
}

func TestClassify_Concurrent(t *testing.T) {
	c := newDefaultClassifier()

	var wg sync.WaitGroup
	results := make([]bool, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.IsRelevant("computational biology meets transformers")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.True(t, r)
	}
}

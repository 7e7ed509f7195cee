package config

// DefaultEngine 返回内置的词表、归一化分组与评分策略
func DefaultEngine() Engine {
	return Engine{
		Vocabulary:          defaultVocabulary(),
		NormalizationGroups: defaultNormalizationGroups(),
		Scoring:             defaultScoring(),
		Sentiment:           defaultSentimentRules(),
	}
}

func defaultVocabulary() Vocabulary {
	return Vocabulary{
		// 单独出现时只说明 AI 视角
		AITerms: []string{
			"ai",
			"artificial intelligence",
			"machine learning",
			"deep learning",
			"neural network",
			"neural networks",
			"transformer",
			"transformers",
			"large language model",
			"large language models",
			"llm",
			"llms",
			"foundation model",
			"foundation models",
			"reinforcement learning",
			"computer vision",
			"natural language processing",
			"nlp",
			"self-supervised learning",
			"unsupervised learning",
			"multimodal",
			"reasoning model",
			"generative ai",
			"ai agent",
			"ai agents",
			"autonomous agent",
			"autonomous agents",
			"ai safety",
			"responsible ai",
			"model fine-tuning",
			"fine-tuning",
			"few-shot learning",
			"transfer learning",
			"graph neural network",
			"graph neural networks",
		},
		// 单独出现时只说明生命科学视角
		BiologyTerms: []string{
			"biology",
			"biological",
			"biologist",
			"biologists",
			"genomics",
			"genome",
			"genomic",
			"genetic",
			"genetics",
			"dna",
			"rna",
			"protein",
			"proteins",
			"proteomic",
			"proteomics",
			"transcriptomic",
			"transcriptomics",
			"metabolomic",
			"metabolomics",
			"cell",
			"cells",
			"cellular",
			"clinical",
			"clinic",
			"medicine",
			"medical",
			"healthcare",
			"biomedical",
			"life science",
			"life sciences",
			"drug discovery",
			"drug development",
			"therapeutics",
			"therapeutic",
			"disease",
			"diseases",
			"pathology",
			"epidemiology",
			"immunology",
			"immunotherapy",
			"microbiome",
			"synthetic biology",
			"bioengineering",
			"biotechnology",
			"biotech",
			"laboratory",
			"lab",
		},
		// 同时计入 AI 与生命科学两侧
		HybridTerms: []string{
			"bioai",
			"bio-ai",
			"ai in biology",
			"ai for biology",
			"ai-powered biology",
			"ai-driven biology",
			"ai in medicine",
			"ai for medicine",
			"ai in healthcare",
			"ai for healthcare",
			"ai in genomics",
			"ai for genomics",
			"computational biology",
			"computational genomics",
			"computational medicine",
			"bioinformatics",
			"digital pathology",
			"clinical ai",
			"medical ai",
			"healthcare ai",
			"precision medicine",
			"personalized medicine",
			"molecular dynamics",
			"protein folding",
			"alphafold",
			"ai drug discovery",
			"ai-powered drug discovery",
			"ai-driven drug discovery",
			"ai-enabled drug discovery",
			"ai drug development",
			"ai-enabled diagnostics",
			"ai diagnostics",
			"data-driven biology",
			"machine-learning biology",
			"machine learning for biology",
			"machine learning in biology",
			"machine learning for medicine",
			"machine learning in medicine",
			"ml for biology",
			"ml for medicine",
			"ai in biotech",
			"ai for biotech",
			"generative biology",
			"generative biotech",
		},
	}
}

func defaultNormalizationGroups() []NormalizationGroup {
	return []NormalizationGroup{
		{Name: "machine learning", Variants: []string{"machine learning", "ml", "deep learning"}},
		{Name: "neural networks", Variants: []string{"neural network", "neural networks", "deep neural networks"}},
		{Name: "transformer", Variants: []string{"transformer", "attention mechanism", "attention"}},
		{Name: "llm", Variants: []string{"llm", "large language model", "language model", "foundation models"}},
		{Name: "protein folding", Variants: []string{"protein folding", "alphafold", "protein structure"}},
		{Name: "structural biology", Variants: []string{"structural biology", "cryo-em", "x-ray crystallography"}},
		{Name: "molecular dynamics", Variants: []string{"molecular dynamics", "md simulation", "molecular simulation"}},
		{Name: "protein design", Variants: []string{"protein design", "antibody design", "enzyme design"}},
		{Name: "genomics", Variants: []string{"genomics", "genome", "sequencing", "dna sequencing"}},
		{Name: "single-cell", Variants: []string{"single-cell", "scRNA-seq", "single cell analysis"}},
		{Name: "omics", Variants: []string{"omics", "proteomics", "transcriptomics", "metabolomics"}},
		{Name: "crispr", Variants: []string{"crispr", "gene editing", "genome editing"}},
		{Name: "drug discovery", Variants: []string{"drug discovery", "drug development", "pharmaceutical ai"}},
		{Name: "precision medicine", Variants: []string{"precision medicine", "personalized medicine"}},
		{Name: "clinical ai", Variants: []string{"clinical ai", "medical ai", "healthcare ai"}},
		{Name: "medical imaging", Variants: []string{"medical imaging", "radiology ai", "pathology ai"}},
		{Name: "biomarker discovery", Variants: []string{"biomarker", "biomarker discovery"}},
		{Name: "bioinformatics", Variants: []string{"bioinformatics", "computational biology"}},
		{Name: "systems biology", Variants: []string{"systems biology", "network biology"}},
		{Name: "synthetic biology", Variants: []string{"synthetic biology", "bioengineering"}},
		{Name: "evolutionary biology", Variants: []string{"evolutionary biology", "phylogenetics"}},
		{Name: "cancer research", Variants: []string{"cancer research", "oncology ai", "tumor analysis"}},
		{Name: "immunotherapy", Variants: []string{"immunotherapy", "immune system", "immunology ai"}},
		{Name: "vaccine design", Variants: []string{"vaccine design", "vaccine development"}},
		{Name: "microbiome", Variants: []string{"microbiome", "metagenomics", "gut microbiome"}},
		{Name: "epidemiology", Variants: []string{"epidemiology", "public health ai", "disease modeling"}},
		{Name: "ai safety", Variants: []string{"ai safety", "alignment", "responsible ai", "safe ai"}},
		{Name: "governance", Variants: []string{"ai governance", "policy", "regulation", "compliance"}},
		{Name: "generative ai", Variants: []string{"generative ai", "diffusion model", "text-to-image", "video generation", "image generation"}},
		{Name: "multimodal", Variants: []string{"multimodal", "vision-language", "audio-visual", "speech-to-text"}},
		{Name: "robotics", Variants: []string{"robotics", "autonomous robotics", "manipulation", "robot learning"}},
		{Name: "autonomous agents", Variants: []string{"autonomous agent", "ai agent", "agentic", "workflow automation"}},
		{Name: "synthetic data", Variants: []string{"synthetic data", "data generation"}},
		{Name: "open source ai", Variants: []string{"open source ai", "open weights", "model release"}},
		{Name: "compute", Variants: []string{"compute", "gpu", "semiconductor", "chip design", "hardware accelerator"}},
		{Name: "benchmarking", Variants: []string{"benchmark", "evaluation suite", "leaderboard"}},
		{Name: "hallucination", Variants: []string{"hallucination", "factuality", "truthful ai"}},
		{Name: "reasoning", Variants: []string{"reasoning", "chain-of-thought", "tool use"}},
	}
}

func defaultScoring() Scoring {
	return Scoring{
		BaseWeights: map[string]float64{
			"respected": 2.1,
			"community": 1.1,
		},
		DefaultBaseWeight: 1.0,
		SourceOverrides: map[string]float64{
			"Hacker News":            1.15,
			"Techmeme":               0.9,
			"Anthropic Research":     1.25,
			"Google DeepMind":        1.2,
			"OpenAI":                 1.2,
			"Meta AI":                1.15,
			"Thinking Machines":      1.1,
			"Stability AI":           1.1,
			"Allen Institute for AI": 1.1,
			"Stanford HAI":           1.1,
			"MIT Technology Review":  1.05,
			"MIT AI News":            1.05,
		},
		Recency: []RecencyStep{
			{MaxAgeDays: 1, Factor: 1.3},
			{MaxAgeDays: 3, Factor: 1.15},
			{MaxAgeDays: 7, Factor: 1.0},
			{MaxAgeDays: 14, Factor: 0.85},
		},
		StaleFactor:       0.7,
		EngagementDivisor: 100,
		EngagementCap:     2.0,
		MinScore:          2.5,
		TopN:              10,
	}
}

func defaultSentimentRules() SentimentRules {
	return SentimentRules{
		PositiveWords: []string{"amazing", "incredible", "breakthrough", "exciting", "love", "awesome", "great"},
		NegativeWords: []string{"terrible", "awful", "concerning", "worried", "scary", "dangerous", "hate"},
		Profiles: map[string]SentimentProfile{
			"reddit": {
				VeryPositiveScore:  100,
				PositiveScore:      50,
				NegativeScore:      -10,
				StrictVeryPositive: true,
			},
			"hackernews": {
				VeryPositiveScore: 150,
				PositiveScore:     60,
				NegativeScore:     0,
			},
		},
	}
}

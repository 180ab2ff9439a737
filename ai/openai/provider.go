// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"log/slog"

	"github.com/poiesic/pitchfinder/ai"
)

// Provider implements ai.AIProvider on OpenAI-compatible endpoints: an
// embedding model for events and queries, and a chat model answering the
// location judge's yes/no questions.
type Provider struct {
	config   *ai.Config
	embedder *Embedder
	judge    *Judge
	logger   *slog.Logger
}

var _ ai.AIProvider = (*Provider)(nil)

// NewProvider validates config and builds both services. No request is
// made until the first embedding or question.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if config == nil {
		config = ai.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	judge, err := newJudge(config)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-provider")
	logger.Debug("created provider",
		"embedding_host", config.EmbeddingHost,
		"embedding_model", config.EmbeddingModel,
		"dimension", config.Dimension,
		"judge_host", config.JudgeHost,
		"judge_model", config.JudgeModel)

	return &Provider{
		config:   config,
		embedder: embedder,
		judge:    judge,
		logger:   logger,
	}, nil
}

// Embedder returns the embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Judge returns the yes/no question service.
func (p *Provider) Judge() ai.Judge {
	return p.judge
}

// Close is a no-op; the HTTP clients hold nothing that needs releasing.
func (p *Provider) Close() error {
	return nil
}

package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/pitchfinder/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Judge implements ai.Judge using OpenAI-compatible chat APIs.
type Judge struct {
	client llms.Model
	logger *slog.Logger
}

// newJudge is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newJudge(config *ai.Config) (*Judge, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.JudgeHost),
		openai.WithToken(config.Token()),
		openai.WithModel(config.JudgeModel),
	)
	if err != nil {
		return nil, err
	}

	return newJudgeWithModel(client), nil
}

// newJudgeWithModel wraps any langchaingo model.
func newJudgeWithModel(client llms.Model) *Judge {
	return &Judge{
		client: client,
		logger: slog.Default().With("component", "openai-judge"),
	}
}

// NewJudge creates a new judge using the provided configuration.
//
// Returns ai.Judge interface to enforce abstraction.
func NewJudge(config *ai.Config) (ai.Judge, error) {
	return newJudge(config)
}

// YesNo asks the model a closed question at temperature 0.
func (j *Judge) YesNo(ctx context.Context, system, question string) (bool, error) {
	if system == "" {
		system = defaultJudgeSystemPrompt
	}
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(question)},
		},
	}

	response, err := j.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(judgeMaxTokens))
	if err != nil {
		j.logger.Error("failed to generate answer", "err", err)
		return false, err
	}

	if len(response.Choices) < 1 {
		j.logger.Debug("no choices returned from model")
		return false, ErrEmptyResponse
	}

	answer := response.Choices[0].Content
	j.logger.Debug("judge answered", "answer", answer)
	return isAffirmative(answer), nil
}

package mock

import (
	"context"
	"sync"
)

// Question is one recorded call to MockJudge.
type Question struct {
	System   string
	Question string
}

// MockJudge is a test double for ai.Judge.
type MockJudge struct {
	// AnswerFunc decides the answer. If nil, every question is answered no.
	AnswerFunc func(ctx context.Context, system, question string) (bool, error)

	mu        sync.Mutex
	questions []Question
}

// NewMockJudge creates a judge that always answers no.
func NewMockJudge() *MockJudge {
	return &MockJudge{}
}

// WithAnswerFunc replaces the answering behavior.
func (m *MockJudge) WithAnswerFunc(fn func(ctx context.Context, system, question string) (bool, error)) *MockJudge {
	m.AnswerFunc = fn
	return m
}

// YesNo records the question and delegates to AnswerFunc.
func (m *MockJudge) YesNo(ctx context.Context, system, question string) (bool, error) {
	m.mu.Lock()
	m.questions = append(m.questions, Question{System: system, Question: question})
	fn := m.AnswerFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, system, question)
	}
	return false, nil
}

// CallCount returns the number of questions asked.
func (m *MockJudge) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions)
}

// Questions returns the recorded questions in call order.
func (m *MockJudge) Questions() []Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Question(nil), m.questions...)
}

// Reset clears recorded questions and custom behavior.
func (m *MockJudge) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = nil
	m.AnswerFunc = nil
}

package summary

import (
	"context"
	"sync"
)

// MockGenerator is a mock implementation of the Generator interface for
// testing. It is safe for concurrent use.
type MockGenerator struct {
	mu sync.Mutex

	GenerateFunc func(ctx context.Context, req MatchSummaryRequest) (string, error)

	GenerateCalls []MatchSummaryRequest
}

// NewMock creates a new mock instance.
func NewMock() *MockGenerator {
	return &MockGenerator{}
}

// Reset clears all call records.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls = nil
}

func (m *MockGenerator) Generate(ctx context.Context, req MatchSummaryRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls = append(m.GenerateCalls, req)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "", ErrUnavailable
}

package ledger

import "sync"

// MockStore is a mock implementation of the MatchStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	CreateFunc     func(m *MatchRecord) error
	GetFunc        func(id string) (*MatchRecord, error)
	DeleteFunc     func(id string) error
	ListFunc       func() ([]*MatchRecord, error)
	SetSummaryFunc func(id, summary string) error
	ClearFunc      func()

	CreateCalls     []*MatchRecord
	DeleteCalls     []string
	SetSummaryCalls []struct {
		ID      string
		Summary string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = nil
	m.DeleteCalls = nil
	m.SetSummaryCalls = nil
}

func (m *MockStore) Create(rec *MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, rec)
	if m.CreateFunc != nil {
		return m.CreateFunc(rec)
	}
	return nil
}

func (m *MockStore) Get(id string) (*MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return nil
}

func (m *MockStore) List() ([]*MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}

func (m *MockStore) SetSummary(id, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetSummaryCalls = append(m.SetSummaryCalls, struct {
		ID      string
		Summary string
	}{id, summary})
	if m.SetSummaryFunc != nil {
		return m.SetSummaryFunc(id, summary)
	}
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

package profile

import "sync"

// MockStore is a mock implementation of the ProfileStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	CreateFunc        func(p *PlayerProfile) error
	GetFunc           func(id string) (*PlayerProfile, error)
	GetByUsernameFunc func(username string) (*PlayerProfile, error)
	PutFunc           func(p *PlayerProfile) error
	ListFunc          func() ([]*PlayerProfile, error)
	ClearFunc         func()

	CreateCalls []*PlayerProfile
	GetCalls    []string
	PutCalls    []*PlayerProfile
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
	m.GetCalls = nil
	m.PutCalls = nil
}

func (m *MockStore) Create(p *PlayerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, p)
	if m.CreateFunc != nil {
		return m.CreateFunc(p)
	}
	return nil
}

func (m *MockStore) Get(id string) (*PlayerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, id)
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetByUsername(username string) (*PlayerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(username)
	}
	return nil, ErrNotFound
}

func (m *MockStore) Put(p *PlayerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls = append(m.PutCalls, p)
	if m.PutFunc != nil {
		return m.PutFunc(p)
	}
	return nil
}

func (m *MockStore) List() ([]*PlayerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

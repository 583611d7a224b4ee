package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/ident-core/internal/core/domain"
)

// MockUserStore is a mock implementation of UserStore for testing
type MockUserStore struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]*domain.User
	byEmail    map[string]*domain.User
	byUsername map[string]*domain.User

	// CreateErr forces Create to fail when set
	CreateErr error

	// UpdateErr forces UpdateRefreshTokenHash to fail when set
	UpdateErr error
}

// NewMockUserStore creates a new MockUserStore
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		nextID:     1,
		byID:       make(map[int64]*domain.User),
		byEmail:    make(map[string]*domain.User),
		byUsername: make(map[string]*domain.User),
	}
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return domain.ErrAlreadyExists
	}
	if _, ok := m.byUsername[user.Username]; ok {
		return domain.ErrAlreadyExists
	}
	user.ID = m.nextID
	m.nextID++
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	m.byUsername[user.Username] = user
	return nil
}

func (m *MockUserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.byUsername[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockUserStore) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.byEmail[email]; ok {
		return user, nil
	}
	if user, ok := m.byUsername[username]; ok {
		return user, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserStore) UpdateRefreshTokenHash(ctx context.Context, username string, hash *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	user, ok := m.byUsername[username]
	if !ok {
		return domain.ErrNotFound
	}
	user.RefreshTokenHash = hash
	return nil
}

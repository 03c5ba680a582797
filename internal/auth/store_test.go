package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// memStore is an in-memory UserStore for tests.
type memStore struct {
	mu      sync.Mutex
	byEmail map[string]User
	failErr error
}

func newMemStore() *memStore {
	return &memStore{byEmail: make(map[string]User)}
}

func (m *memStore) FindByEmail(_ context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return User{}, m.failErr
	}
	u, ok := m.byEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) FindByID(_ context.Context, id uuid.UUID) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return User{}, m.failErr
	}
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (m *memStore) Create(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	m.byEmail[u.Email] = u
	return nil
}

func (m *memStore) remove(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byEmail, email)
}

var errStoreDown = errors.New("connection refused")

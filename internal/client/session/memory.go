package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/tasklist/internal/common"
)

// MemoryStore keeps the credential in process memory. It backs tests and
// the ":memory:" session database setting.
type MemoryStore struct {
	mu         sync.RWMutex
	credential string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, s.credential != "", nil
}

func (s *MemoryStore) Set(_ context.Context, credential string) error {
	credential = common.StripBearer(credential)
	if credential == "" {
		return ErrEmptyCredential
	}
	s.mu.Lock()
	s.credential = credential
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.credential = ""
	s.mu.Unlock()
	return nil
}

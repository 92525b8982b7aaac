package testutil

import (
	"context"
	"fmt"
	"sync"

	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/s3"
	"github.com/docflow/docflow/internal/types"
)

// InMemoryScanStorage implements s3.Storage, recording stored scans so tests
// can assert on them. FailStore makes the next Store call fail, which is how
// tests exercise the store-first ordering of scan uploads.
type InMemoryScanStorage struct {
	mu        sync.Mutex
	files     map[string]*s3.ScanFile
	failStore bool
}

func NewInMemoryScanStorage() *InMemoryScanStorage {
	return &InMemoryScanStorage{
		files: make(map[string]*s3.ScanFile),
	}
}

func (s *InMemoryScanStorage) Store(ctx context.Context, file *s3.ScanFile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failStore {
		s.failStore = false
		return "", ierr.NewError("scan storage unavailable").
			Mark(ierr.ErrSystem)
	}

	key := fmt.Sprintf("%s_%s", types.GenerateShortID(), file.FileName)
	s.files[key] = file
	return key, nil
}

func (s *InMemoryScanStorage) Remove(ctx context.Context, fileKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, fileKey)
	return nil
}

// FailStore arms a one-shot failure for the next Store call.
func (s *InMemoryScanStorage) FailStore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStore = true
}

// StoredCount returns the number of scans currently held.
func (s *InMemoryScanStorage) StoredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Has reports whether a file key is currently stored.
func (s *InMemoryScanStorage) Has(fileKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[fileKey]
	return ok
}

package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-menufields/pkg/platform"
)

// Call records one store mutation.
type Call struct {
	Op     string
	ItemID int
	Key    string
	Value  any
}

// RecordingStore is an in-memory platform.MetaStore that records mutations
// and can be told to fail them.
type RecordingStore struct {
	mu        sync.Mutex
	data      map[int]map[string]any
	calls     []Call
	reads     int
	SetErr    error
	DeleteErr error
	GetErr    error
}

var _ platform.MetaStore = (*RecordingStore)(nil)

// NewRecordingStore creates an empty recording store.
func NewRecordingStore() *RecordingStore {
	return &RecordingStore{data: make(map[int]map[string]any)}
}

// Seed stores a value without recording a call.
func (s *RecordingStore) Seed(itemID int, key string, value any) *RecordingStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[itemID] == nil {
		s.data[itemID] = make(map[string]any)
	}
	s.data[itemID][key] = value
	return s
}

// Get implements platform.MetaStore.
func (s *RecordingStore) Get(_ context.Context, itemID int, key string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	return s.data[itemID][key], nil
}

// Set implements platform.MetaStore.
func (s *RecordingStore) Set(_ context.Context, itemID int, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "set", ItemID: itemID, Key: key, Value: value})
	if s.SetErr != nil {
		return s.SetErr
	}
	if s.data[itemID] == nil {
		s.data[itemID] = make(map[string]any)
	}
	s.data[itemID][key] = value
	return nil
}

// Delete implements platform.MetaStore.
func (s *RecordingStore) Delete(_ context.Context, itemID int, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "delete", ItemID: itemID, Key: key})
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.data[itemID], key)
	return nil
}

// Calls returns the recorded mutations in order.
func (s *RecordingStore) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Reads returns how many times Get was called.
func (s *RecordingStore) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

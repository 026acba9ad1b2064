package kvstore

import (
	"context"
	"sync"
)

// TestStore is an in-memory KV twin used in tests.
type TestStore struct {
	mutex  sync.Mutex
	values map[string][]byte

	// when set, returned by the respective operation
	GetErr error
	SetErr error
	DelErr error
}

func NewTestStore() *TestStore {
	return &TestStore{
		values: make(map[string][]byte),
	}
}

func (ts *TestStore) Get(_ context.Context, key string) ([]byte, error) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.GetErr != nil {
		return nil, ts.GetErr
	}

	data, ok := ts.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (ts *TestStore) Set(_ context.Context, key string, value []byte) error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.SetErr != nil {
		return ts.SetErr
	}

	ts.values[key] = value
	return nil
}

func (ts *TestStore) Del(_ context.Context, keys ...string) error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.DelErr != nil {
		return ts.DelErr
	}

	for _, key := range keys {
		delete(ts.values, key)
	}
	return nil
}

func (ts *TestStore) Len() int {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	return len(ts.values)
}

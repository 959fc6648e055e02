// Copyright 2021 mamezou-tech. All rights reserved.

package sampleserver

import (
	"sync"
	"time"

	"github.com/awcullen/opcua/ua"
)

// ValueStorage is the storage location of a variable's value.
// *server.VariableNode is a ValueStorage.
type ValueStorage interface {
	Value() ua.DataValue
	SetValue(value ua.DataValue)
}

// SampleStore serializes reads and writes of an Int32 variable.
// The server dispatches method calls in parallel, so every read-modify-write
// of 'SampleVariable' goes through a SampleStore.
type SampleStore struct {
	sync.Mutex
	storage ValueStorage
}

// NewSampleStore returns a SampleStore backed by the given storage.
func NewSampleStore(storage ValueStorage) *SampleStore {
	return &SampleStore{storage: storage}
}

// Value returns the stored value. If the stored DataValue has a bad status,
// or does not hold an Int32, the status is returned instead.
func (s *SampleStore) Value() (int32, ua.StatusCode) {
	s.Lock()
	defer s.Unlock()
	return s.read()
}

// Set stores the value and returns the DataValue written to the storage.
func (s *SampleStore) Set(value int32) (ua.DataValue, ua.StatusCode) {
	s.Lock()
	defer s.Unlock()
	return s.write(value), ua.Good
}

// Add adds delta to the stored value and stores the sum.
// The sum wraps around on overflow.
func (s *SampleStore) Add(delta int32) (int32, ua.StatusCode) {
	s.Lock()
	defer s.Unlock()
	current, status := s.read()
	if status.IsBad() {
		return 0, status
	}
	sum := current + delta
	s.write(sum)
	return sum, ua.Good
}

func (s *SampleStore) read() (int32, ua.StatusCode) {
	dv := s.storage.Value()
	if dv.StatusCode.IsBad() {
		return 0, dv.StatusCode
	}
	v, ok := dv.Value.(int32)
	if !ok {
		return 0, ua.BadTypeMismatch
	}
	return v, ua.Good
}

func (s *SampleStore) write(value int32) ua.DataValue {
	now := time.Now()
	dv := ua.NewDataValue(value, ua.Good, now, 0, now, 0)
	s.storage.SetValue(dv)
	return dv
}

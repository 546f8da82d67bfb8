package idfactory

import (
	"context"
	"sync/atomic"
)

// Memory is an in-process counter. Share one *Memory by reference wherever
// IDs must not collide; two Memory values never coordinate.
type Memory struct {
	next atomic.Int64
}

// NewMemory returns a counter whose first ID is start.
func NewMemory(start int64) (*Memory, error) {
	if start < 0 {
		return nil, ErrNegativeStartID
	}
	m := &Memory{}
	m.next.Store(start)
	return m, nil
}

// NewDefaultMemory returns a counter starting at DefaultStartID.
func NewDefaultMemory() *Memory {
	m, _ := NewMemory(DefaultStartID)
	return m
}

// NewIntID never fails.
func (m *Memory) NewIntID(context.Context) (int64, error) {
	return m.next.Add(1) - 1, nil
}

// Peek returns the ID the next call will hand out.
func (m *Memory) Peek() int64 {
	return m.next.Load()
}

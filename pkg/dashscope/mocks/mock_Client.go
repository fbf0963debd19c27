// Package mocks provides test doubles for the dashscope client.
package mocks

import (
	"context"

	dashscope "github.com/sells-group/competitor-cli/pkg/dashscope"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// StreamGeneration provides a mock function with given fields: ctx, req
func (_m *MockClient) StreamGeneration(ctx context.Context, req dashscope.GenerationRequest) (dashscope.Stream, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for StreamGeneration")
	}

	var r0 dashscope.Stream
	if rf, ok := ret.Get(0).(func(context.Context, dashscope.GenerationRequest) (dashscope.Stream, error)); ok {
		return rf(ctx, req)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(dashscope.Stream)
	}

	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

// SliceStream replays fixed payloads as a dashscope.Stream.
type SliceStream struct {
	Chunks [][]byte
	Final  error
	idx    int
	Closed bool
}

// Next advances to the next payload.
func (s *SliceStream) Next() bool {
	if s.idx >= len(s.Chunks) {
		return false
	}
	s.idx++
	return true
}

// Chunk returns the current payload.
func (s *SliceStream) Chunk() []byte { return s.Chunks[s.idx-1] }

// Err returns Final once all payloads are consumed.
func (s *SliceStream) Err() error {
	if s.idx >= len(s.Chunks) {
		return s.Final
	}
	return nil
}

// Close marks the stream closed.
func (s *SliceStream) Close() error {
	s.Closed = true
	return nil
}

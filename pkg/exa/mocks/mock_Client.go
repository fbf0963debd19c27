// Package mocks provides test doubles for the exa client.
package mocks

import (
	"context"

	exa "github.com/sells-group/competitor-cli/pkg/exa"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// FindSimilar provides a mock function with given fields: ctx, req
func (_m *MockClient) FindSimilar(ctx context.Context, req exa.FindSimilarRequest) (*exa.SearchResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for FindSimilar")
	}

	var r0 *exa.SearchResponse
	if rf, ok := ret.Get(0).(func(context.Context, exa.FindSimilarRequest) (*exa.SearchResponse, error)); ok {
		return rf(ctx, req)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*exa.SearchResponse)
	}

	return r0, ret.Error(1)
}

// Search provides a mock function with given fields: ctx, req
func (_m *MockClient) Search(ctx context.Context, req exa.SearchRequest) (*exa.SearchResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 *exa.SearchResponse
	if rf, ok := ret.Get(0).(func(context.Context, exa.SearchRequest) (*exa.SearchResponse, error)); ok {
		return rf(ctx, req)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*exa.SearchResponse)
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

// Package mocks provides test doubles for the firecrawl client.
package mocks

import (
	"context"

	firecrawl "github.com/sells-group/competitor-cli/pkg/firecrawl"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Extract provides a mock function with given fields: ctx, req
func (_m *MockClient) Extract(ctx context.Context, req firecrawl.ExtractRequest) (*firecrawl.ExtractResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Extract")
	}

	var r0 *firecrawl.ExtractResponse
	if rf, ok := ret.Get(0).(func(context.Context, firecrawl.ExtractRequest) (*firecrawl.ExtractResponse, error)); ok {
		return rf(ctx, req)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*firecrawl.ExtractResponse)
	}

	return r0, ret.Error(1)
}

// GetExtractStatus provides a mock function with given fields: ctx, id
func (_m *MockClient) GetExtractStatus(ctx context.Context, id string) (*firecrawl.ExtractStatusResponse, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetExtractStatus")
	}

	var r0 *firecrawl.ExtractStatusResponse
	if rf, ok := ret.Get(0).(func(context.Context, string) (*firecrawl.ExtractStatusResponse, error)); ok {
		return rf(ctx, id)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*firecrawl.ExtractStatusResponse)
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

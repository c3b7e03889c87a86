// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/williamokano/oss_uploader/pkg/storage"
)

// MockClient is a mock implementation of the storage.Client interface
type MockClient struct {
	mock.Mock
}

// Name provides a mock function with given fields:
func (m *MockClient) Name() string {
	ret := m.Called()

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// Put provides a mock function with given fields: ctx, key, body
func (m *MockClient) Put(ctx context.Context, key string, body []byte) (*storage.PutResult, error) {
	ret := m.Called(ctx, key, body)

	var r0 *storage.PutResult
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, []byte) (*storage.PutResult, error)); ok {
		return rf(ctx, key, body)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, []byte) *storage.PutResult); ok {
		r0 = rf(ctx, key, body)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*storage.PutResult)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, []byte) error); ok {
		r1 = rf(ctx, key, body)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Close provides a mock function with given fields:
func (m *MockClient) Close() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// OK returns the result a healthy provider reports for key
func OK(key string) *storage.PutResult {
	return &storage.PutResult{
		URL:      "https://bucket.example.com/" + key,
		Response: &storage.Response{Status: storage.StatusOK},
	}
}

// NewMockClient creates a new instance of MockClient
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock_1 := &MockClient{}
	mock_1.Mock.Test(t)

	t.Cleanup(func() { mock_1.AssertExpectations(t) })

	return mock_1
}

package mocks

import (
	context "context"

	domain "github.com/jsamuelsen/quote-service/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

// MockAvatarFetcher is a mock type for the AvatarFetcher type
type MockAvatarFetcher struct {
	mock.Mock
}

type MockAvatarFetcher_Expecter struct {
	mock *mock.Mock
}

func (_m *MockAvatarFetcher) EXPECT() *MockAvatarFetcher_Expecter {
	return &MockAvatarFetcher_Expecter{mock: &_m.Mock}
}

// FetchAvatar provides a mock function with given fields: ctx, url
func (_m *MockAvatarFetcher) FetchAvatar(ctx context.Context, url string) (*domain.Avatar, error) {
	ret := _m.Called(ctx, url)

	if len(ret) == 0 {
		panic("no return value specified for FetchAvatar")
	}

	var r0 *domain.Avatar
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*domain.Avatar, error)); ok {
		return rf(ctx, url)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *domain.Avatar); ok {
		r0 = rf(ctx, url)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*domain.Avatar)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, url)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockAvatarFetcher_FetchAvatar_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'FetchAvatar'
type MockAvatarFetcher_FetchAvatar_Call struct {
	*mock.Call
}

// FetchAvatar is a helper method to define mock.On call
//   - ctx context.Context
//   - url string
func (_e *MockAvatarFetcher_Expecter) FetchAvatar(ctx interface{}, url interface{}) *MockAvatarFetcher_FetchAvatar_Call {
	return &MockAvatarFetcher_FetchAvatar_Call{Call: _e.mock.On("FetchAvatar", ctx, url)}
}

func (_c *MockAvatarFetcher_FetchAvatar_Call) Run(run func(ctx context.Context, url string)) *MockAvatarFetcher_FetchAvatar_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockAvatarFetcher_FetchAvatar_Call) Return(_a0 *domain.Avatar, _a1 error) *MockAvatarFetcher_FetchAvatar_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockAvatarFetcher_FetchAvatar_Call) RunAndReturn(run func(context.Context, string) (*domain.Avatar, error)) *MockAvatarFetcher_FetchAvatar_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockAvatarFetcher creates a new instance of MockAvatarFetcher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockAvatarFetcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAvatarFetcher {
	mock := &MockAvatarFetcher{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

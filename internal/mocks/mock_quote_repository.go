// Mocks in this package follow the mockery v2 expecter layout; see .mockery.yaml.

package mocks

import (
	context "context"

	domain "github.com/jsamuelsen/quote-service/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

// MockQuoteRepository is a mock type for the QuoteRepository type
type MockQuoteRepository struct {
	mock.Mock
}

type MockQuoteRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockQuoteRepository) EXPECT() *MockQuoteRepository_Expecter {
	return &MockQuoteRepository_Expecter{mock: &_m.Mock}
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockQuoteRepository) GetByID(ctx context.Context, id int) (*domain.Quote, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetByID")
	}

	var r0 *domain.Quote
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int) (*domain.Quote, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int) *domain.Quote); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*domain.Quote)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockQuoteRepository_GetByID_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetByID'
type MockQuoteRepository_GetByID_Call struct {
	*mock.Call
}

// GetByID is a helper method to define mock.On call
//   - ctx context.Context
//   - id int
func (_e *MockQuoteRepository_Expecter) GetByID(ctx interface{}, id interface{}) *MockQuoteRepository_GetByID_Call {
	return &MockQuoteRepository_GetByID_Call{Call: _e.mock.On("GetByID", ctx, id)}
}

func (_c *MockQuoteRepository_GetByID_Call) Run(run func(ctx context.Context, id int)) *MockQuoteRepository_GetByID_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(int))
	})
	return _c
}

func (_c *MockQuoteRepository_GetByID_Call) Return(_a0 *domain.Quote, _a1 error) *MockQuoteRepository_GetByID_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockQuoteRepository_GetByID_Call) RunAndReturn(run func(context.Context, int) (*domain.Quote, error)) *MockQuoteRepository_GetByID_Call {
	_c.Call.Return(run)
	return _c
}

// GetRandom provides a mock function with given fields: ctx, quoteType
func (_m *MockQuoteRepository) GetRandom(ctx context.Context, quoteType domain.QuoteType) (*domain.Quote, error) {
	ret := _m.Called(ctx, quoteType)

	if len(ret) == 0 {
		panic("no return value specified for GetRandom")
	}

	var r0 *domain.Quote
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, domain.QuoteType) (*domain.Quote, error)); ok {
		return rf(ctx, quoteType)
	}
	if rf, ok := ret.Get(0).(func(context.Context, domain.QuoteType) *domain.Quote); ok {
		r0 = rf(ctx, quoteType)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*domain.Quote)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, domain.QuoteType) error); ok {
		r1 = rf(ctx, quoteType)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockQuoteRepository_GetRandom_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetRandom'
type MockQuoteRepository_GetRandom_Call struct {
	*mock.Call
}

// GetRandom is a helper method to define mock.On call
//   - ctx context.Context
//   - quoteType domain.QuoteType
func (_e *MockQuoteRepository_Expecter) GetRandom(ctx interface{}, quoteType interface{}) *MockQuoteRepository_GetRandom_Call {
	return &MockQuoteRepository_GetRandom_Call{Call: _e.mock.On("GetRandom", ctx, quoteType)}
}

func (_c *MockQuoteRepository_GetRandom_Call) Run(run func(ctx context.Context, quoteType domain.QuoteType)) *MockQuoteRepository_GetRandom_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.QuoteType))
	})
	return _c
}

func (_c *MockQuoteRepository_GetRandom_Call) Return(_a0 *domain.Quote, _a1 error) *MockQuoteRepository_GetRandom_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockQuoteRepository_GetRandom_Call) RunAndReturn(run func(context.Context, domain.QuoteType) (*domain.Quote, error)) *MockQuoteRepository_GetRandom_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockQuoteRepository creates a new instance of MockQuoteRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockQuoteRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuoteRepository {
	mock := &MockQuoteRepository{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

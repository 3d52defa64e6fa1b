package mocks

import (
	context "context"

	domain "github.com/jsamuelsen/quote-service/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

// MockQuoteRenderer is a mock type for the QuoteRenderer type
type MockQuoteRenderer struct {
	mock.Mock
}

type MockQuoteRenderer_Expecter struct {
	mock *mock.Mock
}

func (_m *MockQuoteRenderer) EXPECT() *MockQuoteRenderer_Expecter {
	return &MockQuoteRenderer_Expecter{mock: &_m.Mock}
}

// Render provides a mock function with given fields: ctx, quote, cfg
func (_m *MockQuoteRenderer) Render(ctx context.Context, quote *domain.Quote, cfg domain.RenderConfig) string {
	ret := _m.Called(ctx, quote, cfg)

	if len(ret) == 0 {
		panic("no return value specified for Render")
	}

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Quote, domain.RenderConfig) string); ok {
		r0 = rf(ctx, quote, cfg)
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// MockQuoteRenderer_Render_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Render'
type MockQuoteRenderer_Render_Call struct {
	*mock.Call
}

// Render is a helper method to define mock.On call
//   - ctx context.Context
//   - quote *domain.Quote
//   - cfg domain.RenderConfig
func (_e *MockQuoteRenderer_Expecter) Render(ctx interface{}, quote interface{}, cfg interface{}) *MockQuoteRenderer_Render_Call {
	return &MockQuoteRenderer_Render_Call{Call: _e.mock.On("Render", ctx, quote, cfg)}
}

func (_c *MockQuoteRenderer_Render_Call) Run(run func(ctx context.Context, quote *domain.Quote, cfg domain.RenderConfig)) *MockQuoteRenderer_Render_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*domain.Quote), args[2].(domain.RenderConfig))
	})
	return _c
}

func (_c *MockQuoteRenderer_Render_Call) Return(_a0 string) *MockQuoteRenderer_Render_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockQuoteRenderer_Render_Call) RunAndReturn(run func(context.Context, *domain.Quote, domain.RenderConfig) string) *MockQuoteRenderer_Render_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockQuoteRenderer creates a new instance of MockQuoteRenderer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockQuoteRenderer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuoteRenderer {
	mock := &MockQuoteRenderer{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

// Package testutil provides testing utilities and helpers for backend tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
	"github.com/GridlineHQ/gridline/backend/internal/domain/tomo"
	"github.com/GridlineHQ/gridline/backend/internal/shared/types"
)

// MockTomoBackend is a mock implementation of tomo.Backend for testing.
type MockTomoBackend struct {
	mock.Mock
}

// Normalize mocks the Normalize method.
func (m *MockTomoBackend) Normalize(ctx context.Context, proj, white, dark *ndarray.Array) (*ndarray.Array, error) {
	args := m.Called(ctx, proj, white, dark)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ndarray.Array), args.Error(1)
}

// CorrectDrift mocks the CorrectDrift method.
func (m *MockTomoBackend) CorrectDrift(ctx context.Context, proj *ndarray.Array, air int) (*ndarray.Array, error) {
	args := m.Called(ctx, proj, air)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ndarray.Array), args.Error(1)
}

// PhaseRetrieval mocks the PhaseRetrieval method.
func (m *MockTomoBackend) PhaseRetrieval(ctx context.Context, proj *ndarray.Array, opts tomo.PhaseOptions) (*ndarray.Array, error) {
	args := m.Called(ctx, proj, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ndarray.Array), args.Error(1)
}

// FindCenter mocks the FindCenter method.
func (m *MockTomoBackend) FindCenter(ctx context.Context, proj *ndarray.Array, theta []float64) (float64, error) {
	args := m.Called(ctx, proj, theta)
	return args.Get(0).(float64), args.Error(1)
}

// DiagnoseCenter mocks the DiagnoseCenter method.
func (m *MockTomoBackend) DiagnoseCenter(ctx context.Context, proj *ndarray.Array, theta []float64, centerStart, centerEnd float64) (*ndarray.Array, error) {
	args := m.Called(ctx, proj, theta, centerStart, centerEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ndarray.Array), args.Error(1)
}

// GridRec mocks the GridRec method.
func (m *MockTomoBackend) GridRec(ctx context.Context, proj *ndarray.Array, theta []float64, center float64) (*ndarray.Array, error) {
	args := m.Called(ctx, proj, theta, center)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ndarray.Array), args.Error(1)
}

// SIRT mocks the SIRT method.
func (m *MockTomoBackend) SIRT(ctx context.Context, proj *ndarray.Array, theta []float64, center float64, iterations int) (*ndarray.Array, error) {
	args := m.Called(ctx, proj, theta, center, iterations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ndarray.Array), args.Error(1)
}

// ART mocks the ART method.
func (m *MockTomoBackend) ART(ctx context.Context, proj *ndarray.Array, theta []float64, center float64, iterations int) (*ndarray.Array, error) {
	args := m.Called(ctx, proj, theta, center, iterations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ndarray.Array), args.Error(1)
}

// MockServiceProvider is a mock implementation of service.Provider for testing.
type MockServiceProvider struct {
	mock.Mock
}

// Definition mocks the Definition method.
func (m *MockServiceProvider) Definition() types.Service {
	args := m.Called()
	return args.Get(0).(types.Service)
}

// Execute mocks the Execute method.
func (m *MockServiceProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	args := m.Called(ctx, toolID, params, appCtx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Result), args.Error(1)
}

// ZeroArray creates a float64 array of the given shape filled with zeros.
func ZeroArray(t *testing.T, shape ...int) *ndarray.Array {
	t.Helper()
	arr, err := ndarray.Zeros(ndarray.Float64, shape...)
	if err != nil {
		t.Fatalf("ZeroArray: %v", err)
	}
	return arr
}

// NewMockTomoBackend creates a mock backend with default behaviors sized
// for the 4x2x3 test projections from ProjParams.
func NewMockTomoBackend(t *testing.T) *MockTomoBackend {
	t.Helper()
	m := new(MockTomoBackend)

	working := ZeroArray(t, 4, 2, 3)
	recon := ZeroArray(t, 2, 3, 3)
	trials := ZeroArray(t, 3, 2, 2)

	m.On("Normalize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(working, nil).Maybe()
	m.On("CorrectDrift", mock.Anything, mock.Anything, mock.Anything).
		Return(working, nil).Maybe()
	m.On("PhaseRetrieval", mock.Anything, mock.Anything, mock.Anything).
		Return(working, nil).Maybe()
	m.On("FindCenter", mock.Anything, mock.Anything, mock.Anything).
		Return(1.5, nil).Maybe()
	m.On("DiagnoseCenter", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(trials, nil).Maybe()
	m.On("GridRec", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(recon, nil).Maybe()
	m.On("SIRT", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(recon, nil).Maybe()
	m.On("ART", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(recon, nil).Maybe()

	return m
}

// ProjParams builds decoded-JSON load parameters for a 4x2x3 projection
// stack with matching reference frames and angles.
func ProjParams(t *testing.T) map[string]interface{} {
	t.Helper()

	proj := make([]interface{}, 4)
	val := 0.0
	for a := 0; a < 4; a++ {
		rows := make([]interface{}, 2)
		for r := 0; r < 2; r++ {
			cols := make([]interface{}, 3)
			for c := 0; c < 3; c++ {
				val++
				cols[c] = val
			}
			rows[r] = cols
		}
		proj[a] = rows
	}

	frame := func(fill float64) []interface{} {
		rows := make([]interface{}, 2)
		for r := 0; r < 2; r++ {
			cols := make([]interface{}, 3)
			for c := 0; c < 3; c++ {
				cols[c] = fill
			}
			rows[r] = cols
		}
		return rows
	}

	return map[string]interface{}{
		"proj":  proj,
		"white": frame(9),
		"dark":  frame(1),
		"theta": []interface{}{0.0, 0.5, 1.0, 1.5},
	}
}

// CreateTestService creates a test service definition.
func CreateTestService(t *testing.T, id string, category types.Category) types.Service {
	t.Helper()

	return types.Service{
		ID:           id,
		Name:         "Test Service",
		Description:  "A test service for unit testing",
		Category:     category,
		Capabilities: []string{"test"},
		Tools: []types.Tool{
			{
				ID:          id + ".test",
				Name:        "test",
				Description: "Test tool",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// AssertSuccess is a helper to assert a successful result.
func AssertSuccess(t *testing.T, result *types.Result) {
	t.Helper()
	if result == nil {
		t.Fatal("Result is nil")
	}
	if !result.Success {
		t.Fatalf("Expected success, got error: %v", result.Error)
	}
}

// AssertError is a helper to assert an error result.
func AssertError(t *testing.T, result *types.Result) {
	t.Helper()
	if result == nil {
		t.Fatal("Result is nil")
	}
	if result.Success {
		t.Fatal("Expected error, got success")
	}
	if result.Error == nil {
		t.Fatal("Expected error message, got nil")
	}
}

// AssertDataField is a helper to assert a data field exists and matches expected value.
func AssertDataField(t *testing.T, result *types.Result, field string, expected interface{}) {
	t.Helper()
	AssertSuccess(t, result)

	if result.Data == nil {
		t.Fatal("Result data is nil")
	}

	actual, ok := result.Data[field]
	if !ok {
		t.Fatalf("Field %s not found in result data", field)
	}

	if actual != expected {
		t.Fatalf("Field %s: expected %v, got %v", field, expected, actual)
	}
}

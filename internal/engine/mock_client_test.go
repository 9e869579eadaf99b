package engine

import (
	"context"
	"errors"

	"github.com/fabricsnap/fabricsnap/internal/client"
	"github.com/fabricsnap/fabricsnap/internal/model"
)

// MockAPICClient implements client.APICClient for testing. Every unset
// function field returns an empty collection.
type MockAPICClient struct {
	LoginFn           func(ctx context.Context) error
	ControllersFn     func(ctx context.Context) ([]model.RawRecord, error)
	TopSystemsFn      func(ctx context.Context) ([]model.RawRecord, error)
	CPUStatsFn        func(ctx context.Context) ([]model.RawRecord, error)
	MemoryStatsFn     func(ctx context.Context) ([]model.RawRecord, error)
	FabricHealthFn    func(ctx context.Context) ([]model.RawRecord, error)
	FaultsFn          func(ctx context.Context, q client.FaultQuery) ([]model.RawRecord, error)
	InterfacesFn      func(ctx context.Context) ([]model.RawRecord, error)
	EndpointsFn       func(ctx context.Context) ([]model.RawRecord, error)
	RoutesFn          func(ctx context.Context) ([]model.RawRecord, error)
	InterfaceErrorsFn func(ctx context.Context) ([]model.RawRecord, error)
	EtherStatsFn      func(ctx context.Context) ([]model.RawRecord, error)
	EgressCountersFn  func(ctx context.Context) ([]model.RawRecord, error)
	OutputCountersFn  func(ctx context.Context) ([]model.RawRecord, error)
	Dot3StatsFn       func(ctx context.Context) ([]model.RawRecord, error)
}

func (m *MockAPICClient) Login(ctx context.Context) error {
	if m.LoginFn != nil {
		return m.LoginFn(ctx)
	}
	return nil
}

func (m *MockAPICClient) Controllers(ctx context.Context) ([]model.RawRecord, error) {
	if m.ControllersFn != nil {
		return m.ControllersFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) TopSystems(ctx context.Context) ([]model.RawRecord, error) {
	if m.TopSystemsFn != nil {
		return m.TopSystemsFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) CPUStats(ctx context.Context) ([]model.RawRecord, error) {
	if m.CPUStatsFn != nil {
		return m.CPUStatsFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) MemoryStats(ctx context.Context) ([]model.RawRecord, error) {
	if m.MemoryStatsFn != nil {
		return m.MemoryStatsFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) FabricHealth(ctx context.Context) ([]model.RawRecord, error) {
	if m.FabricHealthFn != nil {
		return m.FabricHealthFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) Faults(ctx context.Context, q client.FaultQuery) ([]model.RawRecord, error) {
	if m.FaultsFn != nil {
		return m.FaultsFn(ctx, q)
	}
	return nil, nil
}

func (m *MockAPICClient) Interfaces(ctx context.Context) ([]model.RawRecord, error) {
	if m.InterfacesFn != nil {
		return m.InterfacesFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) Endpoints(ctx context.Context) ([]model.RawRecord, error) {
	if m.EndpointsFn != nil {
		return m.EndpointsFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) Routes(ctx context.Context) ([]model.RawRecord, error) {
	if m.RoutesFn != nil {
		return m.RoutesFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) InterfaceErrors(ctx context.Context) ([]model.RawRecord, error) {
	if m.InterfaceErrorsFn != nil {
		return m.InterfaceErrorsFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) EtherStats(ctx context.Context) ([]model.RawRecord, error) {
	if m.EtherStatsFn != nil {
		return m.EtherStatsFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) EgressCounters(ctx context.Context) ([]model.RawRecord, error) {
	if m.EgressCountersFn != nil {
		return m.EgressCountersFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) OutputCounters(ctx context.Context) ([]model.RawRecord, error) {
	if m.OutputCountersFn != nil {
		return m.OutputCountersFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) Dot3Stats(ctx context.Context) ([]model.RawRecord, error) {
	if m.Dot3StatsFn != nil {
		return m.Dot3StatsFn(ctx)
	}
	return nil, nil
}

func (m *MockAPICClient) Host() string {
	return "mock-apic"
}

var errMockFailure = errors.New("mock failure")

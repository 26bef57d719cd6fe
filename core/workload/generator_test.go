package workload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSampler struct {
	mock.Mock
}

func (m *mockSampler) Arrival(horizon int) int {
	return m.Called(horizon).Int(0)
}

func (m *mockSampler) Service(mean, stddev float64) float64 {
	return m.Called(mean, stddev).Get(0).(float64)
}

func TestParamsValidate(t *testing.T) {
	ok := Params{ArrivalHorizon: 1, MeanService: 5, ServiceStdDev: 1, Processes: 3}
	require.NoError(t, ok.Validate())

	bad := []Params{
		{ArrivalHorizon: 0, MeanService: 5, ServiceStdDev: 1, Processes: 3},
		{ArrivalHorizon: 1, MeanService: -1, ServiceStdDev: 1, Processes: 3},
		{ArrivalHorizon: 1, MeanService: 5, ServiceStdDev: 0, Processes: 3},
		{ArrivalHorizon: 1, MeanService: 5, ServiceStdDev: 1, Processes: -2},
	}
	for _, p := range bad {
		err := p.Validate()
		if !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("expected ErrInvalidParameter for %+v, got %v", p, err)
		}
	}
}

func TestValidateNamesAllFields(t *testing.T) {
	err := Params{}.Validate()
	require.Error(t, err)
	for _, f := range []string{"K=0", "D=0", "V=0", "N=0"} {
		assert.Contains(t, err.Error(), f)
	}
}

func TestServiceTicks(t *testing.T) {
	cases := map[float64]int{
		4.99:  5,
		5.0:   6,
		0.2:   1,
		-0.5:  1,
		-7.3:  1,
		120.7: 121,
	}
	for in, want := range cases {
		assert.Equal(t, want, ServiceTicks(in), "sample %v", in)
	}
}

func TestGenerateUsesSamplerInIDOrder(t *testing.T) {
	s := &mockSampler{}
	s.On("Arrival", 1).Return(0)
	s.On("Service", 5.0, 1.0).Return(2.4).Once()
	s.On("Service", 5.0, 1.0).Return(0.1).Once()
	s.On("Service", 5.0, 1.0).Return(1.9).Once()

	g := NewGenerator(s, nil)
	reg, err := g.Generate(Params{ArrivalHorizon: 1, MeanService: 5, ServiceStdDev: 1, Processes: 3})
	require.NoError(t, err)
	require.Equal(t, 3, reg.Len())
	totals := []int{reg.Get(0).Total, reg.Get(1).Total, reg.Get(2).Total}
	assert.Equal(t, []int{3, 1, 2}, totals)
	for _, p := range reg.Processes {
		assert.Equal(t, p.Total, p.Remaining)
		assert.True(t, p.Active)
		assert.Equal(t, -1, p.Turnaround)
	}
	s.AssertExpectations(t)
}

func TestGenerateValidatesBeforeSampling(t *testing.T) {
	s := &mockSampler{}
	g := NewGenerator(s, nil)
	_, err := g.Generate(Params{ArrivalHorizon: 1, MeanService: 5, ServiceStdDev: 1, Processes: 0})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	s.AssertNotCalled(t, "Arrival", mock.Anything)
	s.AssertNotCalled(t, "Service", mock.Anything, mock.Anything)
}

func TestGaussianSamplerDeterministic(t *testing.T) {
	p := Params{ArrivalHorizon: 20, MeanService: 6, ServiceStdDev: 3, Processes: 50}
	a, err := NewGenerator(NewGaussianSampler(42), nil).Generate(p)
	require.NoError(t, err)
	b, err := NewGenerator(NewGaussianSampler(42), nil).Generate(p)
	require.NoError(t, err)
	assert.Equal(t, a.Processes, b.Processes)

	c, err := NewGenerator(NewGaussianSampler(43), nil).Generate(p)
	require.NoError(t, err)
	assert.NotEqual(t, a.Processes, c.Processes)
}

func TestGaussianSamplerRanges(t *testing.T) {
	p := Params{ArrivalHorizon: 7, MeanService: 10, ServiceStdDev: 2, Processes: 2000}
	reg, err := NewGenerator(NewGaussianSampler(7), nil).Generate(p)
	require.NoError(t, err)
	sum := 0
	for _, proc := range reg.Processes {
		if proc.Arrival < 0 || proc.Arrival >= p.ArrivalHorizon {
			t.Fatalf("arrival %d outside [0,%d)", proc.Arrival, p.ArrivalHorizon)
		}
		if proc.Total < 1 {
			t.Fatalf("total %d below 1", proc.Total)
		}
		sum += proc.Total
	}
	// floor(x)+1 has mean D+0.5 for a continuous x.
	mean := float64(sum) / float64(len(reg.Processes))
	assert.InDelta(t, 10.5, mean, 0.3)
}

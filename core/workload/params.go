package workload

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParameter is returned when a simulation parameter is not strictly positive.
var ErrInvalidParameter = errors.New("D, V, N and K must be > 0")

// Params are the four knobs of a synthetic population.
type Params struct {
	// ArrivalHorizon (K) is the exclusive upper bound of arrival ticks.
	ArrivalHorizon int `json:"arrival_horizon" yaml:"arrival_horizon"`
	// MeanService (D) is the mean of the Gaussian service demand.
	MeanService float64 `json:"mean_service" yaml:"mean_service"`
	// ServiceStdDev (V) is the standard deviation of the service demand.
	ServiceStdDev float64 `json:"service_stddev" yaml:"service_stddev"`
	// Processes (N) is the population size.
	Processes int `json:"processes" yaml:"processes"`
}

// Validate rejects any non-positive parameter. The returned error wraps
// ErrInvalidParameter and names every offending field.
func (p Params) Validate() error {
	var bad []string
	if p.ArrivalHorizon <= 0 {
		bad = append(bad, fmt.Sprintf("K=%d", p.ArrivalHorizon))
	}
	if p.MeanService <= 0 {
		bad = append(bad, fmt.Sprintf("D=%g", p.MeanService))
	}
	if p.ServiceStdDev <= 0 {
		bad = append(bad, fmt.Sprintf("V=%g", p.ServiceStdDev))
	}
	if p.Processes <= 0 {
		bad = append(bad, fmt.Sprintf("N=%d", p.Processes))
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w (got %s)", ErrInvalidParameter, strings.Join(bad, ", "))
	}
	return nil
}

// Package simulation orchestrates one invocation: it builds a population,
// replays it under every selected policy on independent copies and turns each
// run into a metrics.RunSummary.
package simulation

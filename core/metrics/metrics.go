// Package metrics defines the observability interfaces the engine emits
// to. Sinks are optional capabilities: a sink implements the base
// interface and any of the recorder interfaces it cares about.
package metrics

import (
	"time"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
)

// DaySummary aggregates one simulated day across a model's fleet.
type DaySummary struct {
	RunID     string
	ModelName string
	Day       int
	TotalDays int
	MeanSoC   float64
	MeanSoH   float64
	EnergyWh  float64 // fleet-wide energy drawn this day
	KmDriven  float64 // fleet-wide distance this day
	Swaps     int
	Time      time.Time
}

// MetricsSink records fleet results for observability purposes.
type MetricsSink interface {
	RecordFleetResult(res model.FleetResult) error
}

// DaySummaryRecorder records per-day fleet aggregates.
type DaySummaryRecorder interface {
	RecordDaySummary(ev DaySummary) error
}

// RunRecorder records run-level metadata once per simulation.
type RunRecorder interface {
	RecordRun(runID, bestModel string, elapsed time.Duration) error
}

// NopSink discards everything.
type NopSink struct{}

// RecordFleetResult implements MetricsSink.
func (NopSink) RecordFleetResult(model.FleetResult) error { return nil }

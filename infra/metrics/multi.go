package metrics

import (
	"time"

	coremetrics "github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/metrics"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
)

// MultiSink fans simulation records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordFleetResult forwards the result to all sinks, returning the
// first error encountered.
func (m *MultiSink) RecordFleetResult(res model.FleetResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordFleetResult(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordDaySummary forwards day aggregates to sinks that support them.
func (m *MultiSink) RecordDaySummary(ev coremetrics.DaySummary) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.DaySummaryRecorder); ok {
			if err := rec.RecordDaySummary(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRun forwards run metadata to sinks that support it.
func (m *MultiSink) RecordRun(runID, bestModel string, elapsed time.Duration) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.RunRecorder); ok {
			if err := rec.RecordRun(runID, bestModel, elapsed); err != nil {
				return err
			}
		}
	}
	return nil
}

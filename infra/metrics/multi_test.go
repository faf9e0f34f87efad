package metrics

import (
	"testing"
	"time"

	coremetrics "github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/metrics"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
)

type recordSink struct {
	results int
	days    int
	runs    int
}

func (r *recordSink) RecordFleetResult(model.FleetResult) error {
	r.results++
	return nil
}

func (r *recordSink) RecordDaySummary(coremetrics.DaySummary) error {
	r.days++
	return nil
}

func (r *recordSink) RecordRun(string, string, time.Duration) error {
	r.runs++
	return nil
}

// resultOnlySink implements just the base interface.
type resultOnlySink struct {
	results int
}

func (r *resultOnlySink) RecordFleetResult(model.FleetResult) error {
	r.results++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordFleetResult(model.FleetResult{}); err != nil {
		t.Fatalf("record result: %v", err)
	}
	if err := m.RecordDaySummary(coremetrics.DaySummary{}); err != nil {
		t.Fatalf("record day summary: %v", err)
	}
	if err := m.RecordRun("run-1", "LFP BaaS", time.Second); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if s1.results != 1 || s1.days != 1 || s1.runs != 1 {
		t.Fatalf("records not forwarded to s1: %+v", s1)
	}
	if s2.results != 1 || s2.days != 1 || s2.runs != 1 {
		t.Fatalf("records not forwarded to s2: %+v", s2)
	}
}

func TestMultiSinkSkipsUnsupportedCapabilities(t *testing.T) {
	base := &resultOnlySink{}
	m := NewMultiSink(base, coremetrics.NopSink{})
	if err := m.RecordFleetResult(model.FleetResult{}); err != nil {
		t.Fatalf("record result: %v", err)
	}
	if err := m.RecordDaySummary(coremetrics.DaySummary{}); err != nil {
		t.Fatalf("record day summary: %v", err)
	}
	if err := m.RecordRun("run-1", "", 0); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if base.results != 1 {
		t.Fatalf("base sink not reached: %+v", base)
	}
}

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
)

func TestWriteJSONRoundTrip(t *testing.T) {
	in := Summary{
		RunID:     "run-7",
		BestModel: "LFP BaaS",
		Results: map[string]model.FleetResult{
			"LFP BaaS": {ModelName: "LFP BaaS", FleetSize: 100, SimDays: 40, CostPerKm: 12.5},
		},
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, in); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var out Summary
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RunID != in.RunID || out.BestModel != in.BestModel {
		t.Fatalf("round trip lost fields: %+v", out)
	}
	if out.Results["LFP BaaS"].CostPerKm != 12.5 {
		t.Fatalf("result fields lost: %+v", out.Results)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatalf("output not indented")
	}
}

func TestWriteResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteResultsCSV(&buf, []model.FleetResult{
		{ModelName: "SIB Owned", CostPerKm: 15.25, TotalKm: 1000, Swaps: 3},
		{ModelName: "SIB BaaS", CostPerKm: 18, TotalKm: 1000, Swaps: 3},
	})
	if err != nil {
		t.Fatalf("write csv: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "model" || rows[0][1] != "cost_per_km_ksh" {
		t.Fatalf("header %v", rows[0])
	}
	if rows[1][0] != "SIB Owned" || rows[1][1] != "15.25" || rows[1][6] != "3" {
		t.Fatalf("row %v", rows[1])
	}
	if rows[2][0] != "SIB BaaS" {
		t.Fatalf("model order not preserved: %v", rows[2])
	}
}

func TestWriteTelemetryCSV(t *testing.T) {
	v := model.VehicleState{
		ID: "SIB-0001",
		DailyLog: []model.TelemetryRecord{
			{Day: 1, SoC: 0.7, SoH: 0.999, DistanceKm: 40, EnergyWh: 840, WhPerKm: 21, Swapped: false, TCOKSh: 10},
			{Day: 2, SoC: 0.95, SoH: 0.998, DistanceKm: 38, EnergyWh: 798, WhPerKm: 21, Swapped: true, TCOKSh: 226},
		},
	}
	var buf bytes.Buffer
	if err := WriteTelemetryCSV(&buf, v); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "1" || rows[1][6] != "false" {
		t.Fatalf("day 1 row %v", rows[1])
	}
	if rows[2][0] != "2" || rows[2][6] != "true" || rows[2][7] != "226" {
		t.Fatalf("day 2 row %v", rows[2])
	}
}

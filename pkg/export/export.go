// Package export serializes simulation outcomes for the boundary UI and
// offline analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
)

// Summary is the top-level JSON document produced for a run.
type Summary struct {
	RunID     string                       `json:"run_id"`
	BestModel string                       `json:"best_model"`
	Results   map[string]model.FleetResult `json:"results"`
}

// WriteJSON writes the run summary to w in JSON format.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteResultsCSV writes one row per business model in the given order.
func WriteResultsCSV(w io.Writer, results []model.FleetResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"model", "cost_per_km_ksh", "total_opex_ksh", "total_capex_ksh", "total_km", "mean_soh", "swaps"}); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			r.ModelName,
			strconv.FormatFloat(r.CostPerKm, 'f', -1, 64),
			strconv.FormatFloat(r.TotalOpex, 'f', -1, 64),
			strconv.FormatFloat(r.TotalCapex, 'f', -1, 64),
			strconv.FormatFloat(r.TotalKm, 'f', -1, 64),
			strconv.FormatFloat(r.MeanSoH, 'f', -1, 64),
			strconv.Itoa(r.Swaps),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTelemetryCSV writes a vehicle's daily log, one row per day. The
// boundary uses the first vehicle of each fleet to drive its charts.
func WriteTelemetryCSV(w io.Writer, v model.VehicleState) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"day", "soc", "soh", "distance_km", "energy_wh", "wh_per_km", "swapped", "tco_ksh"}); err != nil {
		return err
	}
	for _, r := range v.DailyLog {
		rec := []string{
			strconv.Itoa(r.Day),
			strconv.FormatFloat(r.SoC, 'f', -1, 64),
			strconv.FormatFloat(r.SoH, 'f', -1, 64),
			strconv.FormatFloat(r.DistanceKm, 'f', -1, 64),
			strconv.FormatFloat(r.EnergyWh, 'f', -1, 64),
			strconv.FormatFloat(r.WhPerKm, 'f', -1, 64),
			strconv.FormatBool(r.Swapped),
			strconv.FormatFloat(r.TCOKSh, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

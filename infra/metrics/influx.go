package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/logger"
	coremetrics "github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/metrics"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
	infralog "github.com/CalKK/calvin-kinyanjui-BEE5202-144859/infra/logger"
)

// InfluxSink writes simulation results to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      infralog.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordFleetResult writes the per-model aggregate as a single point.
func (s *InfluxSink) RecordFleetResult(res model.FleetResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fleet_result").
		AddTag("model", res.ModelName).
		AddTag("sim_days", strconv.Itoa(res.SimDays)).
		AddField("cost_per_km_ksh", res.CostPerKm).
		AddField("total_opex_ksh", res.TotalOpex).
		AddField("total_capex_ksh", res.TotalCapex).
		AddField("total_km", res.TotalKm).
		AddField("mean_soh", res.MeanSoH).
		AddField("swaps", res.Swaps).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDaySummary writes one point per simulated day and model,
// producing the SoH/energy time series the dashboards plot.
func (s *InfluxSink) RecordDaySummary(ev coremetrics.DaySummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fleet_day").
		AddTag("run_id", ev.RunID).
		AddTag("model", ev.ModelName).
		AddField("day", ev.Day).
		AddField("mean_soc", ev.MeanSoC).
		AddField("mean_soh", ev.MeanSoH).
		AddField("energy_wh", ev.EnergyWh).
		AddField("km_driven", ev.KmDriven).
		AddField("swaps", ev.Swaps).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() { s.client.Close() }

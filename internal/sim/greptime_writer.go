package sim

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"netintel-sim/internal/telemetry"
)

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter exports region and component health to GreptimeDB.
type GreptimeDBWriter struct {
	client         greptimeClient
	regionTable    string
	componentTable string
	timeout        time.Duration
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port").
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host, port := endpoint, 0
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("greptime endpoint %q: bad port", endpoint)
		}
		host, port = h, n
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port > 0 {
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeDBWriter{
		client:         client,
		regionTable:    telemetry.RegionTableName,
		componentTable: telemetry.ComponentTableName,
		timeout:        5 * time.Second,
	}, nil
}

// WriteSnapshot inserts one row per region and component.
func (w *GreptimeDBWriter) WriteSnapshot(snap telemetry.Snapshot) error {
	if len(snap.Regions) == 0 && len(snap.Components) == 0 {
		return nil
	}
	regions, err := w.regionRows(snap)
	if err != nil {
		return err
	}
	components, err := w.componentRows(snap)
	if err != nil {
		return err
	}
	timeout := w.timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if _, err := w.client.Write(ctx, regions, components); err != nil {
		return fmt.Errorf("greptime write tick %d: %w", snap.Tick, err)
	}
	return nil
}

func (w *GreptimeDBWriter) regionRows(snap telemetry.Snapshot) (*table.Table, error) {
	tbl, err := table.New(w.regionTable)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"region_id", "scenario"} {
		if err := tbl.AddTagColumn(col, types.STRING); err != nil {
			return nil, err
		}
	}
	for _, col := range []string{"health_score", "current_load", "temperature_c"} {
		if err := tbl.AddFieldColumn(col, types.FLOAT64); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddFieldColumn("weather", types.STRING); err != nil {
		return nil, err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	for _, r := range snap.Regions {
		if err := tbl.AddRow(r.ID, string(r.Scenario), r.Health, r.Load, r.TemperatureC, r.Weather, snap.At); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func (w *GreptimeDBWriter) componentRows(snap telemetry.Snapshot) (*table.Table, error) {
	tbl, err := table.New(w.componentTable)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"component_id", "region_id", "component_type"} {
		if err := tbl.AddTagColumn(col, types.STRING); err != nil {
			return nil, err
		}
	}
	for _, col := range []string{"health_score", "failure_risk", "temperature_c", "power_watts"} {
		if err := tbl.AddFieldColumn(col, types.FLOAT64); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	for _, c := range snap.Components {
		if err := tbl.AddRow(c.ID, c.RegionID, string(c.Type), c.Health, c.FailureRisk, c.Metrics.TemperatureC, c.Metrics.PowerWatts, snap.At); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

package sim

import (
	"context"
	"errors"
	"testing"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
)

type mockGreptimeClient struct {
	tables []*table.Table
	err    error
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	m.tables = tables
	return &gpb.GreptimeResponse{}, m.err
}

func TestGreptimeWriterSnapshot(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, regionTable: "region_health", componentTable: "component_health"}

	if err := w.WriteSnapshot(sampleSnapshot(7)); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if len(m.tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(m.tables))
	}

	regions := m.tables[0].GetRows()
	if regions.Schema[0].Datatype != gpb.ColumnDataType_STRING || regions.Schema[0].SemanticType != gpb.SemanticType_TAG {
		t.Fatalf("region_id column = %v", regions.Schema[0])
	}
	if regions.Schema[2].Datatype != gpb.ColumnDataType_FLOAT64 {
		t.Fatalf("health_score type = %v", regions.Schema[2].Datatype)
	}
	row := regions.Rows[0]
	if got := row.Values[0].GetStringValue(); got != "region-west-06" {
		t.Fatalf("region_id = %s", got)
	}
	if got := row.Values[2].GetF64Value(); got != 88.5 {
		t.Fatalf("health_score = %f", got)
	}

	comps := m.tables[1].GetRows()
	if got := comps.Rows[0].Values[2].GetStringValue(); got != "core" {
		t.Fatalf("component_type = %s", got)
	}
}

func TestGreptimeWriterError(t *testing.T) {
	m := &mockGreptimeClient{err: errors.New("connection refused")}
	w := &GreptimeDBWriter{client: m, regionTable: "r", componentTable: "c"}
	if err := w.WriteSnapshot(sampleSnapshot(1)); err == nil {
		t.Fatal("expected write error")
	}
}

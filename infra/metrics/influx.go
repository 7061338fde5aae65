package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/fieldops/dispatchsim/core/metrics"
	"github.com/fieldops/dispatchsim/infra/logger"
)

// InfluxSink writes simulation events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
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

// RecordAssignment writes the assignment as a line protocol event.
func (s *InfluxSink) RecordAssignment(rec coremetrics.AssignmentRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("assignment_event").
		AddTag("job_id", rec.JobID).
		AddTag("unit_id", rec.UnitID).
		AddTag("district", rec.District).
		AddTag("in_isochrone", strconv.FormatBool(rec.InIsochrone)).
		AddTag("compliant", strconv.FormatBool(rec.Compliant)).
		AddField("travel_seconds", rec.TravelSeconds).
		AddField("idle_seconds", rec.IdleSeconds).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCompletion writes a completion event.
func (s *InfluxSink) RecordCompletion(rec coremetrics.CompletionRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("completion_event").
		AddTag("job_id", rec.JobID).
		AddTag("unit_id", rec.UnitID).
		AddTag("record_id", rec.RecordID).
		AddField("travel_seconds", rec.TravelSeconds).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRunSummary writes the end-of-run aggregate.
func (s *InfluxSink) RecordRunSummary(sum coremetrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("run_summary").
		AddField("completed", sum.Completed).
		AddField("incomplete", sum.Incomplete).
		AddField("compliant", sum.Compliant).
		AddField("compliance_rate", sum.ComplianceRate).
		AddField("avg_travel_seconds", sum.AvgTravelSeconds).
		SetTime(sum.End)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

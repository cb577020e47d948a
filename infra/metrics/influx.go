package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/MathiasVDS1/ProjectManagement/core/metrics"
	"github.com/MathiasVDS1/ProjectManagement/infra/logger"
)

// InfluxSink writes decision events to an InfluxDB instance using the
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
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
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

// RecordDecision writes the decision as a line protocol event.
func (s *InfluxSink) RecordDecision(ev coremetrics.DecisionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("expedite_decision").
		AddTag("decision_id", ev.DecisionID).
		AddTag("service", ev.Service).
		AddTag("site", ev.Site).
		AddTag("strategy", ev.Strategy).
		AddField("expected_profit", round3(ev.ExpectedProfit)).
		AddField("express_cost", round3(ev.ExpressCost)).
		AddField("mean_late_cost", round3(ev.MeanLateCost)).
		AddField("prob_on_time", round3(ev.ProbOnTime)).
		AddField("expedite", strings.Join(ev.Expedite, ",")).
		AddField("trials", ev.Trials).
		AddField("evaluations", ev.Evaluations).
		AddField("elapsed_ms", round3(ev.ElapsedMS)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSchedule persists one expected-timeline build.
func (s *InfluxSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("expected_schedule").
		AddTag("site", ev.Site).
		AddField("total_duration", round3(ev.TotalDuration)).
		AddField("stages", ev.Stages).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRequest writes a request outcome.
func (s *InfluxSink) RecordRequest(ev coremetrics.RequestEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("decision_request").
		AddTag("operation", ev.Operation).
		AddTag("outcome", ev.Outcome).
		AddField("elapsed_ms", round3(ev.Elapsed.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MathiasVDS1/ProjectManagement/config"
	"github.com/MathiasVDS1/ProjectManagement/core/decisionlog"
	coremetrics "github.com/MathiasVDS1/ProjectManagement/core/metrics"
	"github.com/MathiasVDS1/ProjectManagement/core/model"
	"github.com/MathiasVDS1/ProjectManagement/infra/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Catalog.Path = "../catalog.yaml"
	cfg.DecisionLog.Enabled = true
	cfg.DecisionLog.Path = filepath.Join(t.TempDir(), "decisions.jsonl")
	require.NoError(t, cfg.Validate())
	return &cfg
}

func TestServiceDecideFeedsAuditLog(t *testing.T) {
	svc, err := New(testConfig(t), logger.NopLogger{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	req := model.DecisionRequest{Service: model.ServiceNormal, Site: "AT", Trials: 50}
	var decision model.Decision
	require.Eventually(t, func() bool {
		d, err := svc.Decide(context.Background(), req)
		if err != nil {
			return false
		}
		decision = d
		records, err := svc.store.Query(context.Background(), decisionlog.Query{})
		return err == nil && len(records) > 0
	}, 5*time.Second, 50*time.Millisecond)

	require.NotEmpty(t, decision.ID)
	require.Equal(t, "AT", decision.Site)

	cancel()
	require.NoError(t, <-done)
}

func TestServiceDecideInvalidRequest(t *testing.T) {
	svc, err := New(testConfig(t), logger.NopLogger{})
	require.NoError(t, err)
	defer svc.shutdown() //nolint:errcheck

	_, err = svc.Decide(context.Background(), model.DecisionRequest{Service: "overnight", Site: "AT"})
	require.ErrorIs(t, err, model.ErrInvalidRequest)
}

func TestServiceBuildSchedule(t *testing.T) {
	svc, err := New(testConfig(t), logger.NopLogger{})
	require.NoError(t, err)
	defer svc.shutdown() //nolint:errcheck

	sched, err := svc.BuildSchedule(model.ScheduleRequest{Site: "BE"})
	require.NoError(t, err)
	require.Equal(t, "BE", sched.Site)
	require.NotEmpty(t, sched.Entries)
	require.Greater(t, sched.TotalDuration, 0.0)
}

type requestSink struct {
	coremetrics.NopSink
	events []coremetrics.RequestEvent
}

func (s *requestSink) RecordRequest(ev coremetrics.RequestEvent) error {
	s.events = append(s.events, ev)
	return nil
}

func TestRecordRequestOutcomes(t *testing.T) {
	sink := &requestSink{}
	svc := &Service{sink: sink, log: logger.NopLogger{}}

	svc.recordRequest("decide", time.Now(), nil)
	svc.recordRequest("decide", time.Now(), model.Invalidf("bad request"))
	svc.recordRequest("schedule", time.Now(), errors.New("boom"))

	require.Len(t, sink.events, 3)
	require.Equal(t, "ok", sink.events[0].Outcome)
	require.Equal(t, "invalid", sink.events[1].Outcome)
	require.Equal(t, "error", sink.events[2].Outcome)
	require.Equal(t, "schedule", sink.events[2].Operation)
}

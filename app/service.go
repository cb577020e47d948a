package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MathiasVDS1/ProjectManagement/api/decisions"
	"github.com/MathiasVDS1/ProjectManagement/app/plugins"
	"github.com/MathiasVDS1/ProjectManagement/config"
	"github.com/MathiasVDS1/ProjectManagement/connectors/erp"
	"github.com/MathiasVDS1/ProjectManagement/core/catalog"
	"github.com/MathiasVDS1/ProjectManagement/core/decisionlog"
	"github.com/MathiasVDS1/ProjectManagement/core/events"
	coremetrics "github.com/MathiasVDS1/ProjectManagement/core/metrics"
	"github.com/MathiasVDS1/ProjectManagement/core/model"
	"github.com/MathiasVDS1/ProjectManagement/core/planner"
	"github.com/MathiasVDS1/ProjectManagement/infra/logger"
	inframetrics "github.com/MathiasVDS1/ProjectManagement/infra/metrics"
	"github.com/MathiasVDS1/ProjectManagement/infra/mqtt"
	"github.com/MathiasVDS1/ProjectManagement/internal/eventbus"
)

// Service orchestrates the planner and every configured surface. It is the
// planning backend handed to the HTTP API and the MQTT gateway, publishing
// each result on the event bus for the audit log, metrics and the ERP
// notifier.
type Service struct {
	cfg      *config.Config
	planner  *planner.Planner
	store    decisionlog.Store
	sink     coremetrics.Sink
	bus      eventbus.EventBus
	notifier *erp.Notifier
	gateway  *mqtt.Gateway
	api      *http.Server
	log      logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config, log logger.Logger) (*Service, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	pl := planner.New(cat, cfg.Policy, cfg.Optimizer, planner.Config{
		Trials: cfg.Simulation.Trials,
		Seed:   cfg.Simulation.Seed,
	}, logger.New("planner"))

	store, err := plugins.NewStore(cfg.DecisionLog.ModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("decision log: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	svc := &Service{
		cfg:     cfg,
		planner: pl,
		store:   store,
		sink:    sink,
		bus:     eventbus.New(),
		log:     log,
	}

	if cfg.ERP.Enabled {
		notifier, err := erp.New(cfg.ERP)
		if err != nil {
			return nil, fmt.Errorf("erp notifier: %w", err)
		}
		svc.notifier = notifier
	}

	if cfg.API.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/api/decide", decisions.NewDecideHandler(svc, cfg.API.Token))
		mux.Handle("/api/schedule", decisions.NewScheduleHandler(svc, cfg.API.Token))
		mux.Handle("/api/decisions", decisions.NewLogHandler(store, cfg.API.Token))
		mux.Handle("/healthz", decisions.NewHealthHandler())
		svc.api = &http.Server{Addr: cfg.API.Addr, Handler: mux}
	}

	if cfg.MQTT.Enabled {
		gw, err := mqtt.NewGateway(cfg.MQTT, svc)
		if err != nil {
			return nil, fmt.Errorf("mqtt gateway: %w", err)
		}
		svc.gateway = gw
	}

	return svc, nil
}

// Decide runs one expedite decision and publishes the result.
func (s *Service) Decide(ctx context.Context, req model.DecisionRequest) (model.Decision, error) {
	started := time.Now()
	d, err := s.planner.Decide(ctx, req)
	s.recordRequest("decide", started, err)
	if err != nil {
		return model.Decision{}, err
	}
	s.bus.Publish(events.DecisionEvent{Decision: d})
	return d, nil
}

// BuildSchedule builds the expected timeline and publishes it.
func (s *Service) BuildSchedule(req model.ScheduleRequest) (model.Schedule, error) {
	started := time.Now()
	sched, err := s.planner.BuildSchedule(req)
	s.recordRequest("schedule", started, err)
	if err != nil {
		return model.Schedule{}, err
	}
	s.bus.Publish(events.ScheduleEvent{Schedule: sched})
	return sched, nil
}

func (s *Service) recordRequest(op string, started time.Time, err error) {
	r, ok := s.sink.(coremetrics.RequestRecorder)
	if !ok {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, model.ErrInvalidRequest):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	_ = r.RecordRequest(coremetrics.RequestEvent{
		Operation: op,
		Outcome:   outcome,
		Elapsed:   time.Since(started),
		Time:      started,
	})
}

// Run starts the enabled surfaces and blocks until the context is
// cancelled, then releases every resource the service holds.
func (s *Service) Run(ctx context.Context) error {
	inframetrics.StartEventCollector(ctx, s.bus, s.sink)
	startDecisionLogger(ctx, s.bus, s.store, s.log)
	if s.notifier != nil {
		s.notifier.Start(ctx, s.bus)
	}

	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		if !strings.Contains(port, ":") {
			port = ":" + port
		}
		addr := port
		go func() {
			if err := inframetrics.StartPromServer(ctx, addr, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	if s.api != nil {
		go func() {
			s.log.Infof("http api listening on %s", s.api.Addr)
			if err := s.api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Errorf("http api: %v", err)
			}
		}()
	}

	<-ctx.Done()
	return s.shutdown()
}

func (s *Service) shutdown() error {
	var errs []error
	if s.api != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.api.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http api shutdown: %w", err))
		}
		cancel()
	}
	if s.gateway != nil {
		s.gateway.Disconnect()
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("decision log close: %w", err))
	}
	s.bus.Close()
	return errors.Join(errs...)
}

// startDecisionLogger appends every published decision to the audit log.
func startDecisionLogger(ctx context.Context, bus eventbus.EventBus, store decisionlog.Store, log logger.Logger) {
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if de, ok := ev.(events.DecisionEvent); ok {
					if err := store.Append(ctx, de.Decision); err != nil {
						log.Errorf("decision log append: %v", err)
					}
				}
			}
		}
	}()
}

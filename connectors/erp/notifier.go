// Package erp posts finished decisions to an order-management endpoint so
// downstream systems see expedite choices as they are made.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/MathiasVDS1/ProjectManagement/core/events"
	"github.com/MathiasVDS1/ProjectManagement/core/model"
	"github.com/MathiasVDS1/ProjectManagement/infra/logger"
	"github.com/MathiasVDS1/ProjectManagement/internal/eventbus"
)

// Config describes the ERP endpoint. The notifier stays disabled unless
// Enabled is set and an endpoint is configured. The squash option keeps the
// credential fields at the section level when the config file is decoded.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
	Conf     `json:",squash"`
}

// Notifier delivers decisions to the ERP endpoint. Delivery failures are
// logged and counted, never propagated to the decision path.
type Notifier struct {
	endpoint string
	auth     *ClientCred
	client   *http.Client
	logger   logger.Logger
	failures atomic.Int64
}

// New creates a Notifier for the configured endpoint. The oauth2 client is
// only built when a client id is configured, so unauthenticated endpoints
// work too.
func New(cfg Config) (*Notifier, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("erp endpoint not configured")
	}
	n := &Notifier{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger.New("erp-notifier"),
	}
	if cfg.ClientID != "" {
		n.auth = NewClientCred(cfg.Conf)
	}
	return n, nil
}

// Notify posts one decision as JSON.
func (n *Notifier) Notify(ctx context.Context, d model.Decision) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode decision: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.auth != nil {
		if err := n.auth.SetAuthHeader(req); err != nil {
			return fmt.Errorf("failed to set auth header: %w", err)
		}
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	return nil
}

// Start subscribes the notifier to decision events on the bus and delivers
// them until ctx is done.
func (n *Notifier) Start(ctx context.Context, bus eventbus.EventBus) {
	if n == nil || bus == nil {
		return
	}
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
				if e, ok := ev.(events.DecisionEvent); ok {
					if err := n.Notify(ctx, e.Decision); err != nil {
						n.failures.Add(1)
						n.logger.Errorf("notify %s: %v", e.Decision.ID, err)
					}
				}
			}
		}
	}()
}

// Failures reports how many deliveries have failed since start.
func (n *Notifier) Failures() int64 {
	return n.failures.Load()
}

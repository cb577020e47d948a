package mqtt

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
	coremqtt "github.com/MathiasVDS1/ProjectManagement/core/mqtt"
	"github.com/MathiasVDS1/ProjectManagement/infra/logger"
)

type fakeDecider struct {
	decideErr   error
	scheduleErr error
}

func (f fakeDecider) Decide(_ context.Context, req model.DecisionRequest) (model.Decision, error) {
	if f.decideErr != nil {
		return model.Decision{}, f.decideErr
	}
	return model.Decision{
		ID:       "d1",
		Service:  req.Service,
		Site:     "AT",
		Strategy: "exhaustive",
		Expedite: []string{"P1"},
		Metrics:  model.Metrics{Site: "AT", ExpectedProfit: 950},
	}, nil
}

func (f fakeDecider) BuildSchedule(req model.ScheduleRequest) (model.Schedule, error) {
	if f.scheduleErr != nil {
		return model.Schedule{}, f.scheduleErr
	}
	return model.Schedule{Site: req.Site, TotalDuration: 9}, nil
}

func newTestGateway(pub coremqtt.Publisher, d Decider, responseTopic string) *Gateway {
	return &Gateway{
		pub:           pub,
		planner:       d,
		logger:        logger.NopLogger{},
		responseTopic: responseTopic,
		qos:           map[string]byte{},
	}
}

func TestGatewayDecideRepliesToReplyTo(t *testing.T) {
	pub := NewMockPublisher()
	gw := newTestGateway(pub, fakeDecider{}, "leadtime/response")

	payload := `{"request_id":"r1","reply_to":"client/42","request":{"service":"express","site":"AT","missing":{"AT":["P1"]}}}`
	gw.onDecide(nil, mockMessage{[]byte(payload)})

	msgs := pub.Messages["client/42"]
	if len(msgs) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(msgs))
	}
	if pub.QoS["client/42"] != 1 {
		t.Fatalf("replies default to qos 1, got %d", pub.QoS["client/42"])
	}
	var reply coremqtt.DecideReply
	if err := json.Unmarshal(msgs[0], &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.RequestID != "r1" || reply.Error != "" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if reply.Decision == nil || reply.Decision.Site != "AT" || reply.Decision.Metrics.ExpectedProfit != 950 {
		t.Fatalf("unexpected decision: %+v", reply.Decision)
	}
}

func TestGatewayAssignsRequestID(t *testing.T) {
	pub := NewMockPublisher()
	gw := newTestGateway(pub, fakeDecider{}, "leadtime/response")

	gw.onDecide(nil, mockMessage{[]byte(`{"request":{"service":"normal","site":"AT"}}`)})

	msgs := pub.Messages["leadtime/response"]
	if len(msgs) != 1 {
		t.Fatalf("expected reply on response topic, got %v", pub.Messages)
	}
	var reply coremqtt.DecideReply
	if err := json.Unmarshal(msgs[0], &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.RequestID == "" {
		t.Fatalf("request id not assigned")
	}
}

func TestGatewayDecideErrorReply(t *testing.T) {
	pub := NewMockPublisher()
	gw := newTestGateway(pub, fakeDecider{decideErr: model.Invalidf("unknown site %q", "NL")}, "leadtime/response")

	gw.onDecide(nil, mockMessage{[]byte(`{"request_id":"r2","request":{"service":"normal","site":"NL"}}`)})

	var reply coremqtt.DecideReply
	if err := json.Unmarshal(pub.Messages["leadtime/response"][0], &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Decision != nil || reply.Error == "" {
		t.Fatalf("expected error reply, got %+v", reply)
	}
}

func TestGatewayScheduleReply(t *testing.T) {
	pub := NewMockPublisher()
	gw := newTestGateway(pub, fakeDecider{}, "")

	payload := `{"request_id":"r3","reply_to":"client/43","request":{"site":"BE","missing":["P2"]}}`
	gw.onSchedule(nil, mockMessage{[]byte(payload)})

	var reply coremqtt.ScheduleReply
	if err := json.Unmarshal(pub.Messages["client/43"][0], &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Schedule == nil || reply.Schedule.Site != "BE" || reply.Schedule.TotalDuration != 9 {
		t.Fatalf("unexpected schedule reply: %+v", reply)
	}
}

func TestGatewayDropsReplyWithoutTopic(t *testing.T) {
	pub := NewMockPublisher()
	gw := newTestGateway(pub, fakeDecider{}, "")

	gw.onDecide(nil, mockMessage{[]byte(`{"request":{"service":"normal","site":"AT"}}`)})

	if len(pub.Messages) != 0 {
		t.Fatalf("expected no reply without topic, got %v", pub.Messages)
	}
}

func TestGatewayIgnoresMalformedPayload(t *testing.T) {
	pub := NewMockPublisher()
	gw := newTestGateway(pub, fakeDecider{}, "leadtime/response")

	gw.onDecide(nil, mockMessage{[]byte(`{not json`)})
	gw.onSchedule(nil, mockMessage{[]byte(`{not json`)})

	if len(pub.Messages) != 0 {
		t.Fatalf("expected no reply for malformed payloads, got %v", pub.Messages)
	}
}

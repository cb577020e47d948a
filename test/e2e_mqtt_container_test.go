package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MathiasVDS1/ProjectManagement/app"
	"github.com/MathiasVDS1/ProjectManagement/config"
	"github.com/MathiasVDS1/ProjectManagement/core/model"
	coremqtt "github.com/MathiasVDS1/ProjectManagement/core/mqtt"
	"github.com/MathiasVDS1/ProjectManagement/infra/logger"
	inframqtt "github.com/MathiasVDS1/ProjectManagement/infra/mqtt"
)

func waitForMQTTReady(broker string, timeout time.Duration) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("probe")
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		token.Wait()
		if token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		lastErr = token.Error()
		time.Sleep(100 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for broker")
	}
	return lastErr
}

func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	conf := `listener 1883
allow_anonymous true
persistence false
log_dest stdout
log_type error
log_type warning
log_type notice
log_type information
connection_messages true
log_timestamp true
`
	dir := t.TempDir()
	path := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{
			{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			},
		},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())
	addr := net.JoinHostPort(host, port.Port())
	if err := waitForMQTTReady(broker, 5*time.Second); err != nil {
		t.Logf("mosquitto not ready at %s: %v", addr, err)
		t.Skip("Mosquitto not ready after retries")
	}
	return cont, broker
}

func connectRequester(broker string, t *testing.T) paho.Client {
	t.Helper()
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("requester")
	cli := paho.NewClient(opts)
	var connErr error
	time.Sleep(250 * time.Millisecond)
	for i := 0; i < 5; i++ {
		token := cli.Connect()
		token.Wait()
		connErr = token.Error()
		if connErr == nil {
			break
		}
		t.Logf("requester connect attempt %d to %s: %v", i+1, broker, connErr)
		time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
	}
	if connErr != nil {
		t.Logf("requester connect failed to %s: %v", broker, connErr)
		t.Skip("Mosquitto not ready after retries")
	}
	return cli
}

func TestDecideOverMQTTContainer(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()

	cont, broker := startMosquitto(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	logPath := filepath.Join(t.TempDir(), "decisions.jsonl")

	cfg := config.Default()
	cfg.Catalog.Path = "../catalog.yaml"
	cfg.DecisionLog.Enabled = true
	cfg.DecisionLog.Path = logPath
	cfg.MQTT = inframqtt.Config{
		Enabled:       true,
		Broker:        broker,
		ClientID:      "leadtime-e2e",
		DecideTopic:   "leadtime/decide",
		ScheduleTopic: "leadtime/schedule",
		ResponseTopic: "leadtime/replies",
	}

	svc, err := app.New(&cfg, logger.NopLogger{})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(runCtx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("run: %v", err)
		}
	}()
	time.Sleep(250 * time.Millisecond)

	cli := connectRequester(broker, t)
	defer cli.Disconnect(100)

	decideCh := make(chan coremqtt.DecideReply, 1)
	if token := cli.Subscribe("leadtime/test/decide", 1, func(_ paho.Client, m paho.Message) {
		var rep coremqtt.DecideReply
		if json.Unmarshal(m.Payload(), &rep) == nil {
			select {
			case decideCh <- rep:
			default:
			}
		}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("subscribe: %v", token.Error())
	}
	scheduleCh := make(chan coremqtt.ScheduleReply, 1)
	if token := cli.Subscribe("leadtime/replies", 1, func(_ paho.Client, m paho.Message) {
		var rep coremqtt.ScheduleReply
		if json.Unmarshal(m.Payload(), &rep) == nil {
			select {
			case scheduleCh <- rep:
			default:
			}
		}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("subscribe: %v", token.Error())
	}

	decideReq := coremqtt.DecideRequest{
		RequestID: "req-decide-1",
		ReplyTo:   "leadtime/test/decide",
		Request:   model.DecisionRequest{Service: model.ServiceNormal, Site: "AT", Trials: 200},
	}
	payload, _ := json.Marshal(decideReq)
	var decideReply coremqtt.DecideReply
	received := false
	for attempt := 0; attempt < 5 && !received; attempt++ {
		if token := cli.Publish("leadtime/decide", 0, false, payload); token.Wait() && token.Error() != nil {
			t.Fatalf("publish: %v", token.Error())
		}
		select {
		case decideReply = <-decideCh:
			received = true
		case <-time.After(2 * time.Second):
		}
	}
	if !received {
		t.Fatal("no decide reply received")
	}
	if decideReply.RequestID != "req-decide-1" {
		t.Fatalf("request id %q", decideReply.RequestID)
	}
	if decideReply.Error != "" {
		t.Fatalf("decide error: %s", decideReply.Error)
	}
	if decideReply.Decision == nil || decideReply.Decision.Site != "AT" {
		t.Fatalf("unexpected decision: %+v", decideReply.Decision)
	}
	if decideReply.Decision.Metrics.ExpectedProfit < 999 {
		t.Fatalf("expected full margin on an in-stock order, got %.2f", decideReply.Decision.Metrics.ExpectedProfit)
	}

	schedReq := coremqtt.ScheduleRequest{
		RequestID: "req-sched-1",
		Request:   model.ScheduleRequest{Site: "BE"},
	}
	payload, _ = json.Marshal(schedReq)
	var schedReply coremqtt.ScheduleReply
	received = false
	for attempt := 0; attempt < 5 && !received; attempt++ {
		if token := cli.Publish("leadtime/schedule", 0, false, payload); token.Wait() && token.Error() != nil {
			t.Fatalf("publish: %v", token.Error())
		}
		select {
		case schedReply = <-scheduleCh:
			received = true
		case <-time.After(2 * time.Second):
		}
	}
	if !received {
		t.Fatal("no schedule reply received")
	}
	if schedReply.Error != "" {
		t.Fatalf("schedule error: %s", schedReply.Error)
	}
	if schedReply.Schedule == nil || schedReply.Schedule.Site != "BE" || len(schedReply.Schedule.Entries) == 0 {
		t.Fatalf("unexpected schedule: %+v", schedReply.Schedule)
	}

	deadline := time.Now().Add(5 * time.Second)
	logged := false
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(logPath); err == nil && strings.Contains(string(data), decideReply.Decision.ID) {
			logged = true
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if !logged {
		t.Fatalf("decision %s missing from audit log", decideReply.Decision.ID)
	}
}

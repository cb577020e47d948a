package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
	coremqtt "github.com/MathiasVDS1/ProjectManagement/core/mqtt"
	"github.com/MathiasVDS1/ProjectManagement/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT gateway.
type Config struct {
	Enabled            bool            `json:"enabled"`
	Broker             string          `json:"broker"`
	ClientID           string          `json:"client_id"`
	Username           string          `json:"username"`
	Password           string          `json:"password"`
	DecideTopic        string          `json:"decide_topic"`
	ScheduleTopic      string          `json:"schedule_topic"`
	ResponseTopic      string          `json:"response_topic"`
	UseTLS             bool            `json:"use_tls"`
	ClientCert         string          `json:"client_cert"`
	ClientKey          string          `json:"client_key"`
	CABundle           string          `json:"ca_bundle"`
	InsecureSkipVerify bool            `json:"insecure_skip_verify"`
	AuthMethod         string          `json:"auth_method"`
	QoS                map[string]byte `json:"qos"`
	MaxRetries         int             `json:"max_retries"`
	BackoffMS          int             `json:"backoff_ms"`
	TLSConfig          *tls.Config     `json:"-"`
}

// Decider is the planning surface the gateway exposes over MQTT.
type Decider interface {
	Decide(ctx context.Context, req model.DecisionRequest) (model.Decision, error)
	BuildSchedule(req model.ScheduleRequest) (model.Schedule, error)
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

// Gateway serves decide and schedule requests over MQTT. Each request
// message carries an optional request_id and reply_to topic; replies go to
// reply_to or the configured response topic.
type Gateway struct {
	cli     pahoClient
	pub     coremqtt.Publisher
	planner Decider
	logger  logger.Logger

	decideTopic   string
	scheduleTopic string
	responseTopic string
	qos           map[string]byte
	maxRetries    int
	backoff       time.Duration
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewGateway connects to the MQTT broker and subscribes to the request topics.
func NewGateway(cfg Config, d Decider) (*Gateway, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	logger := logger.New("mqtt_gateway")
	g := &Gateway{
		planner:       d,
		logger:        logger,
		decideTopic:   cfg.DecideTopic,
		scheduleTopic: cfg.ScheduleTopic,
		responseTopic: cfg.ResponseTopic,
		qos:           cfg.QoS,
		maxRetries:    cfg.MaxRetries,
		backoff:       time.Duration(cfg.BackoffMS) * time.Millisecond,
	}

	opts.OnConnect = func(c paho.Client) {
		logger.Infof("MQTT connected")
		qos := byte(0)
		if q, ok := g.qos["request"]; ok {
			qos = q
		}
		if g.decideTopic != "" {
			if token := c.Subscribe(g.decideTopic, qos, g.onDecide); token.Wait() && token.Error() != nil {
				logger.Errorf("subscribe error: %v", token.Error())
			}
		}
		if g.scheduleTopic != "" {
			if token := c.Subscribe(g.scheduleTopic, qos, g.onSchedule); token.Wait() && token.Error() != nil {
				logger.Errorf("subscribe error: %v", token.Error())
			}
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		logger.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		logger.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if err := g.connect(c); err != nil {
		return nil, err
	}
	g.cli = c
	g.pub = pahoPublisher{cli: c}
	return g, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the
// config. The CA bundle is optional; without it the system pool is used.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" {
		return nil, fmt.Errorf("tls config requires client_cert and client_key")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	cfg := &tls.Config{
		Certificates:       []tls.Certificate{cert},
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
	if c.CABundle != "" {
		caBytes, err := os.ReadFile(c.CABundle)
		if err != nil {
			return nil, fmt.Errorf("read ca: %w", err)
		}
		pool := x509.NewCertPool()
		pool.AppendCertsFromPEM(caBytes)
		cfg.RootCAs = pool
	}
	return cfg, nil
}

func (g *Gateway) connect(c pahoClient) error {
	retries := g.maxRetries
	if retries <= 0 {
		retries = 3
	}
	backoff := g.backoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	var connectErr error
	for attempt := 0; attempt <= retries; attempt++ {
		token := c.Connect()
		token.Wait()
		connectErr = token.Error()
		if connectErr == nil {
			return nil
		}
		g.logger.Errorf("connect attempt %d failed: %v", attempt+1, connectErr)
		time.Sleep(backoff * time.Duration(1<<attempt))
	}
	return connectErr
}

func (g *Gateway) onDecide(_ paho.Client, msg paho.Message) {
	var req coremqtt.DecideRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		g.logger.Errorf("failed to decode decide request: %v", err)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	reply := coremqtt.DecideReply{RequestID: req.RequestID}
	d, err := g.planner.Decide(context.Background(), req.Request)
	if err != nil {
		g.logger.Errorf("decide %s: %v", req.RequestID, err)
		reply.Error = err.Error()
	} else {
		reply.Decision = &d
	}
	g.reply(req.ReplyTo, req.RequestID, reply)
}

func (g *Gateway) onSchedule(_ paho.Client, msg paho.Message) {
	var req coremqtt.ScheduleRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		g.logger.Errorf("failed to decode schedule request: %v", err)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	reply := coremqtt.ScheduleReply{RequestID: req.RequestID}
	s, err := g.planner.BuildSchedule(req.Request)
	if err != nil {
		g.logger.Errorf("schedule %s: %v", req.RequestID, err)
		reply.Error = err.Error()
	} else {
		reply.Schedule = &s
	}
	g.reply(req.ReplyTo, req.RequestID, reply)
}

func (g *Gateway) reply(replyTo, requestID string, payload interface{}) {
	topic := replyTo
	if topic == "" {
		topic = g.responseTopic
	}
	if topic == "" {
		g.logger.Errorf("request %s: %v", requestID, coremqtt.ErrNoReplyTopic)
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		g.logger.Errorf("failed to encode reply %s: %v", requestID, err)
		return
	}
	qos := byte(1)
	if q, ok := g.qos["response"]; ok {
		qos = q
	}
	if err := g.pub.Publish(topic, qos, data); err != nil {
		g.logger.Errorf("publish reply %s: %v", requestID, err)
		return
	}
	g.logger.Infof("replied to %s on %s", requestID, topic)
}

// Disconnect gracefully closes the MQTT connection.
func (g *Gateway) Disconnect() {
	if g.cli != nil && g.cli.IsConnected() {
		g.cli.Disconnect(250)
	}
}

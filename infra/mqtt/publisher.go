package mqtt

import (
	"fmt"
	"sync"

	coremqtt "github.com/MathiasVDS1/ProjectManagement/core/mqtt"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// pahoPublisher adapts the paho client to the Publisher interface.
type pahoPublisher struct {
	cli pahoClient
}

func (p pahoPublisher) Publish(topic string, qos byte, payload []byte) error {
	token := p.cli.Publish(topic, qos, false, payload)
	token.Wait()
	return token.Error()
}

// MockPublisher records published messages for tests that run without a
// broker.
type MockPublisher struct {
	Messages   map[string][][]byte
	QoS        map[string]byte
	FailTopics map[string]bool
	mu         sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Messages:   make(map[string][][]byte),
		QoS:        make(map[string]byte),
		FailTopics: make(map[string]bool),
	}
}

// Publish records the payload or returns an error if the topic is configured
// to fail.
func (m *MockPublisher) Publish(topic string, qos byte, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailTopics[topic] {
		return fmt.Errorf("publish failed")
	}
	m.Messages[topic] = append(m.Messages[topic], payload)
	m.QoS[topic] = qos
	return nil
}

// Package mqtt defines the wire contract of the MQTT gateway: the request
// envelopes carried on the decide and schedule topics, the reply payloads
// published back, and the Publisher interface the gateway replies through.
package mqtt

// Publisher publishes gateway replies to a topic. Implementations must be
// safe for concurrent use.
type Publisher interface {
	Publish(topic string, qos byte, payload []byte) error
}

// Package mqtttest provides an in-memory paho client for tests.
package mqtttest

import (
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Published struct {
	Topic    string
	Qos      byte
	Retained bool
	Payload  []byte
}

type MockClient struct {
	mu         sync.Mutex
	connected  bool
	onConnect  func()
	failAt     map[string]error
	connectErr error
	connects   int
	published  []Published
	handlers   map[string]mqtt.MessageHandler
	subscribes int
}

func NewMockClient() *MockClient {
	return &MockClient{
		failAt:   map[string]error{},
		handlers: map[string]mqtt.MessageHandler{},
	}
}

// SetOnConnect installs the hook run by Connect, like paho's OnConnect.
func (c *MockClient) SetOnConnect(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConnect = fn
}

// FailPublish makes publishes on topic fail with err. A nil err clears it.
func (c *MockClient) FailPublish(topic string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failAt, topic)
		return
	}
	c.failAt[topic] = err
}

// FailConnect makes Connect fail with err until called again with nil.
func (c *MockClient) FailConnect(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectErr = err
}

func (c *MockClient) ConnectAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects
}

func (c *MockClient) Published() []Published {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Published, len(c.published))
	copy(out, c.published)
	return out
}

func (c *MockClient) PublishedTo(topic string) []Published {
	var out []Published
	for _, p := range c.Published() {
		if p.Topic == topic {
			out = append(out, p)
		}
	}
	return out
}

func (c *MockClient) SubscribeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscribes
}

// Deliver hands a message to the handler subscribed on topic.
func (c *MockClient) Deliver(topic string, payload string) error {
	c.mu.Lock()
	h, ok := c.handlers[topic]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("no subscription on %s", topic)
	}
	h(c, &message{topic: topic, payload: []byte(payload)})
	return nil
}

// Drop simulates a lost connection; subscriptions are forgotten.
func (c *MockClient) Drop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.handlers = map[string]mqtt.MessageHandler{}
}

func (c *MockClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *MockClient) IsConnectionOpen() bool {
	return c.IsConnected()
}

func (c *MockClient) Connect() mqtt.Token {
	c.mu.Lock()
	c.connects++
	if c.connectErr != nil {
		err := c.connectErr
		c.mu.Unlock()
		return &errToken{err: err}
	}
	c.connected = true
	hook := c.onConnect
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return &mqtt.DummyToken{}
}

func (c *MockClient) Disconnect(_ uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
}

func (c *MockClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.failAt[topic]; ok {
		return &errToken{err: err}
	}
	var p []byte
	switch v := payload.(type) {
	case []byte:
		p = v
	case string:
		p = []byte(v)
	}
	c.published = append(c.published, Published{Topic: topic, Qos: qos, Retained: retained, Payload: p})
	return &mqtt.DummyToken{}
}

func (c *MockClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = callback
	c.subscribes++
	return &mqtt.DummyToken{}
}

func (c *MockClient) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	for topic, qos := range filters {
		c.Subscribe(topic, qos, callback)
	}
	return &mqtt.DummyToken{}
}

func (c *MockClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		delete(c.handlers, t)
	}
	return &mqtt.DummyToken{}
}

func (c *MockClient) AddRoute(topic string, callback mqtt.MessageHandler) {}

func (c *MockClient) OptionsReader() mqtt.ClientOptionsReader {
	return mqtt.NewOptionsReader(&mqtt.ClientOptions{})
}

var _ mqtt.Client = (*MockClient)(nil)

type errToken struct {
	mqtt.DummyToken
	err error
}

func (t *errToken) Error() error {
	return t.err
}

type message struct {
	topic   string
	payload []byte
}

func (m *message) Duplicate() bool   { return false }
func (m *message) Qos() byte         { return 1 }
func (m *message) Retained() bool    { return false }
func (m *message) Topic() string     { return m.topic }
func (m *message) MessageID() uint16 { return 0 }
func (m *message) Payload() []byte   { return m.payload }
func (m *message) Ack()              {}

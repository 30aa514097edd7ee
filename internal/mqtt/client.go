package mqtt

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/config"
	"github.com/gsbenevides2/hassbridge/internal/util"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
	MQTT_PAYLOAD_ON      = "on"
	MQTT_PAYLOAD_OFF     = "off"
	MQTT_PAYLOAD_PRESS   = "PRESS"

	defaultOpTimeout = 10 * time.Second
)

var (
	ErrNotConnected    = errors.New("mqtt: client not connected")
	ErrPublishFailed   = errors.New("mqtt: publish failed")
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")
	ErrInvalidTopic    = errors.New("mqtt: invalid topic")
	ErrInvalidQoS      = errors.New("mqtt: QoS must be 0, 1 or 2")
	ErrTimeout         = errors.New("mqtt: operation timed out")
)

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("hassbridge_%s", strings.SplitN(uuid.NewString(), "-", 2)[0]))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetConnectTimeout(defaultOpTimeout)
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.BaseTopic)
	opts.WillQos = 0

	return opts
}

type subscription struct {
	qos     byte
	handler mqtt.MessageHandler
}

// MQTTClient is the process wide broker connection. Subscriptions are
// remembered and restored after every reconnect.
type MQTTClient struct {
	client         mqtt.Client
	cfg            config.MQTTConfig
	logger         *zap.Logger
	commandRegexp  *regexp.Regexp
	connectBackoff func() backoff.BackOff

	subMu sync.Mutex
	subs  map[string]subscription

	hookMu    sync.Mutex
	onConnect []func()
}

type ParsedMQTTCommand struct {
	Component string
	ObjectId  string
	Payload   string
}

// CreateMQTTClient builds the paho client from opts and wires the
// reconnect handlers.
func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, logger *zap.Logger) *MQTTClient {
	c := newMQTTClient(cfg.MQTT, logger)
	opts.SetOnConnectHandler(func(mqtt.Client) { go c.HandleConnect() })
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.logger.Warn("mqtt@default connection lost", zap.Error(err))
	})
	c.client = mqtt.NewClient(opts)
	return c
}

// WrapMQTTClient uses an existing paho client; the caller wires its
// OnConnect to HandleConnect.
func WrapMQTTClient(cfg config.MQTTConfig, client mqtt.Client, logger *zap.Logger) *MQTTClient {
	c := newMQTTClient(cfg, logger)
	c.client = client
	return c
}

func newMQTTClient(cfg config.MQTTConfig, logger *zap.Logger) *MQTTClient {
	return &MQTTClient{
		cfg:           cfg,
		logger:        util.ComponentLogger("mqtt", logger),
		commandRegexp: commandExtractor(cfg.HADiscoveryTopic),
		connectBackoff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 500 * time.Millisecond
			bo.MaxInterval = 10 * time.Second
			return backoff.WithMaxRetries(bo, cfg.ConnectRetries)
		},
		subs: map[string]subscription{},
	}
}

func (c *MQTTClient) baseTopic() string {
	return c.cfg.BaseTopic
}

func (c *MQTTClient) discoveryTopic() string {
	return c.cfg.HADiscoveryTopic
}

func (c *MQTTClient) BridgeStateTopic() string {
	return bridgeStateTopic(c.baseTopic())
}

// HAStatusTopic is where the hub publishes its birth and last will.
func (c *MQTTClient) HAStatusTopic() string {
	return fmt.Sprintf("%s/status", c.discoveryTopic())
}

func (c *MQTTClient) ConfigTopic(component string, objectId string) string {
	return fmt.Sprintf("%s/%s/%s/config", c.discoveryTopic(), component, objectId)
}

func (c *MQTTClient) StateTopic(component string, objectId string) string {
	return fmt.Sprintf("%s/%s/%s/state", c.discoveryTopic(), component, objectId)
}

func (c *MQTTClient) CommandTopic(component string, objectId string) string {
	return fmt.Sprintf("%s/%s/%s/set", c.discoveryTopic(), component, objectId)
}

func (c *MQTTClient) ParseMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	matches := c.commandRegexp.FindStringSubmatch(msg.Topic())
	if len(matches) != 3 {
		return nil, fmt.Errorf("%w: not a command topic %q", ErrInvalidTopic, msg.Topic())
	}
	return &ParsedMQTTCommand{
		Component: matches[1],
		ObjectId:  matches[2],
		Payload:   string(msg.Payload()),
	}, nil
}

// OnConnect registers fn to run after every successful (re)connect.
func (c *MQTTClient) OnConnect(fn func()) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.onConnect = append(c.onConnect, fn)
}

// HandleConnect restores subscriptions, marks the bridge online and runs
// the connect hooks. It blocks until all of them are done.
func (c *MQTTClient) HandleConnect() {
	c.logger.Debug("mqtt@starting connected")
	c.restoreSubscriptions()
	ctx, cancel := context.WithTimeout(context.Background(), defaultOpTimeout)
	defer cancel()
	if err := c.Publish(ctx, c.BridgeStateTopic(), 1, true, MQTT_PAYLOAD_ONLINE); err != nil {
		c.logger.Error("mqtt@starting could not publish bridge state", zap.Error(err))
	}
	c.hookMu.Lock()
	hooks := append([]func(){}, c.onConnect...)
	c.hookMu.Unlock()
	for _, hook := range hooks {
		hook()
	}
}

func (c *MQTTClient) restoreSubscriptions() {
	c.subMu.Lock()
	subs := make(map[string]subscription, len(c.subs))
	for topic, sub := range c.subs {
		subs[topic] = sub
	}
	c.subMu.Unlock()

	for topic, sub := range subs {
		token := c.client.Subscribe(topic, sub.qos, sub.handler)
		if err := waitToken(context.Background(), token, defaultOpTimeout); err != nil {
			c.logger.Error("mqtt@starting could not restore subscription", zap.String("topic", topic), zap.Error(err))
		}
	}
	c.logger.Debug("mqtt@starting subscribed", zap.Int("subscriptions", len(subs)))
}

// Connect blocks until the broker accepts the connection, retrying with
// exponential backoff up to the configured number of attempts.
func (c *MQTTClient) Connect(ctx context.Context) error {
	return c.connect(ctx, c.connectBackoff())
}

// KeepConnecting retries until the broker accepts the connection or ctx is
// done. Subscriptions and connect hooks registered meanwhile run once the
// connection is up.
func (c *MQTTClient) KeepConnecting(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0
	err := c.connect(ctx, bo)
	if err != nil {
		c.logger.Warn("mqtt@starting gave up connecting", zap.Error(err))
		return err
	}
	c.logger.Info("mqtt@starting connected after retrying")
	return nil
}

func (c *MQTTClient) connect(ctx context.Context, bo backoff.BackOff) error {
	op := func() error {
		return waitToken(ctx, c.client.Connect(), defaultOpTimeout)
	}
	notify := func(err error, next time.Duration) {
		c.logger.Warn("mqtt@starting connect failed, retrying", zap.Error(err), zap.Duration("in", next))
	}
	return backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify)
}

func (c *MQTTClient) IsConnected() bool {
	return c.client.IsConnected()
}

func (c *MQTTClient) Publish(ctx context.Context, topic string, qos byte, retain bool, payload any) error {
	if topic == "" || strings.ContainsAny(topic, "#+") {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}
	if qos > 2 {
		return ErrInvalidQoS
	}
	if !c.client.IsConnected() {
		return ErrNotConnected
	}
	if err := waitToken(ctx, c.client.Publish(topic, qos, retain, payload), defaultOpTimeout); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	return nil
}

func (c *MQTTClient) Subscribe(ctx context.Context, topic string, qos byte, handler mqtt.MessageHandler) error {
	if topic == "" {
		return fmt.Errorf("%w: empty topic", ErrInvalidTopic)
	}
	if qos > 2 {
		return ErrInvalidQoS
	}
	c.subMu.Lock()
	c.subs[topic] = subscription{qos: qos, handler: handler}
	c.subMu.Unlock()

	// restored on the next connect
	if !c.client.IsConnected() {
		return nil
	}
	if err := waitToken(ctx, c.client.Subscribe(topic, qos, handler), defaultOpTimeout); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, topic, err)
	}
	return nil
}

func (c *MQTTClient) Unsubscribe(ctx context.Context, topic string) error {
	c.subMu.Lock()
	delete(c.subs, topic)
	c.subMu.Unlock()
	if !c.client.IsConnected() {
		return nil
	}
	return waitToken(ctx, c.client.Unsubscribe(topic), defaultOpTimeout)
}

// Disconnect marks the bridge offline and closes the connection, waiting
// up to timeout for in flight work.
func (c *MQTTClient) Disconnect(timeout time.Duration) {
	if c.client.IsConnected() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := c.Publish(ctx, c.BridgeStateTopic(), 1, true, MQTT_PAYLOAD_OFFLINE); err != nil {
			c.logger.Warn("mqtt: could not publish offline state", zap.Error(err))
		}
	}
	c.logger.Debug("mqtt: disconnect")
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

func waitToken(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if !token.WaitTimeout(timeout) {
		return ErrTimeout
	}
	return token.Error()
}

func commandExtractor(discoveryTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s/([a-z_]+)/([a-zA-Z0-9_]+)/set$", regexp.QuoteMeta(discoveryTopic)))
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}

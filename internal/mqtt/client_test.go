package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/mqtt/mqtttest"
	"github.com/gsbenevides2/hassbridge/internal/util"

	pmqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testMQTTClient(t *testing.T) (*MQTTClient, *mqtttest.MockClient) {
	t.Helper()
	cfg := util.LoadTestConfig()
	mock := mqtttest.NewMockClient()
	c := WrapMQTTClient(cfg.MQTT, mock, zap.NewNop())
	mock.SetOnConnect(c.HandleConnect)
	return c, mock
}

type testMessage struct {
	pmqtt.Message
	topic   string
	payload string
}

func (m testMessage) Topic() string   { return m.topic }
func (m testMessage) Payload() []byte { return []byte(m.payload) }

func TestCommandParse(t *testing.T) {

	assert := assert.New(t)

	c, _ := testMQTTClient(t)
	cmd, err := c.ParseMQTTCommand(testMessage{topic: "homeassistant/button/turn_off_pc/set", payload: "PRESS"})
	require.NoError(t, err)
	assert.Equal("button", cmd.Component)
	assert.Equal("turn_off_pc", cmd.ObjectId)
	assert.Equal("PRESS", cmd.Payload)
}

func TestCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	c, _ := testMQTTClient(t)
	for _, topic := range []string{
		"homeassistant/button/turn_off_pc/state",
		"homeassistant/button/turn_off_pc/config",
		"other/button/turn_off_pc/set",
	} {
		_, err := c.ParseMQTTCommand(testMessage{topic: topic})
		assert.ErrorIs(err, ErrInvalidTopic, topic)
	}
}

func TestTopics(t *testing.T) {

	assert := assert.New(t)

	c, _ := testMQTTClient(t)
	assert.Equal("homeassistant/binary_sensor/status_plataform_github/config", c.ConfigTopic("binary_sensor", "status_plataform_github"))
	assert.Equal("homeassistant/button/turn_off_pc/set", c.CommandTopic("button", "turn_off_pc"))
	assert.Equal("homeassistant/button/turn_off_pc/state", c.StateTopic("button", "turn_off_pc"))
	assert.Equal("hassbridge/bridge/state", c.BridgeStateTopic())
	assert.Equal("homeassistant/status", c.HAStatusTopic())
}

func TestPublishValidation(t *testing.T) {

	assert := assert.New(t)

	c, mock := testMQTTClient(t)
	ctx := context.Background()

	assert.ErrorIs(c.Publish(ctx, "a/b", 0, false, "x"), ErrNotConnected)
	require.NoError(t, c.Connect(ctx))

	assert.ErrorIs(c.Publish(ctx, "", 0, false, "x"), ErrInvalidTopic)
	assert.ErrorIs(c.Publish(ctx, "a/#", 0, false, "x"), ErrInvalidTopic)
	assert.ErrorIs(c.Publish(ctx, "a/b", 3, false, "x"), ErrInvalidQoS)

	boom := errors.New("boom")
	mock.FailPublish("a/fail", boom)
	err := c.Publish(ctx, "a/fail", 1, false, "x")
	assert.ErrorIs(err, ErrPublishFailed)
	assert.ErrorIs(err, boom)
}

func TestConnectPublishesOnlineAndRunsHooks(t *testing.T) {

	assert := assert.New(t)

	c, mock := testMQTTClient(t)
	hookRuns := 0
	c.OnConnect(func() { hookRuns++ })

	require.NoError(t, c.Connect(context.Background()))
	online := mock.PublishedTo("hassbridge/bridge/state")
	require.Len(t, online, 1)
	assert.Equal(MQTT_PAYLOAD_ONLINE, string(online[0].Payload))
	assert.True(online[0].Retained)
	assert.Equal(1, hookRuns)

	c.Disconnect(100 * time.Millisecond)
	states := mock.PublishedTo("hassbridge/bridge/state")
	assert.Equal(MQTT_PAYLOAD_OFFLINE, string(states[len(states)-1].Payload))
	assert.False(c.IsConnected())
}

func TestSubscriptionsRestoredOnReconnect(t *testing.T) {

	assert := assert.New(t)

	c, mock := testMQTTClient(t)
	ctx := context.Background()
	require.NoError(t, c.Connect(ctx))

	got := ""
	require.NoError(t, c.Subscribe(ctx, "homeassistant/button/x/set", 1, func(_ pmqtt.Client, m pmqtt.Message) {
		got = string(m.Payload())
	}))

	mock.Drop()
	assert.Error(mock.Deliver("homeassistant/button/x/set", "lost"))

	require.NoError(t, c.Connect(ctx))
	require.NoError(t, mock.Deliver("homeassistant/button/x/set", "PRESS"))
	assert.Equal("PRESS", got)
}

func TestConnectGivesUpAfterRetries(t *testing.T) {

	assert := assert.New(t)

	c, mock := testMQTTClient(t)
	boom := errors.New("connection refused")
	mock.FailConnect(boom)

	err := c.Connect(context.Background())
	assert.ErrorIs(err, boom)
	assert.Equal(2, mock.ConnectAttempts())
	assert.False(c.IsConnected())
}

func TestKeepConnectingRestoresState(t *testing.T) {

	assert := assert.New(t)

	c, mock := testMQTTClient(t)
	mock.FailConnect(errors.New("connection refused"))
	hookRuns := make(chan struct{}, 1)
	c.OnConnect(func() { hookRuns <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := ""
	require.NoError(t, c.Subscribe(ctx, "homeassistant/button/x/set", 1, func(_ pmqtt.Client, m pmqtt.Message) {
		got = string(m.Payload())
	}))

	done := make(chan error, 1)
	go func() { done <- c.KeepConnecting(ctx) }()
	require.Eventually(t, func() bool { return mock.ConnectAttempts() >= 2 }, 5*time.Second, 10*time.Millisecond)
	assert.False(c.IsConnected())

	mock.FailConnect(nil)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("still connecting")
	}
	<-hookRuns
	assert.True(c.IsConnected())
	require.NoError(t, mock.Deliver("homeassistant/button/x/set", "PRESS"))
	assert.Equal("PRESS", got)
}

func TestKeepConnectingStopsWithContext(t *testing.T) {

	c, mock := testMQTTClient(t)
	mock.FailConnect(errors.New("connection refused"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.KeepConnecting(ctx) }()
	require.Eventually(t, func() bool { return mock.ConnectAttempts() >= 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("KeepConnecting ignored cancellation")
	}
}

func TestDiscoveryMessage(t *testing.T) {

	assert := assert.New(t)

	c, _ := testMQTTClient(t)
	msg := ComponentToHADiscoveryMessage(c, domain.Component{
		Kind:        domain.DOMAIN_BINARY_SENSOR,
		ObjectId:    "status_plataform_github",
		UniqueId:    "hassbridge_binary_sensor_status_plataform_github",
		Name:        "GitHub",
		DeviceClass: "problem",
	})
	assert.Equal("homeassistant/binary_sensor/status_plataform_github/state", msg.StateTopic)
	assert.Empty(msg.CommandTopic)
	assert.Equal("problem", msg.DeviceClass)
	assert.Equal("mqtt", msg.Platform)
	assert.Equal("hassbridge/bridge/state", msg.AvTopic)

	button := ComponentToHADiscoveryMessage(c, domain.Component{Kind: domain.DOMAIN_BUTTON, ObjectId: "turn_off_pc", Command: true})
	assert.Equal("homeassistant/button/turn_off_pc/set", button.CommandTopic)
	assert.Empty(button.StateTopic)

	first, err := msg.Marshal()
	require.NoError(t, err)
	second, err := ComponentToHADiscoveryMessage(c, domain.Component{
		Kind:        domain.DOMAIN_BINARY_SENSOR,
		ObjectId:    "status_plataform_github",
		UniqueId:    "hassbridge_binary_sensor_status_plataform_github",
		Name:        "GitHub",
		DeviceClass: "problem",
	}).Marshal()
	require.NoError(t, err)
	assert.Equal(first, second)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(first, &decoded))
	for _, key := range []string{"name", "unique_id", "object_id", "state_topic", "device", "origin"} {
		assert.Contains(decoded, key)
	}
}

package entity

import (
	"context"
	"sync"
	"testing"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHub struct {
	mu     sync.Mutex
	states map[string]domain.RawState
	writes []domain.WritePayload
	err    error
}

func newFakeHub() *fakeHub {
	return &fakeHub{states: map[string]domain.RawState{}}
}

func (h *fakeHub) Read(_ context.Context, entityId string) (domain.RawState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return domain.RawState{}, h.err
	}
	raw, ok := h.states[entityId]
	if !ok {
		return domain.RawState{}, domain.ErrEntityNotFound
	}
	return raw, nil
}

func (h *fakeHub) ListStates(_ context.Context) ([]domain.RawState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.RawState, 0, len(h.states))
	for _, s := range h.states {
		out = append(out, s)
	}
	return out, nil
}

func (h *fakeHub) Write(_ context.Context, entityId string, payload domain.WritePayload) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.writes = append(h.writes, payload)
	if sp, ok := payload.(domain.StatePayload); ok {
		h.states[entityId] = domain.RawState{EntityID: entityId, State: sp.State, Attributes: sp.Attributes}
	}
	return nil
}

func (h *fakeHub) CallService(ctx context.Context, d string, service string, data map[string]any) error {
	return h.Write(ctx, "", domain.ServicePayload{Domain: d, Service: service, Data: data})
}

type statusAttributes struct {
	FriendlyName       string  `json:"friendly_name"`
	StatusUrl          string  `json:"status_url"`
	ProblemDescription *string `json:"problem_description,omitempty"`
}

func TestBinarySensorWriteThenRead(t *testing.T) {

	assert := assert.New(t)

	hub := newFakeHub()
	id := domain.NewIdentity(domain.DOMAIN_BINARY_SENSOR, "status_plataform_github")
	sensor := NewBinarySensor[statusAttributes](hub, id, Meta{Name: "GitHub", DeviceClass: "problem"})

	desc := "degraded"
	attrs := statusAttributes{FriendlyName: "GitHub", StatusUrl: "https://www.githubstatus.com/", ProblemDescription: &desc}
	require.NoError(t, sensor.SendData(context.Background(), domain.BINARY_ON, &attrs))

	data, err := sensor.GetData(context.Background())
	require.NoError(t, err)
	assert.Equal(domain.BINARY_ON, data.State)
	assert.Equal(attrs, data.Attributes)
}

func TestSendDataFillsFriendlyName(t *testing.T) {

	assert := assert.New(t)

	hub := newFakeHub()
	id := domain.NewIdentity(domain.DOMAIN_SENSOR, "sp_train_one")
	sensor := NewSensor[domain.Attributes](hub, id, Meta{})

	require.NoError(t, sensor.SendData(context.Background(), "Operação Normal", nil))
	sp := hub.writes[0].(domain.StatePayload)
	assert.Equal("Sp Train One", sp.Attributes.FriendlyName())
}

func TestUnavailableHandling(t *testing.T) {

	assert := assert.New(t)

	hub := newFakeHub()
	sensorId := domain.NewIdentity(domain.DOMAIN_SENSOR, "tp_link_router_cpu_used")
	lightId := domain.NewIdentity(domain.DOMAIN_LIGHT, "quarto_gui")
	hub.states[sensorId.EntityID] = domain.RawState{State: "unavailable"}
	hub.states[lightId.EntityID] = domain.RawState{State: "unavailable", Attributes: domain.Attributes{"brightness": nil}}

	_, err := NewSensor[domain.Attributes](hub, sensorId, Meta{}).GetData(context.Background())
	assert.ErrorIs(err, domain.ErrEntityUnavailable)

	data, err := NewLight(hub, lightId, Meta{}).GetData(context.Background())
	assert.NoError(err)
	assert.Equal(domain.LIGHT_UNAVAILABLE, data.State)
	assert.Nil(data.Attributes.BrightnessPercent())
}

func TestReadErrorsPassThrough(t *testing.T) {

	assert := assert.New(t)

	hub := newFakeHub()
	id := domain.NewIdentity(domain.DOMAIN_SWITCH, "guest_wifi_2_4g")
	_, err := NewSwitch(hub, id, Meta{}).GetData(context.Background())
	assert.ErrorIs(err, domain.ErrEntityNotFound)

	hub.err = &domain.TransportError{Op: "read", EntityID: id.EntityID}
	_, err = NewSwitch(hub, id, Meta{}).GetData(context.Background())
	assert.ErrorIs(err, domain.ErrTransport)
}

func TestUnknownHubStateFailsFast(t *testing.T) {

	hub := newFakeHub()
	id := domain.NewIdentity(domain.DOMAIN_SELECT, "fan_quarto_gui_velocity")
	hub.states[id.EntityID] = domain.RawState{State: "turbo"}

	_, err := NewSelect(hub, id, Meta{}, domain.ParseFanVelocity).GetData(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnknownState)
	assert.ErrorIs(t, err, domain.ErrUnexpectedState)
}

func TestHubUnknownStateIsData(t *testing.T) {

	assert := assert.New(t)

	hub := newFakeHub()
	ctx := context.Background()
	status := domain.NewIdentity(domain.DOMAIN_BINARY_SENSOR, "status_plataform_github")
	light := domain.NewIdentity(domain.DOMAIN_LIGHT, "quarto_gui")
	hub.states[status.EntityID] = domain.RawState{State: domain.STATE_UNKNOWN}
	hub.states[light.EntityID] = domain.RawState{State: domain.STATE_UNKNOWN}

	data, err := NewBinarySensor[domain.Attributes](hub, status, Meta{}).GetData(ctx)
	require.NoError(t, err)
	assert.Equal(domain.BINARY_UNKNOWN, data.State)

	l := NewLight(hub, light, Meta{})
	ld, err := l.GetData(ctx)
	require.NoError(t, err)
	assert.Equal(domain.LIGHT_UNKNOWN, ld.State)
	assert.ErrorIs(l.SendData(ctx, domain.LIGHT_UNKNOWN, nil), domain.ErrUnknownState)
}

func TestActionVariantsCallServices(t *testing.T) {

	assert := assert.New(t)

	hub := newFakeHub()
	ctx := context.Background()

	sw := NewSwitch(hub, domain.NewIdentity(domain.DOMAIN_SWITCH, "router_data_fetching"), Meta{})
	require.NoError(t, sw.SendData(ctx, domain.SWITCH_OFF, nil))
	assert.ErrorIs(sw.SendData(ctx, domain.SWITCH_UNAVAILABLE, nil), domain.ErrUnknownState)

	btn := NewButton(hub, domain.NewIdentity(domain.DOMAIN_BUTTON, "reboot"), Meta{})
	require.NoError(t, btn.Press(ctx))

	light := NewLight(hub, domain.NewIdentity(domain.DOMAIN_LIGHT, "quarto_ana"), Meta{})
	require.NoError(t, light.SetBrightness(ctx, 40))

	fan := NewSelect(hub, domain.NewIdentity(domain.DOMAIN_SELECT, "fan_quarto_gui_velocity"), Meta{}, domain.ParseWritableFanVelocity)
	require.NoError(t, fan.SendData(ctx, domain.FAN_HIGH, nil))
	assert.ErrorIs(fan.SendData(ctx, domain.FAN_POWERED_OFF, nil), domain.ErrUnknownState)

	require.Len(t, hub.writes, 4)
	assert.Equal(domain.ServicePayload{Domain: "switch", Service: "turn_off"}, hub.writes[0])
	assert.Equal(domain.ServicePayload{Domain: "button", Service: "press"}, hub.writes[1])
	assert.Equal(domain.ServicePayload{Domain: "light", Service: "turn_on", Data: map[string]any{"brightness_pct": 40}}, hub.writes[2])
	assert.Equal(domain.ServicePayload{Domain: "select", Service: "select_option", Data: map[string]any{"option": "alta"}}, hub.writes[3])
}

func TestDiscoveryComponent(t *testing.T) {

	assert := assert.New(t)

	btn := NewButton(nil, domain.NewIdentity(domain.DOMAIN_BUTTON, "turn_off_pc"), Meta{Name: "Turn off PC", Icon: "mdi:power"})
	c := btn.Discovery()
	assert.Equal(domain.DOMAIN_BUTTON, c.Kind)
	assert.Equal("turn_off_pc", c.ObjectId)
	assert.Equal("hassbridge_button_turn_off_pc", c.UniqueId)
	assert.True(c.Command)

	sensor := NewBinarySensor[domain.Attributes](nil, domain.NewIdentity(domain.DOMAIN_BINARY_SENSOR, "camera_frente_motion"), Meta{DeviceClass: "motion"})
	assert.False(sensor.Discovery().Command)
	assert.Equal("Camera Frente Motion", sensor.Discovery().Name)
}

func TestBrightnessPercent(t *testing.T) {

	assert := assert.New(t)

	full := 255.0
	half := 128.0
	assert.Equal(100, *LightAttributes{Brightness: &full}.BrightnessPercent())
	assert.Equal(50, *LightAttributes{Brightness: &half}.BrightnessPercent())
}

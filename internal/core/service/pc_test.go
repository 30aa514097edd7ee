package service

import (
	"context"
	"testing"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCConnection(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	f.stub.Set("device_tracker.gsbenevides2_pc", "home", domain.Attributes{
		"source_type": "router", "ip": "192.168.0.20", "mac": "AA:BB:CC:DD:EE:FF",
	})

	connected, err := f.services.PC.IsConnected(context.Background())
	require.NoError(t, err)
	assert.True(connected)

	ip, err := f.services.PC.Address(context.Background())
	require.NoError(t, err)
	assert.Equal("192.168.0.20", ip)
}

func TestPCTurnOnSendsMagicPacket(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	f.stub.Set("device_tracker.gsbenevides2_pc", "not_home", domain.Attributes{"mac": "AA:BB:CC:DD:EE:FF"})

	require.NoError(t, f.services.PC.TurnOn(context.Background()))

	calls := f.stub.Calls()
	require.Len(t, calls, 2)
	assert.Equal("/api/services/wake_on_lan/send_magic_packet", calls[1].Path)
	assert.Equal("AA:BB:CC:DD:EE:FF", calls[1].Body["mac"])
	assert.NotContains(calls[1].Body, "entity_id")
}

func TestPCTurnOffUsesShutdowner(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	f.stub.Set("device_tracker.gsbenevides2_pc", "home", domain.Attributes{"ip": "192.168.0.20"})
	require.NoError(t, f.services.PC.TurnOff(context.Background()))
	assert.Equal([]string{"192.168.0.20"}, f.shutdowner.ips)

	f.stub.Set("device_tracker.gsbenevides2_pc", "not_home", nil)
	require.NoError(t, f.services.PC.TurnOff(context.Background()))
	assert.Len(f.shutdowner.ips, 1)
}

func TestPCSetupButtonBindsTurnOff(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	f.stub.Set("device_tracker.gsbenevides2_pc", "home", domain.Attributes{"ip": "10.0.0.2"})

	require.NoError(t, f.services.Announce(context.Background()))
	require.Len(t, f.publisher.published, 1)
	c := f.publisher.published[0]
	assert.Equal(domain.DOMAIN_BUTTON, c.Kind)
	assert.Equal("turn_off_pc", c.ObjectId)
	assert.Equal("Turn Off PC", c.Name)

	_, err := f.publisher.handlers["turn_off_pc"](context.Background(), "PRESS")
	require.NoError(t, err)
	assert.Equal([]string{"10.0.0.2"}, f.shutdowner.ips)
}

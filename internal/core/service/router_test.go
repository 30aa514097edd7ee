package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRouter(f *fixture) {
	for i, s := range routerSensors {
		f.stub.Set("sensor."+s.slug, []string{"12", "40", "9", "300", "150", "8", "5", "1", "3"}[i], nil)
	}
	f.stub.Set("switch.router_data_fetching", "on", nil)
	f.stub.Set("switch.guest_wifi_2_4g", "off", nil)
	f.stub.Set("button.reboot", "2024-01-01T00:00:00Z", nil)
}

func TestRouterDataIsParallel(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	seedRouter(f)
	f.stub.SetDelay(100 * time.Millisecond)

	start := time.Now()
	data, err := f.services.Router.Data(context.Background())
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.Equal(11, f.stub.CallCount())
	assert.Less(elapsed, 500*time.Millisecond)
	assert.Equal("12", data.CpuUsed)
	assert.Equal("3", data.WiredClients)
	assert.Equal(domain.SWITCH_ON, data.DataFetching)

	formatted := data.Formatted()
	assert.Equal("12 %", formatted.CpuUsed)
	assert.Equal("300 Mbps", formatted.DownloadSpeed)
	assert.Equal("8 ms", formatted.Ping)
	assert.Equal("Enabled", formatted.DataFetching)
	assert.Equal("Disabled", formatted.GuestWifi)
}

func TestRouterDataFailsAsAWhole(t *testing.T) {

	f := newFixture(t)
	seedRouter(f)
	f.stub.FailWith("sensor.speedtest_ping", http.StatusBadGateway)

	_, err := f.services.Router.Data(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestRouterActions(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	seedRouter(f)
	ctx := context.Background()

	require.NoError(t, f.services.Router.EnableGuestWifi(ctx))
	require.NoError(t, f.services.Router.DisableDataFetching(ctx))
	require.NoError(t, f.services.Router.Reboot(ctx))

	raw, _ := f.stub.Get("switch.guest_wifi_2_4g")
	assert.Equal("on", raw.State)
	raw, _ = f.stub.Get("switch.router_data_fetching")
	assert.Equal("off", raw.State)

	calls := f.stub.Calls()
	require.Len(t, calls, 3)
	assert.Equal("/api/services/button/press", calls[2].Path)
	assert.Equal("button.reboot", calls[2].Body["entity_id"])
}

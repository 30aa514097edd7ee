package service

import (
	"context"
	"testing"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownIdentifiersNeverReachTheHub(t *testing.T) {

	f := newFixture(t)
	s := f.services
	ctx := context.Background()

	ops := map[string]func() error{
		"light state":      func() error { _, err := s.Lights.State(ctx, "Cozinha"); return err },
		"light brightness": func() error { return s.Lights.SetBrightness(ctx, "Cozinha", 50) },
		"light set":        func() error { return s.Lights.SetState(ctx, "Cozinha", domain.LIGHT_ON) },
		"fan velocity":     func() error { _, err := s.Fans.Velocity(ctx, "Sala"); return err },
		"fan set":          func() error { return s.Fans.SetVelocity(ctx, "Sala", domain.FAN_HIGH) },
		"camera motion":    func() error { _, err := s.Cameras.MotionDetected(ctx, "fundos"); return err },
		"spotify playback": func() error { _, err := s.Spotify.Playback(ctx, "Ana"); return err },
		"spotify play":     func() error { return s.Spotify.Play(ctx, "Ana") },
		"spotify volume":   func() error { return s.Spotify.SetVolume(ctx, "Ana", 0.5) },
		"twitch status":    func() error { _, err := s.Twitch.Status(ctx, "nobody"); return err },
		"train get":        func() error { _, err := s.Trains.Get(ctx, 6); return err },
		"status get":       func() error { _, err := s.Status.Get(ctx, "   "); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, op(), domain.ErrInvalidIdentifier)
		})
	}
	assert.Zero(t, f.stub.CallCount())
}

func TestCatalogMatchesBySlug(t *testing.T) {

	assert := assert.New(t)

	name, err := checkCatalog("light", testCatalog().Lights, "quarto_gui")
	require.NoError(t, err)
	assert.Equal("Quarto Gui", name)

	_, err = checkCatalog("light", testCatalog().Lights, "")
	assert.ErrorIs(err, domain.ErrInvalidIdentifier)
}

func TestLightsBrightnessRoundTrip(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	f.stub.Set("light.quarto_gui", "off", domain.Attributes{"brightness": nil})
	f.stub.Set("light.quarto_ana", "off", nil)
	ctx := context.Background()

	require.NoError(t, f.services.Lights.SetBrightness(ctx, "Quarto Gui", 40))

	state, err := f.services.Lights.State(ctx, "Quarto Gui")
	require.NoError(t, err)
	assert.Equal(domain.LIGHT_ON, state)

	pct, err := f.services.Lights.Brightness(ctx, "Quarto Gui")
	require.NoError(t, err)
	require.NotNil(t, pct)
	assert.Equal(40, *pct)

	status, err := f.services.Lights.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.Equal("Quarto Ana", status[1].Name)
	assert.Nil(status[1].Brightness)
}

func TestFanVelocity(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	f.stub.Set("select.fan_quarto_gui_velocity", "off", nil)
	ctx := context.Background()

	v, err := f.services.Fans.Velocity(ctx, "Quarto Gui")
	require.NoError(t, err)
	assert.Equal(domain.FAN_POWERED_OFF, v)

	assert.ErrorIs(f.services.Fans.SetVelocity(ctx, "Quarto Gui", domain.FAN_POWERED_OFF), domain.ErrUnknownState)
	assert.ErrorIs(f.services.Fans.SetVelocity(ctx, "Quarto Gui", "turbo"), domain.ErrUnknownState)

	require.NoError(t, f.services.Fans.SetVelocity(ctx, "Quarto Gui", domain.FAN_MEDIUM))
	v, err = f.services.Fans.Velocity(ctx, "Quarto Gui")
	require.NoError(t, err)
	assert.Equal(domain.FAN_MEDIUM, v)

	f.stub.Set("select.fan_quarto_gui_velocity", "turbo", nil)
	_, err = f.services.Fans.Velocity(ctx, "Quarto Gui")
	assert.ErrorIs(err, domain.ErrUnknownState)
}

func TestCameraStatus(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	f.stub.Set("binary_sensor.camera_frente_motion", "on", nil)
	ctx := context.Background()

	st, err := f.services.Cameras.Status(ctx, "frente")
	require.NoError(t, err)
	assert.True(st.MotionDetected)
	assert.Equal(domain.CAMERA_UNAVAILABLE, st.State)

	f.stub.Set("camera.frente", "streaming", domain.Attributes{"entity_picture": "/api/camera_proxy/camera.frente"})
	st, err = f.services.Cameras.Status(ctx, "frente")
	require.NoError(t, err)
	assert.Equal(domain.CAMERA_STREAMING, st.State)
	require.NotNil(t, st.Picture)
	assert.Equal("/api/camera_proxy/camera.frente", *st.Picture)
}

func TestPrinterStatus(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	f.stub.Set("sensor.printer_status", "ready", nil)
	f.stub.Set("device_tracker.printer", "home", nil)
	f.stub.Set("sensor.printer_cmy_ink", "75", nil)
	f.stub.Set("sensor.printer_black_ink", "unavailable", nil)
	f.stub.Set("sensor.printer_pages", "1254", nil)
	f.stub.Set("sensor.printer_scanned_pages", "89", nil)

	data, err := f.services.Printer.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(domain.PRINTER_READY, data.PrinterStatus)
	assert.Equal(domain.TRACKER_HOME, data.ConnectionStatus)
	assert.Equal(domain.STATE_UNAVAILABLE, data.ColorBlackLevel)

	formatted := data.Formatted()
	assert.Equal("75%", formatted.ColorCMYLevel)
	assert.Equal("unavailable", formatted.ColorBlackLevel)
	assert.Equal("1254 páginas", formatted.PagesLevel)
}

func TestSpotifyPlayback(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	f.stub.Set("media_player.spotify_guilherme", "idle", domain.Attributes{"media_title": "ignored"})
	ctx := context.Background()

	pb, err := f.services.Spotify.Playback(ctx, "Guilherme")
	require.NoError(t, err)
	assert.False(pb.Active)
	assert.Empty(pb.MusicTitle)

	require.NoError(t, f.services.Spotify.Play(ctx, "Guilherme"))
	require.NoError(t, f.services.Spotify.SetVolume(ctx, "Guilherme", 0.75))
	pb, err = f.services.Spotify.Playback(ctx, "Guilherme")
	require.NoError(t, err)
	assert.True(pb.Active)
	assert.Equal(domain.MEDIA_PLAYING, pb.State)
	assert.Equal("ignored", pb.MusicTitle)
	assert.Equal(0.75, pb.MusicVolume)
}

func TestSpotifyPlayMediaChecksUri(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	f.stub.Set("media_player.spotify_guilherme", "paused", nil)
	ctx := context.Background()

	assert.ErrorIs(f.services.Spotify.PlaySong(ctx, "Guilherme", "spotify:album:1A2GTWGtFfWp7KSQTwWOyo"), domain.ErrInvalidIdentifier)
	assert.Zero(f.stub.CallCount())

	require.NoError(t, f.services.Spotify.PlayAlbum(ctx, "Guilherme", "spotify:album:1A2GTWGtFfWp7KSQTwWOyo"))
	calls := f.stub.Calls()
	require.Len(t, calls, 1)
	assert.Equal("/api/services/media_player/play_media", calls[0].Path)
	assert.Equal("album", calls[0].Body["media_content_type"])
}

func TestTwitchStatus(t *testing.T) {

	assert := assert.New(t)

	f := newFixture(t)
	f.stub.Set("sensor.gaules", "streaming", domain.Attributes{"game": "Counter-Strike", "viewers": 30000})

	st, err := f.services.Twitch.Status(context.Background(), "gaules")
	require.NoError(t, err)
	assert.Equal(domain.STREAM_STREAMING, st.State)
	require.NotNil(t, st.Attributes.Game)
	assert.Equal("Counter-Strike", *st.Attributes.Game)
	require.NotNil(t, st.Attributes.Viewers)
	assert.Equal(30000.0, *st.Attributes.Viewers)
	assert.Len(f.services.Twitch.Streamers(), 1)
}

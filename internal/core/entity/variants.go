package entity

import (
	"context"
	"fmt"
	"math"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/port"
)

const (
	SERVICE_TURN_ON        = "turn_on"
	SERVICE_TURN_OFF       = "turn_off"
	SERVICE_PRESS          = "press"
	SERVICE_SELECT_OPTION  = "select_option"
	SERVICE_MEDIA_PLAY     = "media_play"
	SERVICE_MEDIA_PAUSE    = "media_pause"
	SERVICE_MEDIA_NEXT     = "media_next_track"
	SERVICE_MEDIA_PREVIOUS = "media_previous_track"
	SERVICE_VOLUME_SET     = "volume_set"
	SERVICE_PLAY_MEDIA     = "play_media"
)

// Sensor has a free-form state. unavailable is an error.
type Sensor[A any] struct {
	base[domain.SensorState, A]
}

func NewSensor[A any](hub port.HubClient, id domain.Identity, meta Meta) *Sensor[A] {
	return &Sensor[A]{newBase[domain.SensorState, A](hub, id, meta, domain.ParseSensorState, false)}
}

// EnumSensor is a sensor whose states form a closed set that includes
// unavailable.
type EnumSensor[S ~string, A any] struct {
	base[S, A]
}

func NewEnumSensor[S ~string, A any](hub port.HubClient, id domain.Identity, meta Meta, parse func(string) (S, error)) *EnumSensor[S, A] {
	return &EnumSensor[S, A]{newBase[S, A](hub, id, meta, parse, true)}
}

type BinarySensor[A any] struct {
	base[domain.BinaryState, A]
}

func NewBinarySensor[A any](hub port.HubClient, id domain.Identity, meta Meta) *BinarySensor[A] {
	return &BinarySensor[A]{newBase[domain.BinaryState, A](hub, id, meta, domain.ParseBinaryState, true)}
}

type Switch struct {
	base[domain.SwitchState, domain.Attributes]
}

func NewSwitch(hub port.HubClient, id domain.Identity, meta Meta) *Switch {
	return &Switch{newBase[domain.SwitchState, domain.Attributes](hub, id, meta, domain.ParseSwitchState, true)}
}

func (s *Switch) Discovery() domain.Component {
	return s.component(true)
}

func (s *Switch) TurnOn(ctx context.Context) error {
	return s.callService(ctx, SERVICE_TURN_ON, nil)
}

func (s *Switch) TurnOff(ctx context.Context) error {
	return s.callService(ctx, SERVICE_TURN_OFF, nil)
}

// SendData maps on/off to the switch services; attributes are ignored.
func (s *Switch) SendData(ctx context.Context, state domain.SwitchState, _ *domain.Attributes) error {
	switch state {
	case domain.SWITCH_ON:
		return s.TurnOn(ctx)
	case domain.SWITCH_OFF:
		return s.TurnOff(ctx)
	}
	return fmt.Errorf("%s: %w: cannot set %q", s.id, domain.ErrUnknownState, state)
}

// Button state is the timestamp of the last press.
type Button struct {
	base[domain.SensorState, domain.Attributes]
}

func NewButton(hub port.HubClient, id domain.Identity, meta Meta) *Button {
	return &Button{newBase[domain.SensorState, domain.Attributes](hub, id, meta, domain.ParseSensorState, false)}
}

func (b *Button) Discovery() domain.Component {
	return b.component(true)
}

func (b *Button) Press(ctx context.Context) error {
	return b.callService(ctx, SERVICE_PRESS, nil)
}

type DeviceTracker[A any] struct {
	base[domain.DeviceTrackerState, A]
}

func NewDeviceTracker[A any](hub port.HubClient, id domain.Identity, meta Meta) *DeviceTracker[A] {
	return &DeviceTracker[A]{newBase[domain.DeviceTrackerState, A](hub, id, meta, domain.ParseDeviceTrackerState, true)}
}

type CameraAttributes struct {
	FriendlyName  string  `json:"friendly_name"`
	EntityPicture *string `json:"entity_picture,omitempty"`
	AccessToken   *string `json:"access_token,omitempty"`
	Brand         *string `json:"brand,omitempty"`
}

type Camera struct {
	base[domain.CameraState, CameraAttributes]
}

func NewCamera(hub port.HubClient, id domain.Identity, meta Meta) *Camera {
	return &Camera{newBase[domain.CameraState, CameraAttributes](hub, id, meta, domain.ParseCameraState, true)}
}

type MediaPlayerAttributes struct {
	FriendlyName   string   `json:"friendly_name"`
	MediaTitle     *string  `json:"media_title,omitempty"`
	MediaArtist    *string  `json:"media_artist,omitempty"`
	MediaAlbumName *string  `json:"media_album_name,omitempty"`
	MediaContentId *string  `json:"media_content_id,omitempty"`
	MediaTrack     *float64 `json:"media_track,omitempty"`
	MediaPosition  *float64 `json:"media_position,omitempty"`
	MediaDuration  *float64 `json:"media_duration,omitempty"`
	VolumeLevel    *float64 `json:"volume_level,omitempty"`
	Shuffle        *bool    `json:"shuffle,omitempty"`
	Repeat         *string  `json:"repeat,omitempty"`
	Source         *string  `json:"source,omitempty"`
	EntityPicture  *string  `json:"entity_picture,omitempty"`
}

type MediaPlayer struct {
	base[domain.MediaPlayerState, MediaPlayerAttributes]
}

func NewMediaPlayer(hub port.HubClient, id domain.Identity, meta Meta) *MediaPlayer {
	return &MediaPlayer{newBase[domain.MediaPlayerState, MediaPlayerAttributes](hub, id, meta, domain.ParseMediaPlayerState, true)}
}

func (m *MediaPlayer) Play(ctx context.Context) error {
	return m.callService(ctx, SERVICE_MEDIA_PLAY, nil)
}

func (m *MediaPlayer) Pause(ctx context.Context) error {
	return m.callService(ctx, SERVICE_MEDIA_PAUSE, nil)
}

func (m *MediaPlayer) Next(ctx context.Context) error {
	return m.callService(ctx, SERVICE_MEDIA_NEXT, nil)
}

func (m *MediaPlayer) Previous(ctx context.Context) error {
	return m.callService(ctx, SERVICE_MEDIA_PREVIOUS, nil)
}

// SetVolume takes a level between 0 and 1.
func (m *MediaPlayer) SetVolume(ctx context.Context, level float64) error {
	return m.callService(ctx, SERVICE_VOLUME_SET, map[string]any{"volume_level": level})
}

func (m *MediaPlayer) PlayMedia(ctx context.Context, contentId string, contentType string) error {
	return m.callService(ctx, SERVICE_PLAY_MEDIA, map[string]any{
		"media_content_id":   contentId,
		"media_content_type": contentType,
	})
}

func (m *MediaPlayer) SendData(ctx context.Context, state domain.MediaPlayerState, _ *MediaPlayerAttributes) error {
	switch state {
	case domain.MEDIA_PLAYING:
		return m.Play(ctx)
	case domain.MEDIA_PAUSED:
		return m.Pause(ctx)
	case domain.MEDIA_ON:
		return m.callService(ctx, SERVICE_TURN_ON, nil)
	case domain.MEDIA_OFF:
		return m.callService(ctx, SERVICE_TURN_OFF, nil)
	}
	return fmt.Errorf("%s: %w: cannot set %q", m.id, domain.ErrUnknownState, state)
}

// LightAttributes.Brightness is the hub's 0-255 scale.
type LightAttributes struct {
	FriendlyName string   `json:"friendly_name"`
	Brightness   *float64 `json:"brightness"`
}

// BrightnessPercent converts the hub brightness to 0-100, nil when the
// light does not report one.
func (a LightAttributes) BrightnessPercent() *int {
	if a.Brightness == nil {
		return nil
	}
	pct := int(math.Round(*a.Brightness * 100 / 255))
	return &pct
}

type Light struct {
	base[domain.LightState, LightAttributes]
}

func NewLight(hub port.HubClient, id domain.Identity, meta Meta) *Light {
	return &Light{newBase[domain.LightState, LightAttributes](hub, id, meta, domain.ParseLightState, true)}
}

func (l *Light) TurnOn(ctx context.Context) error {
	return l.callService(ctx, SERVICE_TURN_ON, nil)
}

func (l *Light) TurnOff(ctx context.Context) error {
	return l.callService(ctx, SERVICE_TURN_OFF, nil)
}

// SetBrightness expects a percentage already validated to 0-100 by the
// caller; it is forwarded as is.
func (l *Light) SetBrightness(ctx context.Context, pct int) error {
	return l.callService(ctx, SERVICE_TURN_ON, map[string]any{"brightness_pct": pct})
}

func (l *Light) SendData(ctx context.Context, state domain.LightState, _ *LightAttributes) error {
	switch state {
	case domain.LIGHT_ON:
		return l.TurnOn(ctx)
	case domain.LIGHT_OFF:
		return l.TurnOff(ctx)
	}
	return fmt.Errorf("%s: %w: cannot set %q", l.id, domain.ErrUnknownState, state)
}

type SelectAttributes struct {
	FriendlyName string   `json:"friendly_name"`
	Options      []string `json:"options,omitempty"`
}

type Select[S ~string] struct {
	base[S, SelectAttributes]
}

func NewSelect[S ~string](hub port.HubClient, id domain.Identity, meta Meta, parse func(string) (S, error)) *Select[S] {
	return &Select[S]{newBase[S, SelectAttributes](hub, id, meta, parse, false)}
}

func (s *Select[S]) SelectOption(ctx context.Context, option S) error {
	return s.callService(ctx, SERVICE_SELECT_OPTION, map[string]any{"option": string(option)})
}

func (s *Select[S]) SendData(ctx context.Context, state S, _ *SelectAttributes) error {
	if _, err := s.parse(string(state)); err != nil {
		return fmt.Errorf("%s: %w", s.id, err)
	}
	return s.SelectOption(ctx, state)
}

var _ Writer[domain.SensorState, domain.Attributes] = (*Sensor[domain.Attributes])(nil)
var _ Writer[domain.PrinterStatus, domain.Attributes] = (*EnumSensor[domain.PrinterStatus, domain.Attributes])(nil)
var _ Writer[domain.BinaryState, domain.Attributes] = (*BinarySensor[domain.Attributes])(nil)
var _ Writer[domain.SwitchState, domain.Attributes] = (*Switch)(nil)
var _ Writer[domain.SensorState, domain.Attributes] = (*Button)(nil)
var _ Writer[domain.DeviceTrackerState, domain.Attributes] = (*DeviceTracker[domain.Attributes])(nil)
var _ Reader[domain.CameraState, CameraAttributes] = (*Camera)(nil)
var _ Writer[domain.MediaPlayerState, MediaPlayerAttributes] = (*MediaPlayer)(nil)
var _ Writer[domain.LightState, LightAttributes] = (*Light)(nil)
var _ Writer[domain.FanVelocity, SelectAttributes] = (*Select[domain.FanVelocity])(nil)

package domain

import (
	"fmt"
	"slices"
)

const (
	STATE_UNAVAILABLE = "unavailable"
	STATE_UNKNOWN     = "unknown"
)

type SensorState string

type BinaryState string

const (
	BINARY_ON          BinaryState = "on"
	BINARY_OFF         BinaryState = "off"
	BINARY_UNAVAILABLE BinaryState = STATE_UNAVAILABLE
	BINARY_UNKNOWN     BinaryState = STATE_UNKNOWN
)

type SwitchState string

const (
	SWITCH_ON          SwitchState = "on"
	SWITCH_OFF         SwitchState = "off"
	SWITCH_UNAVAILABLE SwitchState = STATE_UNAVAILABLE
	SWITCH_UNKNOWN     SwitchState = STATE_UNKNOWN
)

type DeviceTrackerState string

const (
	TRACKER_HOME        DeviceTrackerState = "home"
	TRACKER_NOT_HOME    DeviceTrackerState = "not_home"
	TRACKER_UNAVAILABLE DeviceTrackerState = STATE_UNAVAILABLE
	TRACKER_UNKNOWN     DeviceTrackerState = STATE_UNKNOWN
)

type MediaPlayerState string

const (
	MEDIA_PLAYING     MediaPlayerState = "playing"
	MEDIA_PAUSED      MediaPlayerState = "paused"
	MEDIA_OFF         MediaPlayerState = "off"
	MEDIA_ON          MediaPlayerState = "on"
	MEDIA_IDLE        MediaPlayerState = "idle"
	MEDIA_STANDBY     MediaPlayerState = "standby"
	MEDIA_BUFFERING   MediaPlayerState = "buffering"
	MEDIA_UNAVAILABLE MediaPlayerState = STATE_UNAVAILABLE
	MEDIA_UNKNOWN     MediaPlayerState = STATE_UNKNOWN
)

type LightState string

const (
	LIGHT_ON          LightState = "on"
	LIGHT_OFF         LightState = "off"
	LIGHT_UNAVAILABLE LightState = STATE_UNAVAILABLE
	LIGHT_UNKNOWN     LightState = STATE_UNKNOWN
)

type CameraState string

const (
	CAMERA_IDLE        CameraState = "idle"
	CAMERA_RECORDING   CameraState = "recording"
	CAMERA_STREAMING   CameraState = "streaming"
	CAMERA_UNAVAILABLE CameraState = STATE_UNAVAILABLE
	CAMERA_UNKNOWN     CameraState = STATE_UNKNOWN
)

type FanVelocity string

const (
	FAN_HIGH   FanVelocity = "alta"
	FAN_MEDIUM FanVelocity = "media"
	FAN_LOW    FanVelocity = "baixa"
	FAN_OFF    FanVelocity = "desligado"
	// reported by the hub when the fan controller is powered down
	FAN_POWERED_OFF FanVelocity = "off"
)

type PrinterStatus string

const (
	PRINTER_OFF         PrinterStatus = "off"
	PRINTER_READY       PrinterStatus = "ready"
	PRINTER_SCANNING    PrinterStatus = "scanning"
	PRINTER_PROCESSING  PrinterStatus = "processing"
	PRINTER_COPYING     PrinterStatus = "copying"
	PRINTER_CANCEL_JOB  PrinterStatus = "canceljob"
	PRINTER_POWER_SAVE  PrinterStatus = "inpowersave"
	PRINTER_UNAVAILABLE PrinterStatus = STATE_UNAVAILABLE
	PRINTER_UNKNOWN     PrinterStatus = STATE_UNKNOWN
)

type StreamState string

const (
	STREAM_STREAMING   StreamState = "streaming"
	STREAM_OFFLINE     StreamState = "offline"
	STREAM_UNAVAILABLE StreamState = STATE_UNAVAILABLE
	STREAM_UNKNOWN     StreamState = STATE_UNKNOWN
)

func ParseSensorState(raw string) (SensorState, error) {
	return SensorState(raw), nil
}

func ParseBinaryState(raw string) (BinaryState, error) {
	return parseClosed("binary state", raw, BINARY_ON, BINARY_OFF, BINARY_UNAVAILABLE, BINARY_UNKNOWN)
}

func ParseSwitchState(raw string) (SwitchState, error) {
	return parseClosed("switch state", raw, SWITCH_ON, SWITCH_OFF, SWITCH_UNAVAILABLE, SWITCH_UNKNOWN)
}

func ParseDeviceTrackerState(raw string) (DeviceTrackerState, error) {
	return parseClosed("device tracker state", raw, TRACKER_HOME, TRACKER_NOT_HOME, TRACKER_UNAVAILABLE, TRACKER_UNKNOWN)
}

func ParseMediaPlayerState(raw string) (MediaPlayerState, error) {
	return parseClosed("media player state", raw, MEDIA_PLAYING, MEDIA_PAUSED, MEDIA_OFF, MEDIA_ON,
		MEDIA_IDLE, MEDIA_STANDBY, MEDIA_BUFFERING, MEDIA_UNAVAILABLE, MEDIA_UNKNOWN)
}

func ParseLightState(raw string) (LightState, error) {
	return parseClosed("light state", raw, LIGHT_ON, LIGHT_OFF, LIGHT_UNAVAILABLE, LIGHT_UNKNOWN)
}

func ParseCameraState(raw string) (CameraState, error) {
	return parseClosed("camera state", raw, CAMERA_IDLE, CAMERA_RECORDING, CAMERA_STREAMING, CAMERA_UNAVAILABLE, CAMERA_UNKNOWN)
}

func ParseFanVelocity(raw string) (FanVelocity, error) {
	return parseClosed("fan velocity", raw, FAN_HIGH, FAN_MEDIUM, FAN_LOW, FAN_OFF, FAN_POWERED_OFF)
}

// ParseWritableFanVelocity accepts only the velocities a caller may set.
func ParseWritableFanVelocity(raw string) (FanVelocity, error) {
	return parseClosed("fan velocity", raw, FAN_HIGH, FAN_MEDIUM, FAN_LOW, FAN_OFF)
}

func ParsePrinterStatus(raw string) (PrinterStatus, error) {
	return parseClosed("printer status", raw, PRINTER_OFF, PRINTER_READY, PRINTER_SCANNING, PRINTER_PROCESSING,
		PRINTER_COPYING, PRINTER_CANCEL_JOB, PRINTER_POWER_SAVE, PRINTER_UNAVAILABLE, PRINTER_UNKNOWN)
}

func ParseStreamState(raw string) (StreamState, error) {
	return parseClosed("stream state", raw, STREAM_STREAMING, STREAM_OFFLINE, STREAM_UNAVAILABLE, STREAM_UNKNOWN)
}

func parseClosed[S ~string](kind string, raw string, allowed ...S) (S, error) {
	if slices.Contains(allowed, S(raw)) {
		return S(raw), nil
	}
	var zero S
	return zero, fmt.Errorf("%w: %s %q", ErrUnknownState, kind, raw)
}

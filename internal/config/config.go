package config

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	Hub      HubConfig     `mapstructure:"hub"`
	MQTT     MQTTConfig    `mapstructure:"mqtt"`
	PC       PCConfig      `mapstructure:"pc"`
	Catalog  CatalogConfig `mapstructure:"catalog"`
	Port     uint          `mapstructure:"port"`
	HttpLog  bool          `mapstructure:"http_log"`
}

type HubConfig struct {
	Url           string
	Token         string
	TimeoutMillis uint32        `mapstructure:"timeout_millis"`
	Breaker       BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	Enabled           bool
	MaxFailures       uint32 `mapstructure:"max_failures"`
	OpenTimeoutMillis uint32 `mapstructure:"open_timeout_millis"`
}

type MQTTConfig struct {
	Host                    string
	Port                    int
	Username                string
	Password                string
	BaseTopic               string `mapstructure:"base_topic"`
	HADiscoveryEnable       bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic        string `mapstructure:"ha_discovery_topic"`
	ConnectRetries          uint64 `mapstructure:"connect_retries"`
	DiscoveryRefreshMinutes uint32 `mapstructure:"discovery_refresh_minutes"`
	CommandTimeoutMillis    uint32 `mapstructure:"command_timeout_millis"`
}

type PCConfig struct {
	ShutdownPort     uint   `mapstructure:"shutdown_port"`
	ShutdownPassword string `mapstructure:"shutdown_password"`
}

type Streamer struct {
	Id           string `json:"id"`
	FriendlyName string `json:"friendly_name" mapstructure:"friendly_name"`
}

type CatalogConfig struct {
	Lights          []string
	FanRooms        []string   `mapstructure:"fan_rooms"`
	CameraAreas     []string   `mapstructure:"camera_areas"`
	SpotifyAccounts []string   `mapstructure:"spotify_accounts"`
	TwitchStreamers []Streamer `mapstructure:"twitch_streamers"`
}

func (c HubConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMillis) * time.Millisecond
}

func (c MQTTConfig) CommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeoutMillis) * time.Millisecond
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "hassbridge"

// Load reads defaults, the optional CONFIG_FILE yaml and HASSBRIDGE_*
// environment variables, then validates the result.
func Load() (*Config, error) {

	// alias PORT => HASSBRIDGE_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("HASSBRIDGE_PORT", port)
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			v.SetConfigFile(cfgFile)

			err = v.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = ParseLogLevel(v.GetString("log_level"))

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("port", 8080)
	v.SetDefault("http_log", false)
	v.SetDefault("hub.url", "http://homeassistant.local:8123")
	v.SetDefault("hub.token", "")
	v.SetDefault("hub.timeout_millis", 10000)
	v.SetDefault("hub.breaker.enabled", false)
	v.SetDefault("hub.breaker.max_failures", 5)
	v.SetDefault("hub.breaker.open_timeout_millis", 30000)
	v.SetDefault("mqtt.host", "localhost")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.ha_discovery_enable", false)
	v.SetDefault("mqtt.base_topic", "hassbridge")
	v.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	v.SetDefault("mqtt.connect_retries", 5)
	v.SetDefault("mqtt.discovery_refresh_minutes", 60)
	v.SetDefault("mqtt.command_timeout_millis", 10000)
	v.SetDefault("pc.shutdown_port", 8624)
	v.SetDefault("pc.shutdown_password", "")
	v.SetDefault("catalog.lights", []string{"Quarto Gui", "Quarto Ana"})
	v.SetDefault("catalog.fan_rooms", []string{"Quarto Gui"})
	v.SetDefault("catalog.camera_areas", []string{"frente"})
	v.SetDefault("catalog.spotify_accounts", []string{"Guilherme"})
	v.SetDefault("catalog.twitch_streamers", []map[string]string{})
}

func ParseLogLevel(level string) zapcore.Level {
	switch level {
	case "trace":
		return zap.DebugLevel
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "error":
		return zap.ErrorLevel
	case "warn":
		return zap.WarnLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

func Validate(cfg *Config) error {
	// check and fix base topic
	baseTopic, err := CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	// check bounds
	hubUrl, err := url.Parse(cfg.Hub.Url)
	if err != nil || hubUrl.Scheme == "" || hubUrl.Host == "" {
		return fmt.Errorf("config param hub.url is not a valid url: %q", cfg.Hub.Url)
	}
	cfg.Hub.Url = strings.TrimSuffix(cfg.Hub.Url, "/")
	if cfg.Hub.TimeoutMillis == 0 {
		return errors.New("config param hub.timeout_millis should be > 0")
	}
	if cfg.Hub.Breaker.Enabled && cfg.Hub.Breaker.MaxFailures == 0 {
		return errors.New("config param hub.breaker.max_failures should be > 0")
	}
	if cfg.MQTT.CommandTimeoutMillis == 0 {
		return errors.New("config param mqtt.command_timeout_millis should be > 0")
	}
	for _, s := range cfg.Catalog.TwitchStreamers {
		if s.Id == "" {
			return errors.New("config param catalog.twitch_streamers entries need an id")
		}
	}
	return nil
}

// Redacted returns a copy safe to log.
func Redacted(cfg Config) Config {
	cfg.Hub.Token = "*redacted*"
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	cfg.PC.ShutdownPassword = "*redacted*"
	return cfg
}

package util

import (
	"io"
	"log/slog"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/config"

	"github.com/lmittmann/tint"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Hub: config.HubConfig{
			Url:           "http://127.0.0.1:8123",
			Token:         "test-token",
			TimeoutMillis: 2000,
		},
		MQTT: config.MQTTConfig{
			Host:                 "localhost",
			Port:                 1883,
			BaseTopic:            "hassbridge",
			HADiscoveryEnable:    true,
			HADiscoveryTopic:     "homeassistant",
			ConnectRetries:       1,
			CommandTimeoutMillis: 1000,
		},
		PC: config.PCConfig{
			ShutdownPort: 8624,
		},
		Catalog: config.CatalogConfig{
			Lights:          []string{"Quarto Gui", "Quarto Ana"},
			FanRooms:        []string{"Quarto Gui"},
			CameraAreas:     []string{"frente"},
			SpotifyAccounts: []string{"Guilherme"},
			TwitchStreamers: []config.Streamer{{Id: "gaules", FriendlyName: "Gaules"}},
		},
		Port: 8080,
	}
}

func ComponentLogger(name string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("component", name))
}

func SlogLevel(level zapcore.Level) slog.Level {
	switch level {
	case zap.DebugLevel:
		return slog.LevelDebug
	case zap.InfoLevel:
		return slog.LevelInfo
	case zap.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// NewConsoleLogger is the slog logger used before zap is configured.
func NewConsoleLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	}))
}
